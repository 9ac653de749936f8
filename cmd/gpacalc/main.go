package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-kit/log"
	"github.com/spf13/cobra"

	"github.com/dshills/gpacalc/internal/config"
	"github.com/dshills/gpacalc/internal/engine"
	"github.com/dshills/gpacalc/internal/logging"
)

var version = "0.1.0"

type globalFlags struct {
	configPath string
	envFile    string
	rosterDir  string
	dataDir    string
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, ee.msg)
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:           "gpacalc",
		Short:         "Compute, rank and export cohort GPA and average score reports",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&g.configPath, "config", "", "YAML config file (default: built-in settings)")
	flags.StringVar(&g.envFile, "env-file", ".env", "Environment file read before the process environment")
	flags.StringVar(&g.rosterDir, "roster-dir", "", "Directory of roster sheets (overrides config)")
	flags.StringVar(&g.dataDir, "data-dir", "", "Directory of grade sheets (overrides config)")
	flags.BoolVar(&g.verbose, "verbose", false, "Log processing steps to stderr")

	root.AddCommand(newReportCmd(g))
	root.AddCommand(newCoverageCmd(g))
	root.AddCommand(newServeCmd(g))
	return root
}

// setup resolves the configuration and logger shared by every command.
func (g *globalFlags) setup(stderr io.Writer) (*config.Config, log.Logger, error) {
	cfg, err := config.Load(g.configPath, g.envFile)
	if err != nil {
		return nil, nil, exitError(3, "failed to load config: %v", err)
	}
	if g.rosterDir != "" {
		cfg.RosterDir = g.rosterDir
	}
	if g.dataDir != "" {
		cfg.DataDir = g.dataDir
	}
	lvl := cfg.Log.Level
	if g.verbose {
		lvl = logging.LevelDebug
	}
	logger, err := logging.New(stderr, lvl)
	if err != nil {
		return nil, nil, exitError(3, "invalid log level: %v", err)
	}
	return cfg, logger, nil
}

func sources(cfg *config.Config) engine.Sources {
	return engine.Sources{
		RosterDir:   cfg.RosterDir,
		DataDir:     cfg.DataDir,
		RosterSheet: cfg.RosterSheet,
		Columns:     cfg.Columns,
	}
}

type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func exitError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}
