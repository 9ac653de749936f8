package main

import (
	"fmt"
	"io"

	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"github.com/dshills/gpacalc/internal/engine"
	"github.com/dshills/gpacalc/internal/render"
)

func newCoverageCmd(g *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "coverage",
		Short: "Show which cohort semesters have grade sheets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCoverage(g, format, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, dot or mermaid")
	return cmd
}

func runCoverage(g *globalFlags, format string, stdout, stderr io.Writer) error {
	cfg, logger, err := g.setup(stderr)
	if err != nil {
		return err
	}
	gf := render.GraphFormat(format)
	if !gf.Valid() {
		return exitError(3, "unknown format: %s", format)
	}

	snap, err := engine.Load(sources(cfg), logger)
	if err != nil {
		return exitError(3, "failed to load inputs: %v", err)
	}
	for _, d := range snap.Diagnostics() {
		level.Debug(logger).Log("msg", "load diagnostic", "detail", d)
	}

	out, err := render.Coverage(snap.Coverage, gf)
	if err != nil {
		return fmt.Errorf("failed to render coverage: %w", err)
	}
	fmt.Fprint(stdout, out)
	return nil
}
