// Package config loads gpacalc settings from embedded defaults, an optional
// YAML file, a .env file and the environment.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dshills/gpacalc/internal/roster"
)

//go:embed default.yaml
var defaultYAML []byte

// Environment variables that override file settings.
const (
	EnvRosterDir = "GPACALC_ROSTER_DIR"
	EnvDataDir   = "GPACALC_DATA_DIR"
	EnvOutputDir = "GPACALC_OUTPUT_DIR"
	EnvAddr      = "GPACALC_ADDR"
	EnvLogLevel  = "GPACALC_LOG_LEVEL"
)

// Config is the resolved gpacalc configuration.
type Config struct {
	RosterDir   string         `yaml:"roster_dir"`
	DataDir     string         `yaml:"data_dir"`
	OutputDir   string         `yaml:"output_dir"`
	RosterSheet string         `yaml:"roster_sheet"`
	Columns     roster.Columns `yaml:"columns"`
	Server      Server         `yaml:"server"`
	Log         Log            `yaml:"log"`
}

// Server holds the HTTP API settings.
type Server struct {
	Addr     string        `yaml:"addr"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
	Debounce time.Duration `yaml:"debounce"`
}

// Log holds the logger settings.
type Log struct {
	Level string `yaml:"level"`
}

// Default returns the embedded defaults.
func Default() (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(defaultYAML, &c); err != nil {
		return nil, fmt.Errorf("config.Default: %w", err)
	}
	return &c, nil
}

// Load layers the file at path (if any) over the defaults, then applies
// variables from envFile and the process environment. The process
// environment wins over envFile. A missing envFile is ignored; a missing
// config file is not.
func Load(path, envFile string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config.Load: %w", err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("config.Load: parse %s: %w", path, err)
		}
	}

	dotenv := map[string]string{}
	if envFile != "" {
		dotenv, err = godotenv.Read(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config.Load: %s: %w", envFile, err)
		}
	}
	c.applyEnv(func(key string) (string, bool) {
		if v := os.Getenv(key); v != "" {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	})

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set(&c.RosterDir, EnvRosterDir)
	set(&c.DataDir, EnvDataDir)
	set(&c.OutputDir, EnvOutputDir)
	set(&c.Server.Addr, EnvAddr)
	set(&c.Log.Level, EnvLogLevel)
}

// Validate checks that every required setting is present.
func (c *Config) Validate() error {
	var missing []string
	for name, v := range map[string]string{
		"roster_dir":     c.RosterDir,
		"data_dir":       c.DataDir,
		"columns.name":   c.Columns.Name,
		"columns.id":     c.Columns.ID,
		"columns.class":  c.Columns.Class,
		"columns.major":  c.Columns.Major,
		"columns.source": c.Columns.Source,
	} {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("config: missing %s", strings.Join(missing, ", "))
	}
	if c.Server.CacheTTL < 0 || c.Server.Debounce < 0 {
		return fmt.Errorf("config: negative server duration")
	}
	return nil
}
