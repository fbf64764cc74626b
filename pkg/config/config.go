// Package config assembles the check configuration from defaults, the
// environment and command-line flags.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/m4ce/sensu-plugins-disk-usage/pkg/check"
	"github.com/m4ce/sensu-plugins-disk-usage/pkg/filter"
	"github.com/m4ce/sensu-plugins-disk-usage/pkg/output"
	"github.com/m4ce/sensu-plugins-disk-usage/pkg/runner"
	"github.com/m4ce/sensu-plugins-disk-usage/pkg/sink"
)

// OverridesFile is the override file name looked up next to the executable.
const OverridesFile = "disk-usage.json"

// Log formats.
const (
	LogText = "text"
	LogJSON = "json"
)

// Config is the full check configuration.
type Config struct {
	Filters  filter.Config
	Defaults check.Defaults
	Handlers []string
	WarnOnly bool

	OverridesPath string
	SinkAddr      string
	DryRun        bool
	Format        output.Format

	LogLevel  string
	LogFormat string

	DebugTiming bool
	DumpRaw     bool
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Defaults:      check.DefaultThresholds(),
		OverridesPath: DefaultOverridesPath(),
		SinkAddr:      sink.DefaultAddr,
		Format:        output.FormatSensu,
		LogLevel:      "warn",
		LogFormat:     LogText,
	}
}

// DefaultOverridesPath returns disk-usage.json in the executable's directory.
func DefaultOverridesPath() string {
	exe, err := os.Executable()
	if err != nil {
		return OverridesFile
	}
	return filepath.Join(filepath.Dir(exe), OverridesFile)
}

// LoadEnv applies environment settings to cfg. A .env file in the working
// directory is read first if present.
func LoadEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("SENSU_CLIENT_ADDR"); v != "" {
		cfg.SinkAddr = v
	}
	if v := os.Getenv("DISK_USAGE_CONFIG"); v != "" {
		cfg.OverridesPath = v
	}
}

// Validate checks the settings that are not part of the evaluation itself.
// Thresholds are not range-checked.
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return &check.ConfigError{Op: "log level", Err: err}
	}

	switch strings.ToLower(c.LogFormat) {
	case LogText, LogJSON:
	default:
		return &check.ConfigError{Op: "log format", Err: fmt.Errorf("unsupported format %q, must be one of: text, json", c.LogFormat)}
	}

	switch c.Format {
	case output.FormatSensu, output.FormatTable, output.FormatJSON:
	default:
		return &check.ConfigError{Op: "output format", Err: fmt.Errorf("unsupported format %q, must be one of: sensu, table, json", c.Format)}
	}

	if !c.DryRun && strings.TrimSpace(c.SinkAddr) == "" {
		return &check.ConfigError{Op: "sink", Err: fmt.Errorf("sink address cannot be empty")}
	}
	return nil
}

// Runner returns the run configuration.
func (c *Config) Runner() runner.Config {
	return runner.Config{
		Filters:  c.Filters,
		Defaults: c.Defaults,
		Handlers: c.Handlers,
		WarnOnly: c.WarnOnly,
	}
}

// NewLogger builds the logrus logger described by cfg, writing to w.
func (c *Config) NewLogger(w io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, &check.ConfigError{Op: "log level", Err: err}
	}

	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(level)
	if strings.ToLower(c.LogFormat) == LogJSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return logger, nil
}
