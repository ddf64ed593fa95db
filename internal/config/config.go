// Package config defines the application configuration and its resolution
// chain: CLI flags take precedence over RESMON_-prefixed environment
// variables, which take precedence over built-in defaults.
package config

import (
	"flag"
	"io"
	"time"

	apperrors "github.com/agbru/resmon/internal/errors"
)

// EnvPrefix is prepended to every environment variable read by this package.
const EnvPrefix = "RESMON_"

// Built-in defaults. The sampling cadence and retention follow the
// reference deployment: one sample per second, sixty samples of history.
const (
	DefaultListenAddr = ":8090"
	DefaultInterval   = 1 * time.Second
	DefaultHistoryCap = 60
)

// AppConfig holds the resolved application configuration.
type AppConfig struct {
	// ListenAddr is the HTTP API listen address.
	ListenAddr string
	// Interval is the sampling interval. Sub-second intervals are rejected.
	Interval time.Duration
	// HistoryCap is the number of samples retained per metric.
	HistoryCap int
	// GPU enables the GPU sensor. Disabling it skips NVML entirely;
	// GPU accessors then report the neutral zero.
	GPU bool
	// TUI launches the terminal dashboard instead of running headless.
	TUI bool
	// Check runs a one-shot sensor diagnostic and exits.
	Check bool
	// Verbose enables debug-level logging.
	Verbose bool
	// Quiet suppresses all logging below error level.
	Quiet bool
}

// ParseConfig parses command-line arguments into an AppConfig, applies
// environment overrides for flags not explicitly set, and validates the
// result. Usage and parse errors are written to errWriter.
func ParseConfig(programName string, args []string, errWriter io.Writer) (AppConfig, error) {
	cfg := AppConfig{
		ListenAddr: DefaultListenAddr,
		Interval:   DefaultInterval,
		HistoryCap: DefaultHistoryCap,
		GPU:        true,
	}

	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	fs.StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "HTTP API listen address")
	fs.DurationVar(&cfg.Interval, "interval", cfg.Interval, "sampling interval (minimum 1s)")
	fs.IntVar(&cfg.HistoryCap, "history", cfg.HistoryCap, "retained samples per metric")
	fs.BoolVar(&cfg.GPU, "gpu", cfg.GPU, "enable the GPU sensor")
	fs.BoolVar(&cfg.TUI, "tui", cfg.TUI, "run the terminal dashboard")
	fs.BoolVar(&cfg.Check, "check", cfg.Check, "probe all sensors once and exit")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "enable debug logging")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable debug logging")
	fs.BoolVar(&cfg.Quiet, "quiet", cfg.Quiet, "log errors only")
	fs.BoolVar(&cfg.Quiet, "q", cfg.Quiet, "log errors only")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	applyEnvOverrides(&cfg, fs)

	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the monitor cannot run with.
func (c AppConfig) Validate() error {
	if c.Interval < time.Second {
		return apperrors.NewConfigError("interval must be at least 1s, got %s", c.Interval)
	}
	if c.HistoryCap < 1 {
		return apperrors.NewConfigError("history must be at least 1, got %d", c.HistoryCap)
	}
	if c.ListenAddr == "" && !c.TUI && !c.Check {
		return apperrors.NewConfigError("listen address must not be empty in headless mode")
	}
	return nil
}
