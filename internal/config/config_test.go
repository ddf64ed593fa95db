package config

import (
	"errors"
	"io"
	"testing"
	"time"

	apperrors "github.com/agbru/resmon/internal/errors"
)

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := ParseConfig("resmon", nil, io.Discard)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}

	if cfg.ListenAddr != DefaultListenAddr {
		t.Errorf("ListenAddr = %q, want %q", cfg.ListenAddr, DefaultListenAddr)
	}
	if cfg.Interval != time.Second {
		t.Errorf("Interval = %v, want 1s", cfg.Interval)
	}
	if cfg.HistoryCap != 60 {
		t.Errorf("HistoryCap = %d, want 60", cfg.HistoryCap)
	}
	if !cfg.GPU {
		t.Error("GPU should default to enabled")
	}
	if cfg.TUI || cfg.Check || cfg.Verbose || cfg.Quiet {
		t.Error("mode flags should default to false")
	}
}

func TestParseConfig_Flags(t *testing.T) {
	args := []string{
		"-listen", "127.0.0.1:9999",
		"-interval", "5s",
		"-history", "120",
		"-gpu=false",
		"-tui",
		"-verbose",
	}

	cfg, err := ParseConfig("resmon", args, io.Discard)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}

	if cfg.ListenAddr != "127.0.0.1:9999" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.Interval != 5*time.Second {
		t.Errorf("Interval = %v, want 5s", cfg.Interval)
	}
	if cfg.HistoryCap != 120 {
		t.Errorf("HistoryCap = %d, want 120", cfg.HistoryCap)
	}
	if cfg.GPU {
		t.Error("GPU should be disabled by -gpu=false")
	}
	if !cfg.TUI {
		t.Error("TUI should be enabled")
	}
	if !cfg.Verbose {
		t.Error("Verbose should be enabled")
	}
}

func TestParseConfig_EnvOverrides(t *testing.T) {
	t.Setenv(EnvPrefix+"LISTEN", ":7070")
	t.Setenv(EnvPrefix+"INTERVAL", "2s")
	t.Setenv(EnvPrefix+"HISTORY", "30")
	t.Setenv(EnvPrefix+"GPU", "no")

	cfg, err := ParseConfig("resmon", nil, io.Discard)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}

	if cfg.ListenAddr != ":7070" {
		t.Errorf("ListenAddr = %q, want env override :7070", cfg.ListenAddr)
	}
	if cfg.Interval != 2*time.Second {
		t.Errorf("Interval = %v, want env override 2s", cfg.Interval)
	}
	if cfg.HistoryCap != 30 {
		t.Errorf("HistoryCap = %d, want env override 30", cfg.HistoryCap)
	}
	if cfg.GPU {
		t.Error("GPU should be disabled by RESMON_GPU=no")
	}
}

func TestParseConfig_FlagsBeatEnv(t *testing.T) {
	t.Setenv(EnvPrefix+"INTERVAL", "10s")

	cfg, err := ParseConfig("resmon", []string{"-interval", "3s"}, io.Discard)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Interval != 3*time.Second {
		t.Errorf("Interval = %v, CLI flag should beat env", cfg.Interval)
	}
}

func TestParseConfig_Validation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"sub-second interval rejected", []string{"-interval", "100ms"}},
		{"zero history rejected", []string{"-history", "0"}},
		{"empty listen in headless mode rejected", []string{"-listen", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig("resmon", tt.args, io.Discard)
			var configErr apperrors.ConfigError
			if !errors.As(err, &configErr) {
				t.Errorf("ParseConfig(%v) error = %v, want ConfigError", tt.args, err)
			}
		})
	}
}

func TestParseConfig_EmptyListenAllowedWithTUI(t *testing.T) {
	cfg, err := ParseConfig("resmon", []string{"-listen", "", "-tui"}, io.Discard)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.ListenAddr != "" {
		t.Errorf("ListenAddr = %q, want empty", cfg.ListenAddr)
	}
}

func TestParseBoolEnv(t *testing.T) {
	tests := []struct {
		val        string
		defaultVal bool
		want       bool
	}{
		{"true", false, true},
		{"1", false, true},
		{"YES", false, true},
		{"false", true, false},
		{"0", true, false},
		{"No", true, false},
		{"garbage", true, true},
		{"garbage", false, false},
	}

	for _, tt := range tests {
		if got := parseBoolEnv(tt.val, tt.defaultVal); got != tt.want {
			t.Errorf("parseBoolEnv(%q, %v) = %v, want %v", tt.val, tt.defaultVal, got, tt.want)
		}
	}
}
