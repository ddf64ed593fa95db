// Package apperrors provides tests for application error types.
package apperrors

import (
	"context"
	"errors"
	"testing"
)

func TestConfigError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		err         error
		expected    string
		checkTypeAs bool
	}{
		{
			name:     "Error returns message",
			err:      ConfigError{Message: "invalid flag value"},
			expected: "invalid flag value",
		},
		{
			name:     "NewConfigError creates formatted error",
			err:      NewConfigError("invalid value %d for flag %s", 42, "--interval"),
			expected: "invalid value 42 for flag --interval",
		},
		{
			name:        "ConfigError type assertion",
			err:         NewConfigError("test error"),
			expected:    "test error",
			checkTypeAs: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.err.Error())
			}
			if tt.checkTypeAs {
				var configErr ConfigError
				if !errors.As(tt.err, &configErr) {
					t.Error("expected error to be ConfigError type")
				}
			}
		})
	}
}

func TestSensorUnavailableError(t *testing.T) {
	t.Parallel()

	err := SensorUnavailableError{Metric: "gpu", Reason: "no devices found"}

	t.Run("Error includes metric and reason", func(t *testing.T) {
		want := "sensor for gpu unavailable: no devices found"
		if err.Error() != want {
			t.Errorf("expected %q, got %q", want, err.Error())
		}
	})

	t.Run("IsUnavailable detects the type", func(t *testing.T) {
		if !IsUnavailable(err) {
			t.Error("IsUnavailable should be true for SensorUnavailableError")
		}
	})

	t.Run("IsUnavailable detects a wrapped instance", func(t *testing.T) {
		wrapped := WrapError(err, "probing accelerators")
		if !IsUnavailable(wrapped) {
			t.Error("IsUnavailable should unwrap the chain")
		}
	})

	t.Run("IsUnavailable is false for other errors", func(t *testing.T) {
		if IsUnavailable(errors.New("boom")) {
			t.Error("IsUnavailable should be false for unrelated errors")
		}
	})
}

func TestSensorReadError(t *testing.T) {
	t.Parallel()

	cause := errors.New("device handle lost")
	err := SensorReadError{Metric: "cpu", Cause: cause}

	t.Run("Error includes metric and cause", func(t *testing.T) {
		want := "sensor read failed for cpu: device handle lost"
		if err.Error() != want {
			t.Errorf("expected %q, got %q", want, err.Error())
		}
	})

	t.Run("Unwrap exposes the cause", func(t *testing.T) {
		if !errors.Is(err, cause) {
			t.Error("errors.Is should find the wrapped cause")
		}
	})

	t.Run("errors.As extracts the type through wrapping", func(t *testing.T) {
		wrapped := WrapError(err, "tick %d", 7)
		var re SensorReadError
		if !errors.As(wrapped, &re) {
			t.Fatal("errors.As should extract SensorReadError")
		}
		if re.Metric != "cpu" {
			t.Errorf("Metric = %q, want %q", re.Metric, "cpu")
		}
	})
}

func TestStateLockError(t *testing.T) {
	t.Parallel()

	var err error = StateLockError{}
	if err.Error() == "" {
		t.Error("StateLockError should carry a message")
	}

	var le StateLockError
	if !errors.As(err, &le) {
		t.Error("expected error to be StateLockError type")
	}
}

func TestWrapError(t *testing.T) {
	t.Parallel()

	t.Run("nil error returns nil", func(t *testing.T) {
		if WrapError(nil, "context") != nil {
			t.Error("WrapError(nil) should return nil")
		}
	})

	t.Run("wrapped error preserves chain", func(t *testing.T) {
		base := errors.New("base")
		wrapped := WrapError(base, "while sampling %s", "memory")
		if !errors.Is(wrapped, base) {
			t.Error("wrapped error should match base via errors.Is")
		}
		want := "while sampling memory: base"
		if wrapped.Error() != want {
			t.Errorf("expected %q, got %q", want, wrapped.Error())
		}
	})
}

func TestIsContextError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"canceled", context.Canceled, true},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"wrapped canceled", WrapError(context.Canceled, "tick"), true},
		{"other error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsContextError(tt.err); got != tt.want {
				t.Errorf("IsContextError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
