package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorSensor   = 2   // Indicates that a required sensor could not be probed.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect
// user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
//
// Returns:
//   - string: The error message string.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
// It allows for the creation of configuration-specific errors with dynamic
// content.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// SensorUnavailableError reports that a probe found no hardware to query,
// typically a GPU probe on a machine with no supported accelerator. It is a
// non-fatal condition: the sampler substitutes a neutral reading of zero.
type SensorUnavailableError struct {
	// Metric is the name of the metric whose probe found nothing to read.
	Metric string
	// Reason explains why no reading was available.
	Reason string
}

// Error returns a formatted message describing the missing sensor.
//
// Returns:
//   - string: The error message string.
func (e SensorUnavailableError) Error() string {
	return fmt.Sprintf("sensor for %s unavailable: %s", e.Metric, e.Reason)
}

// SensorReadError encapsulates a driver or OS level probe failure while
// preserving the original cause. It is non-fatal to the sampling loop: the
// affected metric simply keeps its previous value for that tick.
type SensorReadError struct {
	// Metric is the name of the metric whose probe failed.
	Metric string
	// Cause is the underlying error returned by the OS or driver.
	Cause error
}

// Error returns the error message including the underlying cause.
//
// Returns:
//   - string: The error message string.
func (e SensorReadError) Error() string {
	return fmt.Sprintf("sensor read failed for %s: %v", e.Metric, e.Cause)
}

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
//
// Returns:
//   - error: The underlying cause of the SensorReadError.
func (e SensorReadError) Unwrap() error { return e.Cause }

// StateLockError reports that the shared host-snapshot guard could not be
// acquired at the start of a sampling tick. The sampler's policy is to skip
// the whole tick rather than retry, so a persistently held guard cannot turn
// the loop into a busy-wait.
type StateLockError struct{}

// Error returns a fixed message describing the skipped acquisition.
//
// Returns:
//   - string: The error message string.
func (e StateLockError) Error() string {
	return "host snapshot guard is held, skipping tick"
}

// IsUnavailable checks whether the error (anywhere in its chain) is a
// SensorUnavailableError.
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: true if the error indicates missing hardware rather than a failed read.
func IsUnavailable(err error) bool {
	var ue SensorUnavailableError
	return errors.As(err, &ue)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline
// exceeded error.
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: true if the error is a context error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
