package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"

	apperrors "github.com/agbru/resmon/internal/errors"
	"github.com/agbru/resmon/internal/format"
	"github.com/agbru/resmon/internal/sensor"
	"github.com/agbru/resmon/internal/ui"
)

// checkRefreshRate is the spinner animation interval for the diagnostic mode.
const checkRefreshRate = 100 * time.Millisecond

// Spinner abstracts the terminal spinner so the diagnostic flow can be
// tested without driving a real animation.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts the spinner library to the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start()                     { rs.s.Start() }
func (rs *realSpinner) Stop()                      { rs.s.Stop() }
func (rs *realSpinner) UpdateSuffix(suffix string) { rs.s.Suffix = suffix }

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], checkRefreshRate, options...)
	return &realSpinner{s}
}

// probeResult is the outcome of one diagnostic probe.
type probeResult struct {
	metric  sensor.Metric
	percent float64
	latency time.Duration
	err     error
}

// runCheck probes every configured sensor once and reports the outcome.
// A failed CPU or memory probe is fatal for the diagnostic; a missing GPU
// is reported but does not fail the check, matching the sampler's neutral
// substitution.
func (a *Application) runCheck(ctx context.Context, out io.Writer) int {
	sensors, cleanup := a.buildSensors()
	defer cleanup()

	sp := newSpinner(spinner.WithWriter(a.ErrWriter))
	sp.Start()

	results := make([]probeResult, 0, len(sensors))
	for _, s := range sensors {
		sp.UpdateSuffix(fmt.Sprintf(" probing %s...", s.Metric()))

		start := time.Now()
		percent, err := s.Sample(ctx)
		results = append(results, probeResult{
			metric:  s.Metric(),
			percent: percent,
			latency: time.Since(start),
			err:     err,
		})

		if ctx.Err() != nil {
			sp.Stop()
			return apperrors.ExitErrorCanceled
		}
	}
	sp.Stop()

	return printCheckResults(out, results)
}

// printCheckResults renders the probe outcomes and derives the exit code.
func printCheckResults(out io.Writer, results []probeResult) int {
	theme := ui.GetCurrentTheme()
	exitCode := apperrors.ExitSuccess

	for _, r := range results {
		latency := theme.Dim + "(" + format.FormatExecutionDuration(r.latency) + ")" + theme.Reset

		switch {
		case r.err == nil:
			fmt.Fprintf(out, "%sok%s      %-7s %6.1f%% %s\n",
				theme.Success, theme.Reset, r.metric, r.percent, latency)

		case apperrors.IsUnavailable(r.err):
			fmt.Fprintf(out, "%sabsent%s  %-7s %v\n",
				theme.Warning, theme.Reset, r.metric, r.err)

		default:
			fmt.Fprintf(out, "%sfailed%s  %-7s %v\n",
				theme.Error, theme.Reset, r.metric, r.err)
			exitCode = apperrors.ExitErrorSensor
		}
	}
	return exitCode
}
