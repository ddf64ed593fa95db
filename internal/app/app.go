// Package app wires the sampler, HTTP API, and dashboard into a runnable
// application: argument parsing, logging setup, signal handling, and mode
// dispatch.
package app

import (
	"context"
	"errors"
	"flag"
	"io"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/resmon/internal/config"
	apperrors "github.com/agbru/resmon/internal/errors"
	"github.com/agbru/resmon/internal/logging"
	"github.com/agbru/resmon/internal/metrics"
	"github.com/agbru/resmon/internal/monitor"
	"github.com/agbru/resmon/internal/sensor"
	"github.com/agbru/resmon/internal/server"
	"github.com/agbru/resmon/internal/tui"
	"github.com/agbru/resmon/internal/ui"
)

// Application represents the resmon application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer

	// sensors overrides the default probe set, used by tests.
	sensors []sensor.Sensor
	logger  logging.Logger
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithSensors sets a custom probe set for the application.
func WithSensors(sensors ...sensor.Sensor) AppOption {
	return func(a *Application) { a.sensors = sensors }
}

// WithAppLogger sets a custom logger for the application.
func WithAppLogger(l logging.Logger) AppOption {
	return func(a *Application) { a.logger = l }
}

// New creates a new Application instance by parsing command-line arguments.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}

	programName := "resmon"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}

	app.Config = cfg
	return app, nil
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	switch {
	case a.Config.Quiet:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case a.Config.Verbose:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	ui.InitTheme()

	if a.logger == nil {
		a.logger = logging.NewDefaultLogger()
	}

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	if a.Config.Check {
		return a.runCheck(ctx, out)
	}

	sensors, cleanup := a.buildSensors()
	defer cleanup()

	inst := metrics.NewInstruments()
	mon := monitor.New(a.Config.HistoryCap, sensors,
		monitor.WithInterval(a.Config.Interval),
		monitor.WithLogger(a.logger),
		monitor.WithInstruments(inst),
	)
	mon.Start(ctx)

	if a.Config.TUI {
		code := tui.Run(ctx, mon, Version)
		stopSignals()
		<-mon.Done()
		return code
	}

	return a.runHeadless(ctx, mon, inst)
}

// runHeadless serves the HTTP API until a signal or server failure stops it,
// then waits for the sampler to drain.
func (a *Application) runHeadless(ctx context.Context, mon *monitor.Monitor, inst *metrics.Instruments) int {
	srv := server.New(a.Config.ListenAddr, Version, mon, inst, a.logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		<-mon.Done()
		return nil
	})

	if err := g.Wait(); err != nil {
		a.logger.Error("application failed", err)
		return apperrors.ExitErrorGeneric
	}

	a.logger.Info("shutdown complete", logging.Uint64("ticks", mon.Ticks()))
	return apperrors.ExitSuccess
}

// buildSensors assembles the probe set for the configured metrics. The
// returned cleanup releases probe resources, currently the NVML handle.
func (a *Application) buildSensors() ([]sensor.Sensor, func()) {
	if a.sensors != nil {
		return a.sensors, func() {}
	}

	sensors := []sensor.Sensor{
		sensor.NewCPUSensor(),
		sensor.NewMemorySensor(),
	}
	cleanup := func() {}

	if a.Config.GPU {
		gpu := sensor.NewGPUSensor()
		sensors = append(sensors, gpu)
		cleanup = func() {
			if err := gpu.Close(); err != nil {
				a.logger.Debug("gpu sensor close", logging.Err(err))
			}
		}
	}
	return sensors, cleanup
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
