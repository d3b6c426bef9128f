// Package server wires the pieces together for the default run mode:
// it loads the configuration, owns the request pipe, and feeds decoded
// requests to the dispatcher one at a time, in arrival order. Command
// execution itself is fire-and-forget, so a slow test run never blocks
// the intake of the next request.
package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/testpilot/pkg/config"
	"github.com/arthur-debert/testpilot/pkg/dispatcher"
	"github.com/arthur-debert/testpilot/pkg/errors"
	"github.com/arthur-debert/testpilot/pkg/executor"
	"github.com/arthur-debert/testpilot/pkg/listener"
	"github.com/arthur-debert/testpilot/pkg/logging"
	"github.com/arthur-debert/testpilot/pkg/request"
	"github.com/arthur-debert/testpilot/pkg/rules"
	"github.com/arthur-debert/testpilot/pkg/ui"
)

// Options configures a server run
type Options struct {
	// Dir is the directory holding the configuration file and the pipe.
	// Defaults to the working directory.
	Dir string

	// NoWatch disables configuration hot-reload
	NoWatch bool

	// Launcher overrides the shell launcher. Used by tests.
	Launcher dispatcher.Launcher

	// Notifier overrides the terminal notifier. Used by tests.
	Notifier *ui.Notifier
}

// Run starts the bridge and blocks until the context is cancelled, an
// interrupt arrives, or the pipe becomes unreadable
func Run(ctx context.Context, opts Options) error {
	logger := logging.GetLogger("server")

	dir := opts.Dir
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return errors.Wrap(err, errors.ErrInternal, "cannot determine working directory")
		}
	}

	notifier := opts.Notifier
	if notifier == nil {
		notifier = ui.NewNotifier(os.Stdout)
	}
	launcher := opts.Launcher
	if launcher == nil {
		launcher = executor.NewShellLauncher()
	}

	cfg, configPath, err := config.Load(dir)
	if err != nil {
		return err
	}

	pipe := listener.InDir(dir)
	if pipe.Exists() {
		return errors.Newf(errors.ErrPipeExists,
			"pipe %s already exists: another instance may be running (delete the file if it is not)",
			pipe.Path())
	}
	if err := pipe.Create(); err != nil {
		return err
	}
	defer func() {
		if err := pipe.Delete(); err != nil {
			logger.Warn().Err(err).Msg("could not remove pipe on shutdown")
		}
	}()

	d := dispatcher.New(cfg, launcher, notifier)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	reloads := make(chan rules.Configuration, 1)
	if !opts.NoWatch {
		// the new configuration is applied on the request loop below, so
		// the dispatcher stays single-threaded
		if err := config.Watch(ctx, configPath, func(cfg rules.Configuration) {
			reloads <- cfg
		}); err != nil {
			logger.Warn().Err(err).Msg("configuration watching unavailable")
		}
	}

	events := make(chan listener.Event, 16)
	pipe.Listen(ctx, events)

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupts)

	notifier.Info("listening for requests on " + pipe.Path())
	logger.Info().Str("config", configPath).Str("pipe", pipe.Path()).Msg("bridge started")

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-interrupts:
			notifier.Info("shutting down")
			return nil

		case cfg := <-reloads:
			d.SetConfiguration(cfg)
			notifier.Info("configuration reloaded")

		case event := <-events:
			if event.Err != nil {
				return event.Err
			}
			req, err := request.Decode([]byte(event.Line))
			if err != nil {
				logger.Warn().Err(err).Str("line", event.Line).Msg("discarding malformed request")
				notifier.Error(err)
				continue
			}
			// dispatch errors are recoverable and already reported
			_ = d.Handle(req)
		}
	}
}
