package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/xvierd/somatic/internal/adapters/clock"
	"github.com/xvierd/somatic/internal/adapters/notification"
	"github.com/xvierd/somatic/internal/config"
	"github.com/xvierd/somatic/internal/domain"
	"github.com/xvierd/somatic/internal/services"
)

// appDeps groups the dependencies every command shares.
type appDeps struct {
	config     *config.Config
	configPath string
	notifier   *notification.Notifier
	logger     *log.Logger
	logFile    io.Closer
}

// app holds the initialized dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices loads the config and applies flag overrides.
func initializeServices(cmd *cobra.Command) error {
	path := configPath
	if path == "" {
		var err error
		path, err = config.GetConfigPath()
		if err != nil {
			return err
		}
	}

	cfg, err := config.LoadFrom(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("duration") {
		cfg.Session.DurationSeconds = durationFlag
	}
	if logLevelFlag != "" {
		cfg.Log.Level = logLevelFlag
	}

	app.config = cfg
	app.configPath = path
	app.notifier = notification.New(&cfg.Notifications)
	app.logger = log.NewWithOptions(io.Discard, log.Options{})
	return nil
}

// cleanupServices closes all resources.
func cleanupServices() error {
	if app.logFile != nil {
		err := app.logFile.Close()
		app.logFile = nil
		return err
	}
	return nil
}

// openLogger builds the structured logger. The full-screen UI owns the
// terminal, so it logs to the configured file; headless commands log to
// stderr because stdout may carry a protocol.
func openLogger(toStderr bool) (*log.Logger, error) {
	level, err := log.ParseLevel(app.config.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", app.config.Log.Level, err)
	}

	var out io.Writer = os.Stderr
	if !toStderr {
		if err := os.MkdirAll(filepath.Dir(app.config.Log.File), 0750); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(app.config.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		app.logFile = f
		out = f
	}

	logger := log.NewWithOptions(out, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "somatic",
	})
	return logger, nil
}

// session is one running controller and the loop that owns it.
type session struct {
	loop *clock.Loop
	ctrl *services.FlowController
}

// newSession validates the config and wires a controller onto a fresh loop.
func newSession(toStderr bool) (*session, error) {
	if err := app.config.Validate(); err != nil {
		return nil, err
	}

	logger, err := openLogger(toStderr)
	if err != nil {
		return nil, err
	}
	app.logger = logger

	loop := clock.NewLoop()
	ctrl, err := services.NewFlowController(loop, app.config.ToSessionConfig(), logger)
	if err != nil {
		loop.Close()
		return nil, fmt.Errorf("failed to create session controller: %w", err)
	}

	ctrl.SetOnSessionComplete(func(mood domain.MoodStyle) {
		if err := app.notifier.NotifySessionComplete(mood); err != nil {
			logger.Warn("notification failed", "err", err)
		}
	})

	logger.Info("session controller ready",
		"duration", app.config.Session.DurationSeconds,
		"grace", app.config.Session.Grace,
		"auto_dismiss", app.config.Afterglow.AutoDismiss)

	return &session{loop: loop, ctrl: ctrl}, nil
}

// Close cancels pending timers and shuts the loop down.
func (s *session) Close() {
	s.ctrl.Close()
	s.loop.Close()
}

// setupSignalHandler returns a context that is cancelled on interrupt signals.
func setupSignalHandler() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
