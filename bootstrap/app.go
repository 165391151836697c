package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/authkit/logger"
)

// App runs a service through a uniform lifecycle. C is the typed config.
//
//	app, err := bootstrap.NewApp(cfg)
//	app.OnStart(openDatabase)
//	app.OnReady(startServer)
//	app.OnStop(stopServer, closeDatabase)
//	err = app.Run(ctx)
type App[C Config] struct {
	Name    string
	Version string
	Cfg     C
	Logger  *logger.Logger
	Summary *Summary

	gracefulTimeout time.Duration
	onStart         []Hook
	onReady         []Hook
	onStop          []Hook
}

// NewApp applies defaults, validates cfg and initializes the logger.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	base := cfg.GetServiceConfig()

	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		gracefulTimeout: 15 * time.Second,
	}

	o := resolveOptions(opts)
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(&base.Logging)
		app.Logger = logger.GetGlobalLogger()
	}

	app.Summary = NewSummary(base.Name, base.Version)
	if o.summaryOut != nil {
		app.Summary.out = o.summaryOut
	}
	return app, nil
}

// Run starts the app, blocks until SIGINT/SIGTERM or ctx is done, then
// shuts down gracefully.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		_ = a.stop()
		return err
	}

	a.Logger.Info("Application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)

	return a.stop()
}

// RunTask runs a finite task (such as provisioning) with the same start and
// stop hooks as Run. A signal cancels the task's context.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		_ = a.stop()
		return err
	}

	taskCtx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	taskErr := task(taskCtx)
	if stopErr := a.stop(); stopErr != nil && taskErr == nil {
		return stopErr
	}
	return taskErr
}

func (a *App[C]) startup(ctx context.Context) error {
	start := time.Now()
	a.Logger.Info("Starting application", logger.Fields("name", a.Name, "version", a.Version))

	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}
	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	a.Summary.SetStartupDuration(time.Since(start))
	a.Summary.Display(ctx)
	return nil
}

// WaitForSignal blocks until an interrupt/term signal or ctx cancellation.
func (a *App[C]) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal", logger.Fields("signal", sig.String()))
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// Shutdown runs the stop hooks. Use when managing the lifecycle yourself.
func (a *App[C]) Shutdown() error {
	return a.stop()
}

// stop runs every OnStop hook, last registered first, within the graceful
// timeout, and joins their errors.
func (a *App[C]) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var errs []error
	for i := len(a.onStop) - 1; i >= 0; i-- {
		if err := a.onStop[i](ctx); err != nil {
			a.Logger.Error("OnStop hook error", logger.ErrorFields("shutdown", err))
			errs = append(errs, err)
		}
	}
	a.onStop = nil

	a.Logger.Info("Application shutdown complete")
	return errors.Join(errs...)
}
