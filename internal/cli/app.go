// Package cli wires the lmsctl subcommands to configuration, logging and the
// MongoDB-backed services.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lmsops/internal/config"
	"lmsops/internal/logging"
	"lmsops/internal/repository"
	"lmsops/internal/store"

	"go.uber.org/zap"
)

// Backend is a scoped handle on the LMS collections.
type Backend interface {
	Users() repository.IUserRepository
	Notifications() repository.INotificationRepository
	Close() error
}

// Opener acquires a Backend for one command run.
type Opener func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Backend, error)

// OpenStore is the default Opener, connecting to MongoDB.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Backend, error) {
	s, err := store.Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// App holds the state shared by every subcommand of one invocation.
type App struct {
	Open   Opener
	Logger *zap.Logger // built from config when nil

	cfg    *config.Config
	logger *zap.Logger

	configFile string
	envFile    string
	verbose    bool
	timeout    time.Duration
}

// NewApp returns an App that talks to MongoDB.
func NewApp() *App {
	return &App{Open: OpenStore}
}

func (a *App) setup() error {
	cfg, err := config.Load(config.LoadOptions{ConfigFile: a.configFile, EnvFile: a.envFile})
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.timeout > 0 {
		cfg.OpTimeout = a.timeout
	}
	a.cfg = cfg

	if a.Logger != nil {
		a.logger = a.Logger
		return nil
	}
	logger, err := logging.New(cfg.LogLevel, a.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger
	return nil
}

// withStore opens a backend, runs fn under the operation timeout and always
// closes the backend afterwards.
func (a *App) withStore(ctx context.Context, fn func(ctx context.Context, b Backend) error) (err error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.OpTimeout)
	defer cancel()

	b, err := a.Open(ctx, a.cfg, a.logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := b.Close(); cerr != nil {
			a.logger.Warn("failed to close mongo connection", zap.Error(cerr))
			if err == nil {
				err = fmt.Errorf("failed to close mongo connection: %w", cerr)
			}
		}
	}()

	return fn(ctx, b)
}

// Execute runs lmsctl with os.Args and reports whether it succeeded.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := NewApp()
	root := app.RootCommand()
	err := root.ExecuteContext(ctx)
	if err != nil {
		app.reportError(root.ErrOrStderr(), err)
	}
	return err
}

func (a *App) reportError(w io.Writer, err error) {
	if errors.Is(err, context.Canceled) {
		err = fmt.Errorf("interrupted: %w", err)
	}
	if a.logger != nil {
		a.logger.Error("command failed", zap.Error(err))
		_ = a.logger.Sync()
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
