// Package app wires the tubenotes modules together with fx.
package app

import (
	"context"
	"fmt"

	"github.com/brizzai/tubenotes/internal/auth"
	"github.com/brizzai/tubenotes/internal/config"
	"github.com/brizzai/tubenotes/internal/logger"
	"github.com/brizzai/tubenotes/internal/notes"
	"github.com/brizzai/tubenotes/internal/requester"
	"github.com/brizzai/tubenotes/internal/server"
	"github.com/brizzai/tubenotes/internal/storage"
	"github.com/brizzai/tubenotes/internal/summary"
	"github.com/brizzai/tubenotes/internal/youtube"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Options returns every module the application needs
func Options(cfg *config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		fx.WithLogger(logger.FxEventLogger),
		storage.Module,
		auth.Module,
		requester.Module,
		youtube.Module,
		summary.Module,
		notes.Module,
		server.Module,
	)
}

// New builds an application that runs the server until it is stopped
func New(cfg *config.Config) *fx.App {
	return fx.New(
		Options(cfg),
		fx.Invoke(runServer),
	)
}

func runServer(lc fx.Lifecycle, shutdowner fx.Shutdowner, srv *server.Server) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				err := srv.Start(ctx)
				if ctx.Err() != nil {
					return
				}
				// stdio ends when the client closes stdin
				if err != nil {
					logger.Error("Server stopped with error", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
					return
				}
				_ = shutdowner.Shutdown()
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}

// Populate starts the modules, fills targets like fx.Populate and returns a
// function that stops them again. It is used by one-shot CLI commands.
func Populate(ctx context.Context, cfg *config.Config, targets ...interface{}) (func(), error) {
	a := fx.New(
		Options(cfg),
		fx.Populate(targets...),
	)
	if err := a.Err(); err != nil {
		return nil, fmt.Errorf("failed to build application: %w", err)
	}
	if err := a.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start application: %w", err)
	}
	return func() {
		if err := a.Stop(context.Background()); err != nil {
			logger.Warn("Failed to stop application", zap.Error(err))
		}
	}, nil
}
