package auth

import (
	"context"
	"net/http"

	"github.com/brizzai/tubenotes/internal/auth/providers"
	"github.com/brizzai/tubenotes/internal/auth/tokenstore"
	"github.com/brizzai/tubenotes/internal/config"
	"github.com/brizzai/tubenotes/internal/storage"
	"go.uber.org/fx"
)

func newGoogleProvider(cfg *config.Config) (*providers.GoogleProvider, error) {
	return providers.NewGoogleProvider(&cfg.OAuth, &http.Client{})
}

func newTokenStore(lc fx.Lifecycle, cfg *config.Config, db *storage.DB) (tokenstore.Store, error) {
	store, closer, err := tokenstore.New(context.Background(), cfg, db.DB)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return closer() },
	})
	return store, nil
}

// Module provides the OAuth client and its store
var Module = fx.Module("auth",
	fx.Provide(
		fx.Annotate(
			newGoogleProvider,
			fx.As(new(providers.Provider)),
		),
		newTokenStore,
		NewClient,
	),
)
