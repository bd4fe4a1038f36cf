package summary

import (
	"github.com/brizzai/tubenotes/internal/config"
	"github.com/brizzai/tubenotes/internal/storage"
	"go.uber.org/fx"
)

func newRepository(db *storage.DB) Repository {
	return NewSQLRepository(db.DB, db.Driver)
}

func newGateway(cfg *config.Config) Generator {
	return NewGateway(&cfg.Summary)
}

var Module = fx.Module("summary",
	fx.Provide(
		newRepository,
		newGateway,
		NewService,
	),
)
