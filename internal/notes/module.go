package notes

import (
	"github.com/brizzai/tubenotes/internal/storage"
	"go.uber.org/fx"
)

func newRepository(db *storage.DB) Repository {
	return NewSQLRepository(db.DB, db.Driver)
}

var Module = fx.Module("notes",
	fx.Provide(
		newRepository,
		NewService,
	),
)
