// Package storage opens the application database and applies migrations.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/brizzai/tubenotes/internal/config"
	"github.com/brizzai/tubenotes/internal/logger"
	"github.com/brizzai/tubenotes/internal/storage/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// DB is an open application database together with its dialect
type DB struct {
	*sql.DB
	Driver config.StorageDriver
}

// goose keeps its dialect and filesystem in package state
var gooseMu sync.Mutex

// gooseUpContext is a seam for tests
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Open connects to the configured database and runs migrations
func Open(ctx context.Context, cfg config.StorageConfig) (*DB, error) {
	var (
		db  *sql.DB
		err error
	)

	switch cfg.Driver {
	case config.StorageDriverSQLite, "":
		if err := ensureDir(cfg.DSN); err != nil {
			return nil, err
		}
		db, err = sql.Open("sqlite", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("db open error: %w", err)
		}
		// one connection keeps :memory: databases shared and serializes writers
		db.SetMaxOpenConns(1)
		cfg.Driver = config.StorageDriverSQLite
	case config.StorageDriverPostgres:
		db, err = sql.Open("pgx", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("db open error: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	if err := Migrate(ctx, db, cfg.Driver); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	logger.Info("Database ready", zap.String("driver", string(cfg.Driver)))
	return &DB{DB: db, Driver: cfg.Driver}, nil
}

// Migrate applies the embedded migrations
func Migrate(ctx context.Context, db *sql.DB, driver config.StorageDriver) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	dialect := "sqlite3"
	if driver == config.StorageDriverPostgres {
		dialect = "postgres"
	}
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}

	return gooseUpContext(ctx, db, ".")
}

func ensureDir(dsn string) error {
	if dsn == "" || dsn == ":memory:" || strings.HasPrefix(dsn, "file:") {
		return nil
	}
	dir := filepath.Dir(dsn)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create database directory %s: %w", dir, err)
	}
	return nil
}

// NewDB provides the database to fx and closes it on stop
func NewDB(lc fx.Lifecycle, cfg *config.Config) (*DB, error) {
	db, err := Open(context.Background(), cfg.Storage)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return db.Close()
		},
	})
	return db, nil
}

// Module provides the storage dependencies
var Module = fx.Module("storage",
	fx.Provide(NewDB),
)

// Rebind rewrites ? placeholders into the $n form postgres expects
func Rebind(driver config.StorageDriver, query string) string {
	if driver != config.StorageDriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
