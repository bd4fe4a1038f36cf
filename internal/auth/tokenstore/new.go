package tokenstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/brizzai/tubenotes/internal/config"
)

// New builds the Store selected by cfg.Tokens.Backend. db is only used by the
// sql backend and may be nil otherwise. The returned closer releases backend
// connections owned by the store.
func New(ctx context.Context, cfg *config.Config, db *sql.DB) (*KVStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Tokens.Backend {
	case config.TokenBackendMemory:
		return NewMemoryStore(), noop, nil
	case config.TokenBackendFile:
		kv, err := NewFileKV(cfg.Tokens.FilePath)
		if err != nil {
			return nil, nil, err
		}
		return NewKVStore(kv), noop, nil
	case config.TokenBackendRedis:
		client, err := DialRedis(ctx, cfg.Tokens.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return NewKVStore(NewRedisKV(client)), client.Close, nil
	case config.TokenBackendSQL, "":
		if db == nil {
			return nil, nil, fmt.Errorf("sql token backend requires a database")
		}
		return NewKVStore(NewSQLKV(db, cfg.Storage.Driver)), noop, nil
	default:
		return nil, nil, fmt.Errorf("unsupported token backend: %s", cfg.Tokens.Backend)
	}
}
