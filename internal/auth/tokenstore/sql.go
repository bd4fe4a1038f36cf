package tokenstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/brizzai/tubenotes/internal/config"
)

// SQLKV keeps slots in the token_slots table of the application database
type SQLKV struct {
	db      *sql.DB
	dialect config.StorageDriver
}

// NewSQLKV creates a SQLKV. The token_slots table must already exist.
func NewSQLKV(db *sql.DB, dialect config.StorageDriver) *SQLKV {
	return &SQLKV{db: db, dialect: dialect}
}

func (s *SQLKV) placeholder(n int) string {
	if s.dialect == config.StorageDriverPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (s *SQLKV) placeholders(from, count int) string {
	parts := make([]string, count)
	for i := range parts {
		parts[i] = s.placeholder(from + i)
	}
	return strings.Join(parts, ", ")
}

func (s *SQLKV) GetAll(ctx context.Context, keys ...string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}

	query := "SELECT slot, value FROM token_slots WHERE slot IN (" + s.placeholders(1, len(keys)) + ")"
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query token slots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var slot, value string
		if err := rows.Scan(&slot, &value); err != nil {
			return nil, fmt.Errorf("scan token slot: %w", err)
		}
		out[slot] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate token slots: %w", err)
	}
	return out, nil
}

func (s *SQLKV) SetAll(ctx context.Context, values map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf(
		"INSERT INTO token_slots (slot, value) VALUES (%s, %s) ON CONFLICT(slot) DO UPDATE SET value = excluded.value",
		s.placeholder(1), s.placeholder(2),
	)
	for k, v := range values {
		if _, err := tx.ExecContext(ctx, query, k, v); err != nil {
			return fmt.Errorf("upsert token slot %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit token slots: %w", err)
	}
	return nil
}

func (s *SQLKV) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	query := "DELETE FROM token_slots WHERE slot IN (" + s.placeholders(1, len(keys)) + ")"
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete token slots: %w", err)
	}
	return nil
}
