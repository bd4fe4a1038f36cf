// Package tokenstore persists the OAuth credential in three fixed string slots.
package tokenstore

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/brizzai/tubenotes/internal/auth/constants"
	"github.com/brizzai/tubenotes/internal/auth/models"
)

// Store is the durable credential store used by the OAuth client
type Store interface {
	// Write stores the grant as given, with expiry computed from issuedAt
	Write(ctx context.Context, grant models.TokenGrant, issuedAt time.Time) error

	// Read returns nil when any slot is missing, empty or unparsable
	Read(ctx context.Context) (*models.TokenRecord, error)

	// IsExpired treats an absent record as expired
	IsExpired(ctx context.Context, now time.Time) (bool, error)

	// Clear removes all slots. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}

// KV is a string slot backend
type KV interface {
	// GetAll returns the values present for keys. Missing keys are left out.
	GetAll(ctx context.Context, keys ...string) (map[string]string, error)
	SetAll(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, keys ...string) error
}

var slotKeys = []string{
	constants.AccessTokenKey,
	constants.RefreshTokenKey,
	constants.TokenExpiryKey,
}

// KVStore implements Store on top of a KV backend
type KVStore struct {
	kv KV
}

// NewKVStore creates a new KVStore
func NewKVStore(kv KV) *KVStore {
	return &KVStore{kv: kv}
}

func (s *KVStore) Write(ctx context.Context, grant models.TokenGrant, issuedAt time.Time) error {
	values := map[string]string{
		constants.AccessTokenKey:  grant.AccessToken,
		constants.RefreshTokenKey: grant.RefreshToken,
		constants.TokenExpiryKey:  strconv.FormatInt(models.ExpiryFor(issuedAt, grant.ExpiresIn), 10),
	}
	if err := s.kv.SetAll(ctx, values); err != nil {
		return fmt.Errorf("failed to write token record: %w", err)
	}
	return nil
}

func (s *KVStore) Read(ctx context.Context) (*models.TokenRecord, error) {
	values, err := s.kv.GetAll(ctx, slotKeys...)
	if err != nil {
		return nil, fmt.Errorf("failed to read token record: %w", err)
	}

	access := values[constants.AccessTokenKey]
	refresh := values[constants.RefreshTokenKey]
	rawExpiry := values[constants.TokenExpiryKey]
	if access == "" || refresh == "" || rawExpiry == "" {
		return nil, nil
	}

	expiry, err := strconv.ParseInt(rawExpiry, 10, 64)
	if err != nil {
		return nil, nil
	}

	return &models.TokenRecord{
		AccessToken:   access,
		RefreshToken:  refresh,
		ExpiryInstant: expiry,
	}, nil
}

func (s *KVStore) IsExpired(ctx context.Context, now time.Time) (bool, error) {
	record, err := s.Read(ctx)
	if err != nil {
		return true, err
	}
	if record == nil {
		return true, nil
	}
	return record.Expired(now), nil
}

func (s *KVStore) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, slotKeys...); err != nil {
		return fmt.Errorf("failed to clear token record: %w", err)
	}
	return nil
}
