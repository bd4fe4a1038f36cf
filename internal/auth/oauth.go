// Package auth holds the Google OAuth credential lifecycle: authorization,
// code exchange, refresh and logout.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/brizzai/tubenotes/internal/auth/constants"
	"github.com/brizzai/tubenotes/internal/auth/models"
	"github.com/brizzai/tubenotes/internal/auth/providers"
	"github.com/brizzai/tubenotes/internal/auth/tokenstore"
	"github.com/brizzai/tubenotes/internal/config"
	"github.com/brizzai/tubenotes/internal/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const refreshFlightKey = "refresh"

// Client is the OAuth client consumers depend on
type Client struct {
	provider     providers.Provider
	store        tokenstore.Store
	states       *StateCache
	enforceState bool
	timeout      time.Duration
	now          func() time.Time
	flight       singleflight.Group
}

// NewClient creates a new OAuth client
func NewClient(cfg *config.Config, provider providers.Provider, store tokenstore.Store) *Client {
	timeout := cfg.OAuth.TokenTimeout
	if timeout <= 0 {
		timeout = constants.DefaultTokenTimeout
	}
	return &Client{
		provider:     provider,
		store:        store,
		states:       NewStateCache(cfg.OAuth.StateTTL),
		enforceState: cfg.OAuth.EnforceState,
		timeout:      timeout,
		now:          time.Now,
	}
}

// AuthorizationURL builds the consent URL. returnTo is handed back by
// CompleteAuthorization once the matching callback arrives.
func (c *Client) AuthorizationURL(returnTo string) (string, error) {
	state, err := newState()
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	c.states.Put(state, returnTo)
	return c.provider.AuthURL(state), nil
}

// Exchange trades an authorization code for a grant
func (c *Client) Exchange(ctx context.Context, code string) (*models.TokenGrant, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	grant, err := c.provider.ExchangeCode(ctx, code)
	if err != nil {
		return nil, classify(ErrExchangeFailed, err)
	}
	if grant.AccessToken == "" {
		return nil, fmt.Errorf("%w: response carried no access token", ErrExchangeFailed)
	}
	return grant, nil
}

// Refresh runs the refresh grant. The returned grant may lack a refresh token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*models.TokenGrant, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	grant, err := c.provider.RefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, classify(ErrRefreshFailed, err)
	}
	if grant.AccessToken == "" {
		return nil, fmt.Errorf("%w: response carried no access token", ErrRefreshFailed)
	}
	return grant, nil
}

// CompleteAuthorization handles the callback query: it rejects issuer errors,
// missing codes and unknown states, then exchanges the code and stores the
// tokens. It returns the returnTo given to AuthorizationURL.
func (c *Client) CompleteAuthorization(ctx context.Context, query url.Values) (string, error) {
	if reason := query.Get("error"); reason != "" {
		return "", &CallbackError{Reason: reason, Description: query.Get("error_description")}
	}

	code := query.Get("code")
	if code == "" {
		return "", &CallbackError{Reason: ReasonMissingCode, Description: "no authorization code in callback"}
	}

	returnTo, known := c.states.Consume(query.Get("state"))
	if !known && c.enforceState {
		return "", &CallbackError{Reason: ReasonInvalidState, Description: "state does not match an outstanding authorization request"}
	}

	grant, err := c.Exchange(ctx, code)
	if err != nil {
		return "", err
	}

	if err := c.store.Write(ctx, *grant, c.now()); err != nil {
		return "", fmt.Errorf("failed to store tokens: %w", err)
	}

	logger.Info("Authorization completed")
	return returnTo, nil
}

// read returns the stored record, treating backend failures as absent
func (c *Client) read(ctx context.Context) *models.TokenRecord {
	record, err := c.store.Read(ctx)
	if err != nil {
		logger.Error("Failed to read token record", zap.Error(err))
		return nil
	}
	return record
}

// ValidAccessToken returns a usable access token, refreshing at most once if
// the stored one has expired. Concurrent callers share a single refresh.
func (c *Client) ValidAccessToken(ctx context.Context) (string, bool) {
	record := c.read(ctx)
	if record == nil {
		return "", false
	}
	if !record.Expired(c.now()) {
		return record.AccessToken, true
	}

	ch := c.flight.DoChan(refreshFlightKey, func() (interface{}, error) {
		return c.refreshStored(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", false
		}
		token, _ := res.Val.(string)
		return token, token != ""
	case <-ctx.Done():
		return "", false
	}
}

// refreshStored runs inside the single flight
func (c *Client) refreshStored(ctx context.Context) (string, error) {
	record := c.read(ctx)
	if record == nil {
		return "", nil
	}
	// a flight that finished just before this one already stored a fresh token
	if !record.Expired(c.now()) {
		return record.AccessToken, nil
	}

	grant, err := c.Refresh(ctx, record.RefreshToken)
	if err != nil {
		if errors.Is(err, ErrTransient) {
			logger.Warn("Token refresh did not reach the issuer, keeping stored credential", zap.Error(err))
			return "", err
		}
		logger.Warn("Token refresh rejected, clearing stored credential", zap.Error(err))
		if clearErr := c.store.Clear(ctx); clearErr != nil {
			logger.Error("Failed to clear token record", zap.Error(clearErr))
		}
		return "", err
	}

	if grant.RefreshToken == "" {
		grant.RefreshToken = record.RefreshToken
	}
	if err := c.store.Write(ctx, *grant, c.now()); err != nil {
		logger.Error("Failed to persist refreshed token", zap.Error(err))
	}

	logger.Debug("Access token refreshed", zap.Int64("expires_in", grant.ExpiresIn))
	return grant.AccessToken, nil
}

// IsAuthenticated reports whether both tokens are stored. Expiry is ignored.
func (c *Client) IsAuthenticated(ctx context.Context) bool {
	record := c.read(ctx)
	return record != nil && record.AccessToken != "" && record.RefreshToken != ""
}

// Status summarizes the stored credential without exposing it
func (c *Client) Status(ctx context.Context) models.AuthStatus {
	record := c.read(ctx)
	if record == nil {
		return models.AuthStatus{}
	}
	expiresAt := record.ExpiresAt()
	return models.AuthStatus{
		Authenticated: true,
		ExpiresAt:     &expiresAt,
		Expired:       record.Expired(c.now()),
	}
}

// Logout revokes the access token if possible and always clears the store.
// Only a failure to clear is returned.
func (c *Client) Logout(ctx context.Context) error {
	if record := c.read(ctx); record != nil {
		revokeCtx, cancel := context.WithTimeout(ctx, c.timeout)
		if err := c.provider.RevokeToken(revokeCtx, record.AccessToken); err != nil {
			logger.Warn("Token revocation failed", zap.Error(err))
		}
		cancel()
	}

	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear token record: %w", err)
	}
	logger.Info("Logged out")
	return nil
}
