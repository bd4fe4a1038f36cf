package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/brizzai/tubenotes/internal/auth/constants"
	"github.com/brizzai/tubenotes/internal/auth/models"
	"github.com/brizzai/tubenotes/internal/config"
	"github.com/brizzai/tubenotes/internal/logger"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ErrRevokeFailed is returned when the issuer does not accept a revocation
var ErrRevokeFailed = fmt.Errorf("token revocation failed")

type GoogleProvider struct {
	oauth2Config *oauth2.Config
	revokeURL    string
	httpClient   *http.Client
}

// NewGoogleProvider creates a Google provider. Endpoint URLs left empty in
// cfg fall back to Google's.
func NewGoogleProvider(cfg *config.OAuthConfig, httpClient *http.Client) (*GoogleProvider, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("oauth.client_id is required")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	endpoint := google.Endpoint
	if cfg.AuthURL != "" {
		endpoint.AuthURL = cfg.AuthURL
	}
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}
	// client credentials go in the form body
	endpoint.AuthStyle = oauth2.AuthStyleInParams

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = constants.DefaultScopes
	}

	revokeURL := cfg.RevokeURL
	if revokeURL == "" {
		revokeURL = constants.GoogleRevokeURL
	}

	return &GoogleProvider{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     endpoint,
			RedirectURL:  RedirectURI(cfg.BaseURL),
			Scopes:       scopes,
		},
		revokeURL:  revokeURL,
		httpClient: httpClient,
	}, nil
}

// RedirectURI is the callback the issuer sends the browser back to
func RedirectURI(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + constants.CallbackPath
}

func (p *GoogleProvider) AuthURL(state string) string {
	return p.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

func (p *GoogleProvider) withClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
}

func (p *GoogleProvider) ExchangeCode(ctx context.Context, code string) (*models.TokenGrant, error) {
	tok, err := p.oauth2Config.Exchange(p.withClient(ctx), code)
	if err != nil {
		return nil, err
	}
	return toGrant(tok), nil
}

func (p *GoogleProvider) RefreshToken(ctx context.Context, refreshToken string) (*models.TokenGrant, error) {
	tok, err := p.oauth2Config.TokenSource(p.withClient(ctx), &oauth2.Token{
		RefreshToken: refreshToken,
	}).Token()
	if err != nil {
		return nil, err
	}
	return toGrant(tok), nil
}

func (p *GoogleProvider) RevokeToken(ctx context.Context, token string) error {
	u, err := url.Parse(p.revokeURL)
	if err != nil {
		return fmt.Errorf("invalid revoke url: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create revoke request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call revoke endpoint: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("Failed to close response body", zap.Error(err))
		}
	}()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrRevokeFailed, resp.StatusCode)
	}
	return nil
}

// toGrant converts a library token into the lifetime-in-seconds form we persist
func toGrant(tok *oauth2.Token) *models.TokenGrant {
	expiresIn := tok.ExpiresIn
	if expiresIn == 0 {
		expiresIn = cast.ToInt64(tok.Extra("expires_in"))
	}
	if expiresIn == 0 && !tok.Expiry.IsZero() {
		expiresIn = int64(time.Until(tok.Expiry).Round(time.Second) / time.Second)
	}
	return &models.TokenGrant{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresIn:    expiresIn,
	}
}
