package providers

import (
	"context"

	"github.com/brizzai/tubenotes/internal/auth/models"
)

// Provider is the OAuth issuer the client talks to
type Provider interface {
	// AuthURL returns the consent page URL carrying state
	AuthURL(state string) string

	// ExchangeCode trades an authorization code for tokens
	ExchangeCode(ctx context.Context, code string) (*models.TokenGrant, error)

	// RefreshToken obtains a new access token
	RefreshToken(ctx context.Context, refreshToken string) (*models.TokenGrant, error)

	// RevokeToken invalidates a token at the issuer
	RevokeToken(ctx context.Context, token string) error
}
