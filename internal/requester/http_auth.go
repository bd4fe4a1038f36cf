package requester

import (
	"context"
	"net/http"

	"github.com/brizzai/tubenotes/internal/auth"
	"github.com/brizzai/tubenotes/internal/auth/constants"
)

// AuthManager handles request authentication
type AuthManager interface {
	ApplyAuth(req *http.Request) error
}

// NoAuth leaves requests untouched
type NoAuth struct{}

func (NoAuth) ApplyAuth(*http.Request) error { return nil }

// APIKeyAuth adds a Google API key as the key query parameter
type APIKeyAuth struct {
	Key string
}

// NewAPIKeyAuth creates a new APIKeyAuth
func NewAPIKeyAuth(key string) *APIKeyAuth {
	return &APIKeyAuth{Key: key}
}

func (a *APIKeyAuth) ApplyAuth(req *http.Request) error {
	if a.Key == "" {
		return nil
	}
	q := req.URL.Query()
	q.Set("key", a.Key)
	req.URL.RawQuery = q.Encode()
	return nil
}

// StaticBearerAuth sends a fixed bearer token, used for the LLM gateway
type StaticBearerAuth struct {
	Token string
}

func (a *StaticBearerAuth) ApplyAuth(req *http.Request) error {
	req.Header.Set(constants.AuthHeaderName, constants.AuthHeaderPrefix+a.Token)
	return nil
}

// TokenSource supplies a currently valid user access token
type TokenSource interface {
	ValidAccessToken(ctx context.Context) (string, bool)
}

// BearerAuth attaches the signed-in user's access token. When no usable token
// exists it fails with auth.ErrAuthenticationRequired and the request must not
// be sent.
type BearerAuth struct {
	tokens TokenSource
}

// NewBearerAuth creates a new BearerAuth
func NewBearerAuth(tokens TokenSource) *BearerAuth {
	return &BearerAuth{tokens: tokens}
}

func (a *BearerAuth) ApplyAuth(req *http.Request) error {
	token, ok := a.tokens.ValidAccessToken(req.Context())
	if !ok {
		return auth.ErrAuthenticationRequired
	}
	req.Header.Set(constants.AuthHeaderName, constants.AuthHeaderPrefix+token)
	return nil
}
