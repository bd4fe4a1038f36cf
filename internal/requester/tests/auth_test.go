package tests

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brizzai/tubenotes/internal/auth"
	"github.com/brizzai/tubenotes/internal/requester"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTokens struct {
	token string
	ok    bool
	calls int
}

func (f *fakeTokens) ValidAccessToken(context.Context) (string, bool) {
	f.calls++
	return f.token, f.ok
}

func TestAuthManagers_ApplyAuth(t *testing.T) {
	tests := []struct {
		name      string
		manager   requester.AuthManager
		wantErr   error
		checkAuth func(t *testing.T, req *http.Request)
	}{
		{
			name:    "No Auth",
			manager: requester.NoAuth{},
			checkAuth: func(t *testing.T, req *http.Request) {
				assert.Empty(t, req.Header.Get("Authorization"))
				assert.Empty(t, req.URL.RawQuery)
			},
		},
		{
			name:    "API Key",
			manager: requester.NewAPIKeyAuth("k-123"),
			checkAuth: func(t *testing.T, req *http.Request) {
				assert.Equal(t, "k-123", req.URL.Query().Get("key"))
				assert.Equal(t, "x", req.URL.Query().Get("q"))
			},
		},
		{
			name:    "Empty API Key",
			manager: requester.NewAPIKeyAuth(""),
			checkAuth: func(t *testing.T, req *http.Request) {
				assert.False(t, req.URL.Query().Has("key"))
			},
		},
		{
			name:    "Static Bearer",
			manager: &requester.StaticBearerAuth{Token: "gw"},
			checkAuth: func(t *testing.T, req *http.Request) {
				assert.Equal(t, "Bearer gw", req.Header.Get("Authorization"))
			},
		},
		{
			name:    "User Bearer",
			manager: requester.NewBearerAuth(&fakeTokens{token: "A1", ok: true}),
			checkAuth: func(t *testing.T, req *http.Request) {
				assert.Equal(t, "Bearer A1", req.Header.Get("Authorization"))
			},
		},
		{
			name:    "User Bearer Without Token",
			manager: requester.NewBearerAuth(&fakeTokens{}),
			wantErr: auth.ErrAuthenticationRequired,
			checkAuth: func(t *testing.T, req *http.Request) {
				assert.Empty(t, req.Header.Get("Authorization"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "http://api.example.com/search?q=x", nil)
			err := tt.manager.ApplyAuth(req)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				require.NoError(t, err)
			}
			tt.checkAuth(t, req)
		})
	}
}

func TestBearerAuth_FetchesTokenPerRequest(t *testing.T) {
	tokens := &fakeTokens{token: "A1", ok: true}
	a := requester.NewBearerAuth(tokens)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "http://api.example.com/", nil)
		require.NoError(t, a.ApplyAuth(req))
	}
	assert.Equal(t, 3, tokens.calls)
}
