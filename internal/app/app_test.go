package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/brizzai/tubenotes/internal/auth"
	"github.com/brizzai/tubenotes/internal/config"
	"github.com/brizzai/tubenotes/internal/notes"
	"github.com/brizzai/tubenotes/internal/server"
	"github.com/brizzai/tubenotes/internal/summary"
	"github.com/brizzai/tubenotes/internal/youtube"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		Server:  config.ServerConfig{Host: "127.0.0.1", Port: 0, Mode: config.ServerModeHTTP, Name: "tubenotes"},
		OAuth:   config.OAuthConfig{ClientID: "cid", ClientSecret: "secret", BaseURL: "http://localhost:8080"},
		YouTube: config.YouTubeConfig{BaseURL: "http://127.0.0.1:1"},
		Summary: config.SummaryConfig{GatewayURL: "http://127.0.0.1:1"},
		Storage: config.StorageConfig{Driver: config.StorageDriverSQLite, DSN: filepath.Join(dir, "tubenotes.db")},
		Tokens:  config.TokensConfig{Backend: config.TokenBackendSQL},
	}
}

func TestOptions_Validate(t *testing.T) {
	require.NoError(t, fx.ValidateApp(Options(testConfig(t)), fx.Invoke(runServer)))
}

func TestPopulate(t *testing.T) {
	var (
		client *auth.Client
		yt     *youtube.Client
		sum    *summary.Service
		srv    *server.Server
		nb     *notes.Service
	)
	stop, err := Populate(context.Background(), testConfig(t), &client, &yt, &sum, &srv, &nb)
	require.NoError(t, err)
	defer stop()

	assert.NotNil(t, yt)
	assert.NotNil(t, sum)
	assert.NotNil(t, srv)
	require.NotNil(t, nb)
	list, err := nb.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.False(t, client.IsAuthenticated(context.Background()))
}

func TestPopulate_MissingClientID(t *testing.T) {
	cfg := testConfig(t)
	cfg.OAuth.ClientID = ""
	var client *auth.Client
	_, err := Populate(context.Background(), cfg, &client)
	assert.Error(t, err)
}
