package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, ServerModeHTTP, cfg.Server.Mode)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "https://oauth2.googleapis.com/token", cfg.OAuth.TokenURL)
	assert.Equal(t, 10*time.Second, cfg.OAuth.TokenTimeout)
	assert.True(t, cfg.OAuth.EnforceState)
	assert.Len(t, cfg.OAuth.Scopes, 2)
	assert.Equal(t, StorageDriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, TokenBackendSQL, cfg.Tokens.Backend)
	assert.Equal(t, "google/gemini-2.5-flash", cfg.Summary.Model)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TUBENOTES_OAUTH_CLIENT_ID", "client-123")
	t.Setenv("TUBENOTES_OAUTH_TOKEN_TIMEOUT", "3s")
	t.Setenv("TUBENOTES_YOUTUBE_API_KEY", "yt-key")
	t.Setenv("TUBENOTES_TOKENS_BACKEND", "memory")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "client-123", cfg.OAuth.ClientID)
	assert.Equal(t, 3*time.Second, cfg.OAuth.TokenTimeout)
	assert.Equal(t, "yt-key", cfg.YouTube.APIKey)
	assert.Equal(t, TokenBackendMemory, cfg.Tokens.Backend)
}

func TestLoad_ConfigFileAndFlags(t *testing.T) {
	dir := chdirTemp(t)
	t.Setenv("HOME", t.TempDir())

	yaml := []byte(`
server:
  port: 9090
oauth:
  client_id: from-file
  enforce_state: false
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("mode", string(ServerModeHTTP), "")
	flags.Int("port", 8080, "")
	require.NoError(t, flags.Parse([]string{"--mode", "stdio"}))

	cfg, err := Load(flags)
	require.NoError(t, err)

	assert.Equal(t, ServerModeSTDIO, cfg.Server.Mode)
	assert.Equal(t, 9090, cfg.Server.Port, "config file wins over an unchanged flag default")
	assert.Equal(t, "from-file", cfg.OAuth.ClientID)
	assert.False(t, cfg.OAuth.EnforceState)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:  ServerConfig{Mode: ServerModeHTTP},
			Storage: StorageConfig{Driver: StorageDriverSQLite},
			Tokens:  TokensConfig{Backend: TokenBackendSQL},
			OAuth:   OAuthConfig{BaseURL: "http://localhost:8080"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "bad mode", mutate: func(c *Config) { c.Server.Mode = "sse" }, wantErr: "unsupported server mode"},
		{name: "bad driver", mutate: func(c *Config) { c.Storage.Driver = "mysql" }, wantErr: "unsupported storage driver"},
		{name: "redis without url", mutate: func(c *Config) { c.Tokens.Backend = TokenBackendRedis }, wantErr: "redis_url"},
		{name: "bad backend", mutate: func(c *Config) { c.Tokens.Backend = "cookie" }, wantErr: "unsupported token backend"},
		{name: "missing base url", mutate: func(c *Config) { c.OAuth.BaseURL = "" }, wantErr: "oauth.base_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

type fakeSecrets struct {
	out *secretsmanager.GetSecretValueOutput
	err error
}

func (f *fakeSecrets) GetSecretValue(_ context.Context, _ *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	return f.out, f.err
}

func TestApplySecret(t *testing.T) {
	t.Setenv("TUBENOTES_TEST_KEEP", "original")
	t.Setenv("TUBENOTES_TEST_NEW", "")

	client := &fakeSecrets{out: &secretsmanager.GetSecretValueOutput{
		SecretString: aws.String(`{"TUBENOTES_TEST_KEEP":"secret","TUBENOTES_TEST_NEW":"fresh"}`),
	}}

	require.NoError(t, applySecret(context.Background(), client, "app/secret", false))
	assert.Equal(t, "original", os.Getenv("TUBENOTES_TEST_KEEP"))
	assert.Equal(t, "fresh", os.Getenv("TUBENOTES_TEST_NEW"))

	require.NoError(t, applySecret(context.Background(), client, "app/secret", true))
	assert.Equal(t, "secret", os.Getenv("TUBENOTES_TEST_KEEP"))
}

func TestApplySecret_Errors(t *testing.T) {
	tests := []struct {
		name   string
		client *fakeSecrets
	}{
		{name: "fetch error", client: &fakeSecrets{err: errors.New("denied")}},
		{name: "empty payload", client: &fakeSecrets{out: &secretsmanager.GetSecretValueOutput{}}},
		{name: "not json", client: &fakeSecrets{out: &secretsmanager.GetSecretValueOutput{SecretString: aws.String("plain")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, applySecret(context.Background(), tt.client, "app/secret", false))
		})
	}
}
