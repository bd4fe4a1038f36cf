package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// GetVersionInfo returns a formatted version string
func GetVersionInfo() string {
	return fmt.Sprintf("tubenotes version %s, commit %s, built at %s", version, commit, date)
}

const envPrefix = "TUBENOTES"

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	OAuth   OAuthConfig   `mapstructure:"oauth"`
	YouTube YouTubeConfig `mapstructure:"youtube"`
	Summary SummaryConfig `mapstructure:"summary"`
	Storage StorageConfig `mapstructure:"storage"`
	Tokens  TokensConfig  `mapstructure:"tokens"`
	Secrets SecretsConfig `mapstructure:"secrets"`
}

type ServerMode string

const (
	ServerModeSTDIO ServerMode = "stdio"
	ServerModeHTTP  ServerMode = "http"
)

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	Mode            ServerMode    `mapstructure:"mode"`
	Name            string        `mapstructure:"name"`
	Version         string        `mapstructure:"version"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowOrigins    []string      `mapstructure:"allow_origins"`
}

type LoggingConfig struct {
	Level             string `mapstructure:"level"`
	Format            string `mapstructure:"format"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
	OutputPath        string `mapstructure:"output_path"`
	AppendToFile      bool   `mapstructure:"append_to_file"`
	DisableConsole    bool   `mapstructure:"disable_console"`
	UseStderr         bool   `mapstructure:"use_stderr"` // required when stdout carries MCP stdio traffic
}

type OAuthConfig struct {
	ClientID     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	BaseURL      string        `mapstructure:"base_url"` // origin the callback is served from
	AuthURL      string        `mapstructure:"auth_url"`
	TokenURL     string        `mapstructure:"token_url"`
	RevokeURL    string        `mapstructure:"revoke_url"`
	Scopes       []string      `mapstructure:"scopes"`
	TokenTimeout time.Duration `mapstructure:"token_timeout"`
	EnforceState bool          `mapstructure:"enforce_state"`
	StateTTL     time.Duration `mapstructure:"state_ttl"`
}

type YouTubeConfig struct {
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
}

type SummaryConfig struct {
	GatewayURL string        `mapstructure:"gateway_url"`
	APIKey     string        `mapstructure:"api_key"`
	Model      string        `mapstructure:"model"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// StorageDriver selects the database backing summaries and token slots
type StorageDriver string

const (
	StorageDriverSQLite   StorageDriver = "sqlite"
	StorageDriverPostgres StorageDriver = "postgres"
)

type StorageConfig struct {
	Driver StorageDriver `mapstructure:"driver"`
	DSN    string        `mapstructure:"dsn"`
}

// TokenBackend selects where the three token slots live
type TokenBackend string

const (
	TokenBackendSQL    TokenBackend = "sql"
	TokenBackendRedis  TokenBackend = "redis"
	TokenBackendFile   TokenBackend = "file"
	TokenBackendMemory TokenBackend = "memory"
)

type TokensConfig struct {
	Backend  TokenBackend `mapstructure:"backend"`
	RedisURL string       `mapstructure:"redis_url"`
	FilePath string       `mapstructure:"file_path"`
}

type SecretsConfig struct {
	AWSSecretID string `mapstructure:"aws_secret_id"`
	AWSRegion   string `mapstructure:"aws_region"`
	Overwrite   bool   `mapstructure:"overwrite"`
}

// DataDir returns the per-user directory for local state
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".tubenotes"
	}
	return filepath.Join(home, ".tubenotes")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", string(ServerModeHTTP))
	v.SetDefault("server.name", "tubenotes")
	v.SetDefault("server.version", version)
	v.SetDefault("server.shutdown_timeout", "5s")
	v.SetDefault("server.allow_origins", []string{"*"})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output_path", "")
	v.SetDefault("logging.disable_console", false)

	v.SetDefault("oauth.client_id", "")
	v.SetDefault("oauth.client_secret", "")
	v.SetDefault("oauth.base_url", "http://localhost:8080")
	v.SetDefault("oauth.auth_url", "https://accounts.google.com/o/oauth2/v2/auth")
	v.SetDefault("oauth.token_url", "https://oauth2.googleapis.com/token")
	v.SetDefault("oauth.revoke_url", "https://oauth2.googleapis.com/revoke")
	v.SetDefault("oauth.scopes", []string{
		"https://www.googleapis.com/auth/youtube.readonly",
		"https://www.googleapis.com/auth/youtube.force-ssl",
	})
	v.SetDefault("oauth.token_timeout", "10s")
	v.SetDefault("oauth.enforce_state", true)
	v.SetDefault("oauth.state_ttl", "10m")

	v.SetDefault("youtube.api_key", "")
	v.SetDefault("youtube.base_url", "https://www.googleapis.com/youtube/v3")
	v.SetDefault("youtube.timeout", "15s")
	v.SetDefault("youtube.requests_per_second", 10)
	v.SetDefault("youtube.burst", 5)

	v.SetDefault("summary.api_key", "")
	v.SetDefault("summary.gateway_url", "https://ai.gateway.lovable.dev/v1")
	v.SetDefault("summary.model", "google/gemini-2.5-flash")
	v.SetDefault("summary.timeout", "60s")

	v.SetDefault("storage.driver", string(StorageDriverSQLite))
	v.SetDefault("storage.dsn", filepath.Join(DataDir(), "tubenotes.db"))

	v.SetDefault("tokens.backend", string(TokenBackendSQL))
	v.SetDefault("tokens.redis_url", "")
	v.SetDefault("tokens.file_path", filepath.Join(DataDir(), "tokens.json"))

	v.SetDefault("secrets.aws_secret_id", "")
	v.SetDefault("secrets.aws_region", "")
	v.SetDefault("secrets.overwrite", false)
}

// flagKeys maps command line flags onto nested config keys
var flagKeys = map[string]string{
	"mode":          "server.mode",
	"host":          "server.host",
	"port":          "server.port",
	"log-level":     "logging.level",
	"log-format":    "logging.format",
	"token-backend": "tokens.backend",
	"db-driver":     "storage.driver",
	"db-dsn":        "storage.dsn",
}

// Load reads configuration from flags, environment and optional config files
func Load(flags *pflag.FlagSet) (*Config, error) {
	LoadEnv(".env")

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for flag, key := range flagKeys {
			if f := flags.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
				}
			}
		}
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(DataDir())
	v.AddConfigPath("/etc/tubenotes")
	if flags != nil {
		if f := flags.Lookup("config"); f != nil && f.Value.String() != "" {
			v.SetConfigFile(f.Value.String())
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if secretID := v.GetString("secrets.aws_secret_id"); secretID != "" {
		if err := loadAWSSecretsIntoEnv(secretID, v.GetString("secrets.aws_region"), v.GetBool("secrets.overwrite")); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that have no sensible default
func (c *Config) Validate() error {
	switch c.Server.Mode {
	case ServerModeHTTP, ServerModeSTDIO:
	default:
		return fmt.Errorf("unsupported server mode: %s", c.Server.Mode)
	}
	switch c.Storage.Driver {
	case StorageDriverSQLite, StorageDriverPostgres:
	default:
		return fmt.Errorf("unsupported storage driver: %s", c.Storage.Driver)
	}
	switch c.Tokens.Backend {
	case TokenBackendSQL, TokenBackendFile, TokenBackendMemory:
	case TokenBackendRedis:
		if c.Tokens.RedisURL == "" {
			return fmt.Errorf("tokens.redis_url is required for the redis backend, set %s_TOKENS_REDIS_URL", envPrefix)
		}
	default:
		return fmt.Errorf("unsupported token backend: %s", c.Tokens.Backend)
	}
	if c.OAuth.BaseURL == "" {
		return fmt.Errorf("oauth.base_url is required, set %s_OAUTH_BASE_URL", envPrefix)
	}
	return nil
}
