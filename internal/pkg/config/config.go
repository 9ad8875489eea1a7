package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Gateway    GatewayConfig
	Credential CredentialConfig
	Redis      RedisConfig
	Mongo      MongoConfig
	Chat       ChatConfig

	HydrateConcurrency int `env:"HYDRATE_CONCURRENCY, default=4"`
}

type GatewayConfig struct {
	BaseURL string        `env:"GATEWAY_BASE_URL, default=http://localhost:3000"`
	Timeout time.Duration `env:"GATEWAY_TIMEOUT,  default=15s"`
	RPS     float64       `env:"GATEWAY_RPS,      default=0"`
	Burst   int           `env:"GATEWAY_BURST,    default=1"`
}

// CredentialConfig selects where the bearer credential is persisted.
type CredentialConfig struct {
	Backend string `env:"CREDENTIAL_BACKEND, default=memory"`
	Key     string `env:"CREDENTIAL_KEY,     default=token"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,       default=0"`
	Timeout  time.Duration `env:"REDIS_TIMEOUT,  default=5s"`
}

// MongoConfig configures the chat archive. An empty URI disables it.
type MongoConfig struct {
	URI      string        `env:"MONGO_URI"`
	Database string        `env:"MONGO_DB,      default=cursos_uc"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

type ChatConfig struct {
	SessionID    string        `env:"CHAT_SESSION_ID,    default=default"`
	ReplyDelay   time.Duration `env:"CHAT_REPLY_DELAY,   default=700ms"`
	ReplyTimeout time.Duration `env:"CHAT_REPLY_TIMEOUT, default=30s"`
}

// IsDevelopment reports whether pretty console logs should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate rejects combinations the process cannot start with.
func (c *Config) Validate() error {
	switch c.Credential.Backend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("config: CREDENTIAL_BACKEND must be %q or %q, got %q", BackendMemory, BackendRedis, c.Credential.Backend)
	}
	if c.Gateway.BaseURL == "" {
		return fmt.Errorf("config: GATEWAY_BASE_URL is required")
	}
	return nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
