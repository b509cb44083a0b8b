package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Token store backends
const (
	TokenStoreMemory = "memory"
	TokenStoreFile   = "file"
	TokenStoreRedis  = "redis"
)

// Config holds all application configuration.
type Config struct {
	// Backend API
	APIBaseURL     string        `env:"API_BASE_URL"    envDefault:"http://localhost:3000"`
	APITimeout     time.Duration `env:"API_TIMEOUT"     envDefault:"10s"`
	RefreshTimeout time.Duration `env:"REFRESH_TIMEOUT" envDefault:"10s"`

	// Token store
	TokenStore     string `env:"TOKEN_STORE"      envDefault:"file"`
	TokenStorePath string `env:"TOKEN_STORE_PATH" envDefault:".abrazar/session.json"`
	TokenKeyPrefix string `env:"TOKEN_KEY_PREFIX" envDefault:"abrazar:"`

	// Redis
	RedisURL string `env:"REDIS_URL" envDefault:"redis://localhost:6379"`

	// Session diagnostics
	SessionLogCapacity int `env:"SESSION_LOG_CAPACITY" envDefault:"100"`

	// Response cache
	CacheSize int           `env:"CACHE_SIZE" envDefault:"256"`
	CacheTTL  time.Duration `env:"CACHE_TTL"  envDefault:"5m"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Development backend HTTP server
	HTTPPort            string        `env:"HTTP_PORT"             envDefault:"3000"`
	HTTPReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"30s"`
	HTTPWriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"30s"`
	HTTPIdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT"     envDefault:"60s"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Development backend authentication
	JWTSecret       string        `env:"JWT_SECRET"        envDefault:"dev-secret-change-me"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL"  envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`
	DevUserPassword string        `env:"DEV_USER_PASSWORD" envDefault:"abrazar123"`

	// Development backend protection
	RateLimitRPS     float64       `env:"RATE_LIMIT_RPS"   envDefault:"20"`
	RateLimitBurst   int           `env:"RATE_LIMIT_BURST" envDefault:"40"`
	IdempotencyTTL   time.Duration `env:"IDEMPOTENCY_TTL"  envDefault:"24h"`
	IdempotencyStore string        `env:"IDEMPOTENCY_STORE" envDefault:"memory"`
}

// APIURL returns the base URL the client sends requests to, with the /api prefix.
func (c *Config) APIURL() string {
	base := strings.TrimRight(c.APIBaseURL, "/")
	if strings.HasSuffix(base, "/api") {
		return base
	}
	return base + "/api"
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
