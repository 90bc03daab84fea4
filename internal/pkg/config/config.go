package config

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const envDevelopment = "development"

type Config struct {
	Port string `env:"PORT, default=8080"`

	// Env defaults to production: only an explicit ENV=development relaxes
	// the Secure cookie flag.
	Env       string        `env:"ENV, default=production"`
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	// Per-IP limit on /auth/register and /auth/login.
	AuthRateLimit float64 `env:"AUTH_RATE_LIMIT, default=5"`
	AuthRateBurst int     `env:"AUTH_RATE_BURST, default=10"`

	// CIDRs of reverse proxies whose X-Forwarded-For is trusted. Empty means
	// the client IP is the TCP peer.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, required"`
	Database string `env:"MONGO_DB, default=blog"`
}

// RedisConfig configures the post cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	DB       int           `env:"REDIS_DB, default=0"`
	CacheTTL time.Duration `env:"POST_CACHE_TTL, default=5m"`
}

// IsDevelopment reports whether cookies may be sent over plain HTTP and logs
// should be human-readable.
func (c *Config) IsDevelopment() bool {
	return c.Env == envDevelopment
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration from an arbitrary lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.JWTSecret == "":
		return errors.New("JWT_SECRET must not be empty")
	case c.Mongo.URI == "":
		return errors.New("MONGO_URI must not be empty")
	case c.TokenTTL <= 0:
		return errors.New("TOKEN_TTL must be positive")
	case c.AuthRateLimit <= 0 || c.AuthRateBurst <= 0:
		return errors.New("AUTH_RATE_LIMIT and AUTH_RATE_BURST must be positive")
	}
	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			return fmt.Errorf("TRUSTED_PROXIES: %w", err)
		}
	}
	return nil
}
