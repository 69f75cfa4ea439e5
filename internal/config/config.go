// Package config builds the immutable process configuration from the
// environment. It is loaded once in main and passed to constructors.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-faster/errors"
)

type Config struct {
	// AccessKey is the upstream credential. It never leaves the server.
	AccessKey string `env:"UNSPLASH_ACCESS_KEY"`

	// CacheTTL in seconds, shared by the proxy cache-control header and the
	// widget cache.
	CacheTTL int `env:"PUBLIC_CACHE_TTL" envDefault:"86400"`

	Port            string        `env:"PORT" envDefault:"8080"`
	UpstreamURL     string        `env:"UNSPLASH_API_URL" envDefault:"https://api.unsplash.com"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"15s"`

	// RateLimit is requests per minute per client IP; 0 disables it.
	RateLimit int `env:"RATE_LIMIT" envDefault:"60"`

	// TrustProxy keys the rate limit on X-Forwarded-For and friends. Only set
	// it behind a proxy that overwrites those headers.
	TrustProxy bool `env:"TRUST_PROXY" envDefault:"false"`

	Tracking Tracking `envPrefix:"TRACKING_"`

	RelayAllowedOrigin string `env:"RELAY_ALLOWED_ORIGIN" envDefault:"http://localhost:5173"`

	ProxyURL          string `env:"PUBLIC_PROXY_URL" envDefault:"http://localhost:8080"`
	// CacheDir holds the widget cache. Unset resolves to the user cache
	// directory; InMemoryCache keeps it for the life of the process only.
	CacheDir          string `env:"CACHE_DIR"`
	CachePerCriterion bool   `env:"CACHE_PER_CRITERION" envDefault:"false"`

	Log Log `envPrefix:"LOG_"`
}

// InMemoryCache is the CACHE_DIR value that disables persistence.
const InMemoryCache = ":memory:"

type Tracking struct {
	Workers int           `env:"WORKERS" envDefault:"2"`
	Queue   int           `env:"QUEUE" envDefault:"64"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

type Log struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
}

// Load parses the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse env")
	}
	return cfg.resolve()
}

// LoadFrom parses the given environment instead of the process one.
func LoadFrom(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, errors.Wrap(err, "parse env")
	}
	return cfg.resolve()
}

func (c Config) resolve() (Config, error) {
	if c.CacheDir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = os.TempDir()
		}
		c.CacheDir = filepath.Join(base, "spring")
	}
	return c, c.validate()
}

func (c Config) validate() error {
	if c.CacheTTL <= 0 {
		return errors.Errorf("PUBLIC_CACHE_TTL must be positive, got %d", c.CacheTTL)
	}
	if c.RateLimit < 0 {
		return errors.Errorf("RATE_LIMIT must not be negative, got %d", c.RateLimit)
	}
	if c.Tracking.Workers < 1 {
		return errors.Errorf("TRACKING_WORKERS must be at least 1, got %d", c.Tracking.Workers)
	}
	if c.Tracking.Queue < 0 {
		return errors.Errorf("TRACKING_QUEUE must not be negative, got %d", c.Tracking.Queue)
	}
	if _, err := url.Parse(c.UpstreamURL); err != nil {
		return errors.Wrap(err, "UNSPLASH_API_URL")
	}
	return nil
}

// RequireAccessKey is checked by the commands that talk to the upstream.
func (c Config) RequireAccessKey() error {
	if c.AccessKey == "" {
		return errors.New("UNSPLASH_ACCESS_KEY is not set")
	}
	return nil
}

// CacheStoreDir is the directory handed to the store; empty means in memory.
func (c Config) CacheStoreDir() string {
	if c.CacheDir == InMemoryCache {
		return ""
	}
	return c.CacheDir
}

func (c Config) TTL() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// CacheControl is the header value served with every successful photo.
func (c Config) CacheControl() string {
	return fmt.Sprintf("public, max-age=%d, immutable", c.CacheTTL)
}

func (c Config) Addr() string {
	return ":" + c.Port
}
