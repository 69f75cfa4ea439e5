package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"spring/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, 86400, cfg.CacheTTL)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://api.unsplash.com", cfg.UpstreamURL)
	assert.Equal(t, 15*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 60, cfg.RateLimit)
	assert.Equal(t, 2, cfg.Tracking.Workers)
	assert.Equal(t, 64, cfg.Tracking.Queue)
	assert.Equal(t, 10*time.Second, cfg.Tracking.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.CachePerCriterion)
	assert.False(t, cfg.TrustProxy)
	assert.Error(t, cfg.RequireAccessKey())
}

func TestLoadFrom_CacheDir(t *testing.T) {
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)
	t.Setenv("HOME", cacheHome)

	cfg, err := config.LoadFrom(map[string]string{})
	require.NoError(t, err)
	userCache, err := os.UserCacheDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(userCache, "spring"), cfg.CacheDir)
	assert.Equal(t, cfg.CacheDir, cfg.CacheStoreDir())

	cfg, err = config.LoadFrom(map[string]string{"CACHE_DIR": "/var/cache/widget"})
	require.NoError(t, err)
	assert.Equal(t, "/var/cache/widget", cfg.CacheStoreDir())

	cfg, err = config.LoadFrom(map[string]string{"CACHE_DIR": config.InMemoryCache})
	require.NoError(t, err)
	assert.Empty(t, cfg.CacheStoreDir())
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{
		"UNSPLASH_ACCESS_KEY": "secret",
		"PUBLIC_CACHE_TTL":    "60",
		"PORT":                "9000",
		"TRACKING_WORKERS":    "4",
		"CACHE_PER_CRITERION": "true",
		"LOG_FORMAT":          "console",
	})
	require.NoError(t, err)

	assert.NoError(t, cfg.RequireAccessKey())
	assert.Equal(t, time.Minute, cfg.TTL())
	assert.Equal(t, "public, max-age=60, immutable", cfg.CacheControl())
	assert.Equal(t, ":9000", cfg.Addr())
	assert.Equal(t, 4, cfg.Tracking.Workers)
	assert.True(t, cfg.CachePerCriterion)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"zero ttl":        {"PUBLIC_CACHE_TTL": "0"},
		"non numeric ttl": {"PUBLIC_CACHE_TTL": "day"},
		"negative limit":  {"RATE_LIMIT": "-1"},
		"no workers":      {"TRACKING_WORKERS": "0"},
	}

	for name, environ := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := config.LoadFrom(environ)
			assert.Error(t, err)
		})
	}
}
