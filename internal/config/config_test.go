package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "ENV", "LOG_LEVEL", "DATABASE_URL", "SEED_SQLITE_PATH", "REDIS_URL", "SESSION_TTL", "RATE_LIMIT_RPM", "RATE_LIMIT_WHITELIST"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 600, cfg.RateLimitRPM)
	assert.Empty(t, cfg.RateLimitWhitelist)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "staging")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("RATE_LIMIT_RPM", "30")
	t.Setenv("RATE_LIMIT_WHITELIST", " 10.0.0.1 , 192.168.0.0/16,,")
	t.Setenv("SEED_SQLITE_PATH", "/tmp/inbox.db")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 30, cfg.RateLimitRPM)
	assert.Equal(t, []string{"10.0.0.1", "192.168.0.0/16"}, cfg.RateLimitWhitelist)
	assert.Equal(t, "/tmp/inbox.db", cfg.SeedSQLitePath)
}

func TestLoadBadNumbersFallBack(t *testing.T) {
	t.Setenv("SESSION_TTL", "soon")
	t.Setenv("RATE_LIMIT_RPM", "-5")

	cfg := Load()
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 600, cfg.RateLimitRPM)
}

func TestProductionRequiresRedis(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("REDIS_URL", "")
	require.Panics(t, func() { Load() })

	t.Setenv("REDIS_URL", "redis://localhost:6379")
	require.NotPanics(t, func() { Load() })
}
