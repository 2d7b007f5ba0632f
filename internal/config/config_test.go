package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTTL)
	assert.Equal(t, 60*time.Second, cfg.Presence.TTL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NotEmpty(t, cfg.Database.DSN)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PRESENCE_TTL", "30s")
	t.Setenv("JWT_ACCESS_TTL", "5m")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 30*time.Second, cfg.Presence.TTL)
	assert.Equal(t, 5*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
}

func TestLoad_InvalidPresenceTTL(t *testing.T) {
	t.Setenv("PRESENCE_TTL", "-10s")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "presence TTL")
}

func TestLoad_BadDurationFallsBack(t *testing.T) {
	t.Setenv("JWT_ACCESS_TTL", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTTL)
}
