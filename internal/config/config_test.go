package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/flyhigh_test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.HTTPPort)
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, time.Hour, cfg.TokenCleanupInterval)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Empty(t, cfg.RedisURL)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := LoadConfig()

	assert.Error(t, err)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/flyhigh_test")
	t.Setenv("TOKEN_TTL", "48h")
	t.Setenv("TOKEN_CLEANUP_INTERVAL", "30m")
	t.Setenv("HTTP_PORT", "8080")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 48*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 30*time.Minute, cfg.TokenCleanupInterval)
	assert.Equal(t, 8080, cfg.HTTPPort)
}

func TestLoadConfig_RejectsBadDuration(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/flyhigh_test")
	t.Setenv("TOKEN_TTL", "soon")

	_, err := LoadConfig()

	assert.Error(t, err)
}

func TestValidate_BadLogLevel(t *testing.T) {
	cfg := &Config{
		HTTPPort:             3000,
		TokenTTL:             time.Hour,
		TokenCleanupInterval: time.Hour,
		LogLevel:             "verbose",
		LogFormat:            "text",
	}

	assert.Error(t, cfg.Validate())
}
