package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "")
	t.Setenv("DB_PATH", "")
	t.Setenv("TOKEN_TTL_HOURS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, "expenses.db", cfg.DBPath)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, 168*time.Hour, cfg.TokenTTL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "8081")
	t.Setenv("DB_PATH", "/tmp/test.db")
	t.Setenv("TOKEN_TTL_HOURS", "24")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_InvalidTTL(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	// Unparseable values fall back to the default
	t.Setenv("TOKEN_TTL_HOURS", "one week")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 168*time.Hour, cfg.TokenTTL)

	// Non-positive values are rejected
	t.Setenv("TOKEN_TTL_HOURS", "-1")
	_, err = Load()
	assert.Error(t, err)
}
