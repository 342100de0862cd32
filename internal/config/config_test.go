package config

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "STORE_BACKEND", "REDIS_DB", "LOG_LEVEL", "CART_STOCK_CEILING", "APP_ENV", "RATE_LIMIT_RPS"} {
		t.Setenv(k, "")
	}
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.Equal(t, "admin@leathershop.com", cfg.AdminEmail)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.True(t, cfg.CartStockCeiling)
	assert.True(t, cfg.Development())
	assert.InDelta(t, 5.0, cfg.RateLimitRPS, 0.0001)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("CART_STOCK_CEILING", "false")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, cfg.Backend)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
	assert.False(t, cfg.CartStockCeiling)
	assert.False(t, cfg.Development())
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"STORE_BACKEND":      "mongo",
		"REDIS_DB":           "three",
		"RATE_LIMIT_BURST":   "-",
		"CART_STOCK_CEILING": "maybe",
		"LOG_LEVEL":          "loud",
	}
	for k, v := range tests {
		t.Run(k, func(t *testing.T) {
			t.Setenv(k, v)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
