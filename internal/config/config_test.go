package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_STR", "value")
	t.Setenv("X_BOOL", "yes")
	t.Setenv("X_INT", "42")
	t.Setenv("X_DUR", "90s")
	t.Setenv("X_BAD_INT", "forty")
	t.Setenv("X_BAD_DUR", "soon")

	require.Equal(t, "value", envStr("X_STR", "d"))
	require.Equal(t, "d", envStr("X_UNSET", "d"))

	require.True(t, envBool("X_BOOL", false))
	require.False(t, envBool("X_UNSET", false))
	require.True(t, envBool("X_UNSET", true))

	require.Equal(t, 42, envInt("X_INT", 1))
	require.Equal(t, 1, envInt("X_BAD_INT", 1))

	require.Equal(t, 90*time.Second, envDur("X_DUR", time.Second))
	require.Equal(t, time.Second, envDur("X_BAD_DUR", time.Second))
}

func TestLoadRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	require.Equal(t, 1, cfg.Capacity)
	require.Equal(t, 1, cfg.RefillTokens)
	require.Equal(t, 2*time.Second, cfg.RefillInterval)
	// TTL is raised to cover several refill intervals so idle buckets do
	// not expire mid-window.
	require.Equal(t, 10*time.Second, cfg.TTL)
}

func TestLoadCacheConfigMethods(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head ,")

	cfg := LoadCacheConfig()
	require.True(t, cfg.Methods["GET"])
	require.True(t, cfg.Methods["HEAD"])
	require.False(t, cfg.Methods["POST"])
	require.Len(t, cfg.Methods, 2)
}
