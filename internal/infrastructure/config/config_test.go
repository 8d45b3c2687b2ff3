package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"AI_PROVIDER", "OPENROUTER_API_KEY", "GEMINI_API_KEY", "DATABASE_URL", "CACHE_BACKEND"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearProviderEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "none", cfg.AI.Provider)
	assert.InDelta(t, 0.2, cfg.AI.JSONTemperature, 1e-9)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 6*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 6, cfg.Suggest.DefaultLimit)
	assert.Equal(t, 3, cfg.Suggest.GeneratedCount)
	assert.Equal(t, 60, cfg.Suggest.CandidateLimit)
	assert.Equal(t, 90, cfg.Suggest.BroadenLimit)
	assert.Equal(t, 120*time.Second, cfg.RequestTimeout)
	assert.Empty(t, cfg.Database.URL)
}

func TestLoadConfigInfersProvider(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("GEMINI_API_KEY", "gm-test-key")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.AI.Provider)

	t.Setenv("OPENROUTER_API_KEY", "sk-or-test-key")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "openrouter", cfg.AI.Provider)
}

func TestLoadConfigRejectsProviderWithoutKey(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("AI_PROVIDER", "openrouter")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "OPENROUTER_API_KEY")
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:         ServerConfig{Port: 8080},
			AI:             AIConfig{Provider: "none", MaxConcurrent: 1},
			Cache:          CacheConfig{Enabled: true, Backend: "redis", TTL: time.Minute},
			Redis:          RedisConfig{Addr: "localhost:6379"},
			Suggest:        SuggestConfig{DefaultLimit: 6, CandidateLimit: 60, BroadenLimit: 90},
			RequestTimeout: time.Second,
		}
	}
	require.NoError(t, validateConfig(valid()))

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.AI.Provider = "llama" }},
		{"unknown cache backend", func(c *Config) { c.Cache.Backend = "disk" }},
		{"redis without addr", func(c *Config) { c.Redis.Addr = "" }},
		{"broaden below initial", func(c *Config) { c.Suggest.BroadenLimit = 10 }},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }},
		{"zero concurrency", func(c *Config) { c.AI.MaxConcurrent = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, validateConfig(cfg))
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", MaskAPIKey("short"))
	assert.Equal(t, "sk-o...cdef", MaskAPIKey("sk-or-1234567890abcdef"))
}
