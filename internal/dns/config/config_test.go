package config

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "bolt", cfg.Store.Backend)
	assert.Equal(t, "/var/lib/zonekeeper/zones.db", cfg.Store.Path)
	assert.Equal(t, "date", cfg.Serial.Policy)
	assert.Equal(t, "soa", cfg.Render.DisabledZone)
	assert.Equal(t, 256, cfg.Render.CacheSize)
	assert.Equal(t, uint(10000), cfg.Names.Capacity)
	assert.InDelta(t, 0.01, cfg.Names.FPRate, 1e-9)
}

func TestLoad_ValidOverrides(t *testing.T) {
	t.Setenv("DNS_ENV", "dev")
	t.Setenv("DNS_LOG_LEVEL", "debug")
	t.Setenv("DNS_STORE_BACKEND", "memory")
	t.Setenv("DNS_STORE_PATH", "")
	t.Setenv("DNS_SERIAL_POLICY", "counter")
	t.Setenv("DNS_RENDER_DISABLED_ZONE", "empty")
	t.Setenv("DNS_RENDER_CACHE_SIZE", "0")
	t.Setenv("DNS_NAMES_CAPACITY", "500")
	t.Setenv("DNS_NAMES_FP_RATE", "0.001")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.Empty(t, cfg.Store.Path)
	assert.Equal(t, "counter", cfg.Serial.Policy)
	assert.Equal(t, "empty", cfg.Render.DisabledZone)
	assert.Equal(t, 0, cfg.Render.CacheSize)
	assert.Equal(t, uint(500), cfg.Names.Capacity)
	assert.InDelta(t, 0.001, cfg.Names.FPRate, 1e-9)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"env", "DNS_ENV", "staging"},
		{"log level", "DNS_LOG_LEVEL", "verbose"},
		{"backend", "DNS_STORE_BACKEND", "redis"},
		{"serial policy", "DNS_SERIAL_POLICY", "epoch"},
		{"disabled zone mode", "DNS_RENDER_DISABLED_ZONE", "hide"},
		{"negative cache", "DNS_RENDER_CACHE_SIZE", "-1"},
		{"fp rate", "DNS_NAMES_FP_RATE", "1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoad_StorePathRequired(t *testing.T) {
	for _, backend := range []string{"bolt", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			t.Setenv("DNS_STORE_BACKEND", backend)
			t.Setenv("DNS_STORE_PATH", "")
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "validation failed")
		})
	}

	t.Run("memory", func(t *testing.T) {
		t.Setenv("DNS_STORE_BACKEND", "memory")
		t.Setenv("DNS_STORE_PATH", "")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Empty(t, cfg.Store.Path)
	})
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "env", envKey("DNS_ENV"))
	assert.Equal(t, "log.level", envKey("DNS_LOG_LEVEL"))
	assert.Equal(t, "render.disabled_zone", envKey("DNS_RENDER_DISABLED_ZONE"))
	assert.Equal(t, "names.fp_rate", envKey("DNS_NAMES_FP_RATE"))
}

func TestLoad_LoaderErrors(t *testing.T) {
	boom := errors.New("boom")

	t.Run("defaults", func(t *testing.T) {
		orig := defaultLoader
		defer func() { defaultLoader = orig }()
		defaultLoader = func(*koanf.Koanf) error { return boom }

		_, err := Load()
		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "default config")
	})

	t.Run("env", func(t *testing.T) {
		orig := envLoader
		defer func() { envLoader = orig }()
		envLoader = func(*koanf.Koanf) error { return boom }

		_, err := Load()
		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "error loading env")
	})

	t.Run("validation registration", func(t *testing.T) {
		orig := registerValidation
		defer func() { registerValidation = orig }()
		registerValidation = func(*validator.Validate) error { return boom }

		_, err := Load()
		require.ErrorIs(t, err, boom)
	})
}
