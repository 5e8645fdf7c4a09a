package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Session.Backend)
	assert.Equal(t, 180*time.Second, cfg.Session.Timeout)
	assert.Equal(t, "data/recipes.csv", cfg.Catalog.Path)
	assert.False(t, cfg.Places.Enabled)
	assert.Equal(t, 5, cfg.Places.MaxResults)
	assert.Equal(t, "Desi Food MCP", cfg.MCP.Name)
	assert.Equal(t, time.Second, cfg.DedupWindow)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("CATALOG_PATH", "/tmp/recipes.db")
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("GOOGLE_MAPS_API_KEY", "abcd1234efgh")
	t.Setenv("APP_SESSION_TIMEOUT", "90s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/recipes.db", cfg.Catalog.Path)
	assert.Equal(t, "redis", cfg.Session.Backend)
	assert.Equal(t, "redis:6379", cfg.Session.RedisAddr)
	assert.Equal(t, 90*time.Second, cfg.Session.Timeout)
	assert.True(t, cfg.Places.Enabled, "api key enables place lookup")
}

func TestPlacesExplicitlyDisabled(t *testing.T) {
	t.Setenv("GOOGLE_MAPS_API_KEY", "abcd1234efgh")
	t.Setenv("PLACES_ENABLED", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.False(t, cfg.Places.Enabled)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(v *viper.Viper)
	}{
		{"unknown backend", func(v *viper.Viper) { v.Set("session.backend", "etcd") }},
		{"zero timeout", func(v *viper.Viper) { v.Set("session.timeout", "0s") }},
		{"places without key", func(v *viper.Viper) { v.Set("places.enabled", true) }},
		{"rate limit without requests", func(v *viper.Viper) { v.Set("rate_limit.requests", 0) }},
		{"missing port", func(v *viper.Viper) { v.Set("server.port", 0) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			setDefaults(v)
			tt.mutate(v)
			_, err := decode(v)
			assert.Error(t, err)
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", MaskAPIKey("short"))
	assert.Equal(t, "abcd...efgh", MaskAPIKey("abcd1234efgh"))
}
