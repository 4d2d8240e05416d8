package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("SERVER_ADDR", "")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("EVENT_RATE_LIMIT", "")
	t.Setenv("ID_SOURCE", "")

	cfg := New()

	assert.Equal(t, EnvDevelopment, cfg.GetAppEnv())
	assert.Equal(t, ":8080", cfg.GetServerAddr())
	assert.Equal(t, devSessionSecret, cfg.GetSessionSecret())
	assert.Equal(t, 30*time.Minute, cfg.GetSessionTTL())
	assert.Equal(t, 20.0, cfg.GetEventRateLimit())
	assert.Equal(t, "sequence", cfg.GetIDSource())
	assert.True(t, cfg.IsDevelopment())
	require.NoError(t, cfg.Validate())
}

func TestNew_FromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", EnvProduction)
	t.Setenv("SERVER_ADDR", ":9000")
	t.Setenv("SESSION_SECRET", "a-long-production-secret")
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("EVENT_RATE_LIMIT", "2.5")
	t.Setenv("ID_SOURCE", "clock")

	cfg := New()

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, ":9000", cfg.GetServerAddr())
	assert.Equal(t, 5*time.Minute, cfg.GetSessionTTL())
	assert.Equal(t, 2.5, cfg.GetEventRateLimit())
	assert.Equal(t, "clock", cfg.GetIDSource())
	require.NoError(t, cfg.Validate())
}

func TestNew_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SESSION_TTL", "soon")
	t.Setenv("EVENT_RATE_LIMIT", "fast")

	cfg := New()

	assert.Equal(t, 30*time.Minute, cfg.GetSessionTTL())
	assert.Equal(t, 20.0, cfg.GetEventRateLimit())
}

func TestValidate(t *testing.T) {
	valid := Config{SessionSecret: "0123456789abcdef", SessionTTL: time.Minute, IDSource: "sequence"}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing secret", mutate: func(c *Config) { c.SessionSecret = "" }, wantErr: "SESSION_SECRET is required"},
		{name: "short secret", mutate: func(c *Config) { c.SessionSecret = "short" }, wantErr: "at least 16"},
		{name: "zero ttl", mutate: func(c *Config) { c.SessionTTL = 0 }, wantErr: "SESSION_TTL"},
		{name: "unknown id source", mutate: func(c *Config) { c.IDSource = "uuid" }, wantErr: "ID_SOURCE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
