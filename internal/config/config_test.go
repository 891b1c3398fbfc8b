package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com/api")
	t.Setenv("SESSION_SECRET", secret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 720*time.Hour, cfg.SessionDurableTTL)
	assert.Equal(t, 12*time.Hour, cfg.SessionEphemeralTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, int64(5<<20), cfg.MaxUploadSize)
	assert.Equal(t, "pretty", cfg.LogFormat)
	assert.False(t, cfg.CookieSecure)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://localhost:8000/api")
	t.Setenv("SESSION_SECRET", secret)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("RATE_LIMIT_RPM", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 300, cfg.RateLimitRPM)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			ServerPort:          "8080",
			APIBaseURL:          "https://api.example.com",
			SessionSecret:       secret,
			SessionDurableTTL:   time.Hour,
			SessionEphemeralTTL: time.Hour,
			MaxUploadSize:       1,
			RequestTimeout:      time.Second,
			APITimeout:          time.Second,
			LogFormat:           "pretty",
			LogLevel:            "info",
		}
	}

	base := valid()
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing api url", func(c *Config) { c.APIBaseURL = "" }},
		{"relative api url", func(c *Config) { c.APIBaseURL = "api.example.com" }},
		{"short secret", func(c *Config) { c.SessionSecret = "short" }},
		{"zero ttl", func(c *Config) { c.SessionEphemeralTTL = 0 }},
		{"zero upload", func(c *Config) { c.MaxUploadSize = 0 }},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
