package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "http://localhost:8080/api/", cfg.Upstream.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 30*time.Minute, cfg.Sessions.IdleTTL)
	assert.False(t, cfg.Sessions.SecureCookie)
	assert.False(t, cfg.Audit.Enabled)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("ENV", EnvProduction)
	v.Set("UPSTREAM_BASE_URL", "https://edu.example.com/api")
	v.Set("UPSTREAM_TIMEOUT", "not-a-duration")
	v.Set("ALLOWED_ORIGINS", " https://a.example.com , ,https://b.example.com")

	cfg := fromViper(v)
	assert.Equal(t, "https://edu.example.com/api/", cfg.Upstream.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Sessions.SecureCookie)
}
