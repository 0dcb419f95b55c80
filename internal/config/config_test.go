package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("PAGE_SIZE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, 10, cfg.App.PageSize)
	assert.Equal(t, 5*time.Minute, cfg.JWT.AccessTTL())
	assert.Equal(t, 24*time.Hour, cfg.JWT.RefreshTTL())
	assert.Equal(t, "/media/", cfg.Media.URL)
	assert.Equal(t, 5, cfg.RateLimit.MaxLoginFailures)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PAGE_SIZE", "25")
	t.Setenv("MAX_PAGE_SIZE", "50")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("MEDIA_URL", "files")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com")
	t.Setenv("LOGIN_MAX_FAILURES", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.App.PageSize)
	assert.Equal(t, 90*time.Second, cfg.Redis.TTL)
	assert.Equal(t, "/files/", cfg.Media.URL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 5, cfg.RateLimit.MaxLoginFailures)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App: AppConfig{Environment: "production", PageSize: 10, MaxPageSize: 100},
			JWT: JWTConfig{Secret: "s3cret"},
		}
	}

	assert.NoError(t, valid().Validate())

	cfg := valid()
	cfg.JWT.Secret = defaultJWTSecret
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.App.PageSize = 0
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.App.MaxPageSize = 5
	assert.Error(t, cfg.Validate())
}

func TestNormalizeMediaURL(t *testing.T) {
	assert.Equal(t, "/media/", normalizeMediaURL("/media"))
	assert.Equal(t, "https://cdn.example.com/covers/", normalizeMediaURL("https://cdn.example.com/covers"))
}
