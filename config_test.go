package site

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"SITE_NAME", "SITE_URL", "SITE_DESCRIPTION", "SITE_AUTHOR", "ADDR", "SESSION_SECRET",
		"COOKIE_SECURE", "LOG_LEVEL", "LOG_PRETTY", "CONTENT_BACKEND", "SANITY_PROJECT_ID",
		"SANITY_DATASET", "SANITY_API_VERSION", "SANITY_TOKEN", "SANITY_USE_CDN", "CONTENT_TIMEOUT",
		"CONTENT_REVALIDATE", "CACHE_BACKEND", "CACHE_SIZE", "REDIS_URL", "REDIS_PREFIX",
		"DATABASE_PATH", "PRESENCE_TZ", "PRESENCE_OPEN_HOUR", "PRESENCE_CLOSE_HOUR", "SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("SANITY_PROJECT_ID", "abc123")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "FA Media", cfg.Name)
	assert.Equal(t, "http://localhost:3000", cfg.URL)
	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, "sanity", cfg.Content.Backend)
	assert.Equal(t, 30*time.Second, cfg.Content.Revalidate)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 512, cfg.Cache.Size)
	assert.Equal(t, "data/site.db", cfg.DatabasePath)
	assert.Equal(t, "Asia/Kolkata", cfg.Presence.TimeZone)
	assert.Equal(t, 9, cfg.Presence.OpenHour)
	assert.Equal(t, 21, cfg.Presence.CloseHour)

	sc := cfg.Content.Sanity()
	assert.Equal(t, "abc123", sc.ProjectID)
}

func TestLoadConfigOverrides(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("SITE_URL", "https://famedia.co.in/")
	t.Setenv("CONTENT_BACKEND", "sqlite")
	t.Setenv("CONTENT_REVALIDATE", "1m")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://famedia.co.in", cfg.URL)
	assert.Equal(t, "sqlite", cfg.Content.Backend)
	assert.Equal(t, time.Minute, cfg.Content.Revalidate)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.True(t, cfg.CookieSecure)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SiteConfig)
		errSub string
	}{
		{"missing secret", func(c *SiteConfig) { c.SessionSecret = "" }, "SessionSecret"},
		{"sanity needs project", func(c *SiteConfig) { c.Content.ProjectID = "" }, "ProjectID"},
		{"unknown backend", func(c *SiteConfig) { c.Content.Backend = "mongo" }, "Backend"},
		{"redis needs url", func(c *SiteConfig) { c.Cache.Backend = "redis" }, "RedisURL"},
		{"bad url", func(c *SiteConfig) { c.URL = "not a url" }, "URL"},
		{"bad hours", func(c *SiteConfig) { c.Presence.OpenHour, c.Presence.CloseHour = 22, 8 }, "open hour"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := SiteConfig{SessionSecret: "x", Content: ContentConfig{ProjectID: "p"}}
			c.setDefaults()
			tt.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSub)
		})
	}
}
