package site

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/famedia/site/blog"
	"github.com/famedia/site/sanity"
)

// SiteConfig holds all configuration for the site.
type SiteConfig struct {
	Name        string `validate:"required"`     // Site name (default "FA Media")
	URL         string `validate:"required,url"` // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Author      string // Organization/author for JSON-LD

	Addr          string `validate:"required"` // Listen address (default ":3000")
	SessionSecret string `validate:"required"` // Cookie signing secret for the session store
	CookieSecure  bool   // Set true for HTTPS

	LogLevel  string
	LogPretty bool

	Content  ContentConfig
	Cache    CacheConfig
	Presence PresenceConfig

	DatabasePath    string // SQLite mirror path (default "data/site.db")
	ShutdownTimeout time.Duration

	// SearchLimit is the number of listing searches allowed per client IP per
	// minute; negative disables the limit (default 30).
	SearchLimit int
}

// ContentConfig selects and configures the post backend.
type ContentConfig struct {
	Backend    string `validate:"oneof=sanity sqlite"`
	ProjectID  string `validate:"required_if=Backend sanity"`
	Dataset    string
	APIVersion string
	Token      string
	UseCDN     bool
	Timeout    time.Duration
	// Revalidate is how long query results stay fresh (default 30s).
	Revalidate time.Duration
}

// Sanity returns the query client configuration.
func (c ContentConfig) Sanity() sanity.Config {
	return sanity.Config{
		ProjectID:  c.ProjectID,
		Dataset:    c.Dataset,
		APIVersion: c.APIVersion,
		Token:      c.Token,
		UseCDN:     c.UseCDN,
		Timeout:    c.Timeout,
	}
}

// CacheConfig selects the query result cache.
type CacheConfig struct {
	Backend  string `validate:"oneof=memory redis"`
	Size     int    `validate:"gte=1"` // entries, memory backend only
	RedisURL string `validate:"required_if=Backend redis"`
	Prefix   string
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "FA Media"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimRight(c.URL, "/")
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Content.Backend == "" {
		c.Content.Backend = "sanity"
	}
	if c.Content.Revalidate == 0 {
		c.Content.Revalidate = sanity.DefaultRevalidate
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Cache.Size == 0 {
		c.Cache.Size = 512
	}
	if c.Cache.Prefix == "" {
		c.Cache.Prefix = "famedia:"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/site.db"
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	if c.SearchLimit == 0 {
		c.SearchLimit = 30
	}
	c.Presence.setDefaults()
}

// Validate checks the struct tags of c and its nested sections.
func (c *SiteConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("site: invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("site: invalid config: %w", err)
	}
	return c.Presence.validate()
}

// LoadConfig reads the configuration from the environment, after loading a
// .env file from the working directory if one exists.
func LoadConfig() (SiteConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return SiteConfig{}, fmt.Errorf("site: load .env: %w", err)
	}

	cfg := SiteConfig{
		Name:          getEnv("SITE_NAME", ""),
		URL:           getEnv("SITE_URL", ""),
		Description:   getEnv("SITE_DESCRIPTION", "Insights on web development, UI systems, automation, and engineering decisions."),
		Author:        getEnv("SITE_AUTHOR", ""),
		Addr:          getEnv("ADDR", ""),
		SessionSecret: getEnv("SESSION_SECRET", ""),
		CookieSecure:  getEnvAsBool("COOKIE_SECURE", false),
		LogLevel:      getEnv("LOG_LEVEL", ""),
		LogPretty:     getEnvAsBool("LOG_PRETTY", false),
		Content: ContentConfig{
			Backend:    getEnv("CONTENT_BACKEND", ""),
			ProjectID:  getEnv("SANITY_PROJECT_ID", ""),
			Dataset:    getEnv("SANITY_DATASET", ""),
			APIVersion: getEnv("SANITY_API_VERSION", ""),
			Token:      getEnv("SANITY_TOKEN", ""),
			UseCDN:     getEnvAsBool("SANITY_USE_CDN", false),
			Timeout:    getEnvAsDuration("CONTENT_TIMEOUT", 0),
			Revalidate: getEnvAsDuration("CONTENT_REVALIDATE", 0),
		},
		Cache: CacheConfig{
			Backend:  getEnv("CACHE_BACKEND", ""),
			Size:     getEnvAsInt("CACHE_SIZE", 0),
			RedisURL: getEnv("REDIS_URL", ""),
			Prefix:   getEnv("REDIS_PREFIX", ""),
		},
		Presence: PresenceConfig{
			TimeZone:  getEnv("PRESENCE_TZ", ""),
			OpenHour:  getEnvAsInt("PRESENCE_OPEN_HOUR", 0),
			CloseHour: getEnvAsInt("PRESENCE_CLOSE_HOUR", 0),
		},
		DatabasePath:    getEnv("DATABASE_PATH", ""),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 0),
		SearchLimit:     getEnvAsInt("SEARCH_LIMIT", 0),
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return SiteConfig{}, err
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}

// Option configures additional App behavior.
type Option func(*App)

// WithRepository serves posts from repo instead of the configured backend.
func WithRepository(repo blog.Repository) Option {
	return func(a *App) {
		a.repo = repo
	}
}

// WithStaticFS serves /public/* from fsys.
func WithStaticFS(fsys fs.FS) Option {
	return func(a *App) {
		a.staticFS = fsys
	}
}

// WithClock replaces time.Now, e.g. for the author presence indicator.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}
