// Package sanity reads blog documents from the Sanity HTTP query API.
package sanity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/famedia/site/cache"
)

// DefaultAPIVersion is the dated API version queried when none is configured.
const DefaultAPIVersion = "2024-01-01"

// Config identifies the project and dataset to query.
type Config struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	Token      string
	UseCDN     bool
	Timeout    time.Duration

	// BaseURL replaces the derived https://<project>.api.sanity.io/v<version>
	// endpoint.
	BaseURL string
}

func (c *Config) setDefaults() {
	if c.Dataset == "" {
		c.Dataset = "production"
	}
	if c.APIVersion == "" {
		c.APIVersion = DefaultAPIVersion
	}
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Second
	}
	if c.BaseURL == "" {
		host := "api.sanity.io"
		if c.UseCDN {
			host = "apicdn.sanity.io"
		}
		c.BaseURL = fmt.Sprintf("https://%s.%s/v%s", c.ProjectID, host, strings.TrimPrefix(c.APIVersion, "v"))
	}
}

// Query is one GROQ query with its parameters and caching directive.
// Revalidate is how long a result stays fresh; zero disables caching.
type Query struct {
	GROQ       string
	Params     map[string]any
	Revalidate time.Duration
}

// APIError is a non-success answer from the query API.
type APIError struct {
	StatusCode  int
	Type        string
	Description string
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("sanity: status %d", e.StatusCode)
	}
	return fmt.Sprintf("sanity: status %d: %s: %s", e.StatusCode, e.Type, e.Description)
}

type envelope struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Type        string `json:"type"`
		Description string `json:"description"`
	} `json:"error"`
}

// Client issues queries and caches their results for their revalidation
// interval. Concurrent identical queries share one upstream request.
type Client struct {
	http    *resty.Client
	dataset string
	cache   cache.Store
	group   singleflight.Group
	log     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithCache stores results in s.
func WithCache(s cache.Store) Option {
	return func(c *Client) {
		c.cache = s
	}
}

// WithLogger sets the logger used for per-query debug output.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient creates a Client for cfg.
func NewClient(cfg Config, opts ...Option) *Client {
	cfg.setDefaults()

	hc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")
	if cfg.Token != "" {
		hc.SetAuthToken(cfg.Token)
	}

	c := &Client{
		http:    hc,
		dataset: cfg.Dataset,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch runs q and decodes its result into out. A null result leaves out
// untouched, so pointer targets stay nil.
func (c *Client) Fetch(ctx context.Context, q Query, out any) error {
	params, err := encodeParams(q.Params)
	if err != nil {
		return err
	}
	key := cacheKey(q.GROQ, params)

	raw, err := c.cached(ctx, key, q.Revalidate)
	if err != nil {
		return err
	}
	if raw == nil {
		// The shared call outlives any single caller; the client timeout bounds it.
		shared := context.WithoutCancel(ctx)
		ch := c.group.DoChan(key, func() (any, error) {
			return c.fetch(shared, q, params, key)
		})
		select {
		case <-ctx.Done():
			return ctx.Err()
		case res := <-ch:
			if res.Err != nil {
				return res.Err
			}
			raw = res.Val.([]byte)
			c.log.Debug().Str("key", key[:12]).Bool("shared", res.Shared).Msg("content query fetched")
		}
	} else {
		c.log.Debug().Str("key", key[:12]).Msg("content query cache hit")
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("sanity: decode result: %w", err)
	}
	return nil
}

func (c *Client) cached(ctx context.Context, key string, ttl time.Duration) ([]byte, error) {
	if c.cache == nil || ttl <= 0 {
		return nil, nil
	}
	b, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		// A broken cache degrades to uncached reads.
		c.log.Warn().Err(err).Msg("content cache read failed")
		return nil, nil
	}
	if !ok {
		return nil, nil
	}
	return b, nil
}

func (c *Client) fetch(ctx context.Context, q Query, params map[string]string, key string) ([]byte, error) {
	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("query", q.GROQ).
		SetQueryParams(params).
		SetPathParam("dataset", c.dataset).
		Get("/data/query/{dataset}")
	if err != nil {
		return nil, fmt.Errorf("sanity: request failed: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(resp.Body(), &env)

	if resp.StatusCode() != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode()}
		if decodeErr == nil && env.Error != nil {
			apiErr.Type = env.Error.Type
			apiErr.Description = env.Error.Description
		}
		return nil, apiErr
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("sanity: malformed response: %w", decodeErr)
	}
	if env.Error != nil {
		return nil, &APIError{StatusCode: resp.StatusCode(), Type: env.Error.Type, Description: env.Error.Description}
	}

	raw := []byte(env.Result)
	if len(raw) == 0 {
		raw = []byte("null")
	}
	c.log.Debug().
		Str("key", key[:12]).
		Dur("latency", time.Since(start)).
		Int("bytes", len(raw)).
		Msg("content query upstream")

	if c.cache != nil && q.Revalidate > 0 {
		if err := c.cache.Set(ctx, key, raw, q.Revalidate); err != nil {
			c.log.Warn().Err(err).Msg("content cache write failed")
		}
	}
	return raw, nil
}

// encodeParams turns query parameters into $name=<json> pairs.
func encodeParams(params map[string]any) (map[string]string, error) {
	out := make(map[string]string, len(params))
	for name, v := range params {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("sanity: encode param %q: %w", name, err)
		}
		out["$"+name] = string(b)
	}
	return out, nil
}

func cacheKey(groq string, params map[string]string) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := []string{groq}
	for _, name := range names {
		parts = append(parts, name+"="+params[name])
	}
	return cache.Key(parts...)
}
