package site

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newTestLimiter(max int, window time.Duration) (*SearchLimiter, *time.Time) {
	l := NewSearchLimiter(max, window)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func allowed(l *SearchLimiter, ip string) bool {
	ok, _ := l.Allow(ip)
	return ok
}

func TestSearchLimiterBlocksAfterMax(t *testing.T) {
	l, _ := newTestLimiter(2, time.Minute)
	defer l.Close()
	ip := "203.0.113.10"

	assert.True(t, allowed(l, ip), "first search")
	assert.True(t, allowed(l, ip), "second search")
	assert.False(t, allowed(l, ip), "third search")
}

func TestSearchLimiterResetsAfterWindow(t *testing.T) {
	l, now := newTestLimiter(1, time.Minute)
	defer l.Close()
	ip := "203.0.113.20"

	assert.True(t, allowed(l, ip))
	assert.False(t, allowed(l, ip))

	*now = now.Add(61 * time.Second)
	assert.True(t, allowed(l, ip))
}

func TestSearchLimiterRetryTracksOldestHit(t *testing.T) {
	l, now := newTestLimiter(2, time.Minute)
	defer l.Close()
	ip := "203.0.113.25"

	l.Allow(ip)
	*now = now.Add(10 * time.Second)
	l.Allow(ip)
	*now = now.Add(20 * time.Second)

	ok, retry := l.Allow(ip)
	assert.False(t, ok)
	assert.Equal(t, 30*time.Second, retry)
}

func TestSearchLimiterIsPerIP(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)
	defer l.Close()

	assert.True(t, allowed(l, "203.0.113.30"))
	assert.True(t, allowed(l, "203.0.113.31"))
	assert.False(t, allowed(l, "203.0.113.30"))
}

func TestSearchLimiterMiddleware(t *testing.T) {
	l, now := newTestLimiter(1, time.Minute)
	defer l.Close()
	e := echo.New()
	h := l.Middleware(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	call := func(target string) (*httptest.ResponseRecorder, error) {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		return rec, h(e.NewContext(req, rec))
	}

	_, err := call("/blogs?search=go")
	assert.NoError(t, err)
	*now = now.Add(45 * time.Second)
	rec, err := call("/blogs?search=rust")
	var he *echo.HTTPError
	if assert.ErrorAs(t, err, &he) {
		assert.Equal(t, http.StatusTooManyRequests, he.Code)
	}
	assert.Equal(t, "15", rec.Header().Get("Retry-After"))

	_, err = call("/blogs?category=Design")
	assert.NoError(t, err, "plain listing is never limited")
}
