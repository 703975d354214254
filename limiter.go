package site

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// SearchLimiter caps listing searches per client IP in a sliding window.
// Every distinct search term misses the query cache, so this is what bounds
// upstream traffic driven by a single client.
type SearchLimiter struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	max    int
	window time.Duration
	now    func() time.Time
	stop   chan struct{}
	once   sync.Once
}

// NewSearchLimiter allows max searches per window and starts a janitor that
// drops idle clients until Close is called.
func NewSearchLimiter(max int, window time.Duration) *SearchLimiter {
	l := &SearchLimiter{
		hits:   make(map[string][]time.Time),
		max:    max,
		window: window,
		now:    time.Now,
		stop:   make(chan struct{}),
	}
	go l.cleanup()
	return l
}

func (l *SearchLimiter) cleanup() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			cutoff := l.now().Add(-l.window)
			l.mu.Lock()
			for ip, hits := range l.hits {
				if kept := prune(hits, cutoff); len(kept) == 0 {
					delete(l.hits, ip)
				} else {
					l.hits[ip] = kept
				}
			}
			l.mu.Unlock()
		}
	}
}

func prune(hits []time.Time, cutoff time.Time) []time.Time {
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// Allow records a search for ip and reports whether it is within the limit.
// When it is not, retry is how long until the oldest recorded search leaves
// the window. Rejected searches are not recorded.
func (l *SearchLimiter) Allow(ip string) (ok bool, retry time.Duration) {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := prune(l.hits[ip], now.Add(-l.window))
	if len(kept) >= l.max {
		l.hits[ip] = kept
		return false, kept[0].Add(l.window).Sub(now)
	}
	l.hits[ip] = append(kept, now)
	return true, 0
}

// Close stops the janitor.
func (l *SearchLimiter) Close() error {
	l.once.Do(func() { close(l.stop) })
	return nil
}

// Middleware rejects over-limit listing searches with 429. Requests without
// a search term pass untouched.
func (l *SearchLimiter) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.QueryParam("search") == "" {
			return next(c)
		}
		ok, retry := l.Allow(c.RealIP())
		if ok {
			return next(c)
		}
		secs := int(math.Ceil(retry.Seconds()))
		c.Response().Header().Set("Retry-After", strconv.Itoa(max(secs, 1)))
		return echo.NewHTTPError(http.StatusTooManyRequests, "too many searches, slow down")
	}
}
