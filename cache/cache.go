// Package cache stores serialized query results for a fixed time-to-live.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Store is a byte cache with per-entry expiry. Get reports a miss with
// ok == false; an expired entry is a miss.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// Key hashes parts into a fixed-length cache key.
func Key(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
