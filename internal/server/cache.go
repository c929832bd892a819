package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResponseCache caches serialized analytics responses in Redis, keyed by a
// hash of the request payload. A nil client disables caching; all methods
// are safe to call either way, so the handler never has to branch on
// availability.
type ResponseCache struct {
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// NewResponseCache wraps rdb. If ttl is 0 it defaults to 5 minutes.
func NewResponseCache(rdb *redis.Client, ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ResponseCache{rdb: rdb, ttl: ttl, namespace: "analyze"}
}

// Key derives the cache key for a raw request body.
func (c *ResponseCache) Key(body []byte) string {
	if c == nil {
		return ""
	}
	sum := sha256.Sum256(body)
	return c.namespace + ":" + hex.EncodeToString(sum[:])
}

// Get returns the cached response for key, or nil on a miss.
func (c *ResponseCache) Get(ctx context.Context, key string) []byte {
	if c == nil || c.rdb == nil {
		return nil
	}
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return nil
	}
	return b
}

// Set stores a response, best effort.
func (c *ResponseCache) Set(ctx context.Context, key string, body []byte) {
	if c == nil || c.rdb == nil {
		return
	}
	_ = c.rdb.Set(ctx, key, body, c.ttl).Err()
}
