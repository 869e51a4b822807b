package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gelisim-chatbot-be/internal/pkg/logger"
)

const keyNamespace = "chat:cache:"

// CachedResponse is the stored (answer, sources) pair for a query.
type CachedResponse struct {
	Response string   `json:"response"`
	Sources  []string `json:"sources"`
}

// ResponseCache de-duplicates identical queries for a bounded freshness
// window. Caching is an optimization, not a correctness requirement: store
// errors degrade to miss/no-op with a logged warning, never fail a request.
type ResponseCache struct {
	store KVStore
	ttl   time.Duration
	log   logger.ILogger
}

func NewResponseCache(store KVStore, ttl time.Duration, log logger.ILogger) *ResponseCache {
	return &ResponseCache{store: store, ttl: ttl, log: log}
}

// Key derives the deterministic cache key: namespace + SHA256 of the
// lowercased, trimmed query. Fixed length regardless of query size.
func Key(query string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(query))))
	return keyNamespace + fmt.Sprintf("%x", sum)
}

// Get returns the cached response for the query, or nil on a miss.
func (c *ResponseCache) Get(ctx context.Context, query string) *CachedResponse {
	data, found, err := c.store.Get(ctx, Key(query))
	if err != nil {
		c.log.Warn("cache", "Cache read error (continuing without cache)", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	if !found {
		return nil
	}

	var cached CachedResponse
	if err := json.Unmarshal(data, &cached); err != nil {
		c.log.Warn("cache", "Corrupt cache entry dropped", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	return &cached
}

// Set stores the response under the query's fingerprint. Entries are never
// updated in place, only replaced wholesale on the next miss.
func (c *ResponseCache) Set(ctx context.Context, query string, response *CachedResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		c.log.Warn("cache", "Cache marshal error", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := c.store.Set(ctx, Key(query), data, c.ttl); err != nil {
		c.log.Warn("cache", "Cache write error (continuing without cache)", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
