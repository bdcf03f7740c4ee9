package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
)

// ResultCache stores computed text results keyed by a content hash.
type ResultCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string) error
}

type InMemoryResultCache struct {
	mu    sync.RWMutex
	cache map[string]string
}

func NewInMemoryResultCache() *InMemoryResultCache {
	return &InMemoryResultCache{
		cache: make(map[string]string),
	}
}

func (c *InMemoryResultCache) Get(ctx context.Context, key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, ok := c.cache[key]
	return value, ok
}

func (c *InMemoryResultCache) Set(ctx context.Context, key string, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache[key] = value
	return nil
}

// Key derives a stable cache key from an ordered list of request parts.
func Key(parts ...string) string {
	jsonBytes, _ := json.Marshal(parts)
	hash := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(hash[:])
}
