package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/umakantv/go-utils/cache"
)

// ErrNotFound is returned by a Backend for a missing or expired key.
var ErrNotFound = errors.New("session not found")

// Backend stores serialized sessions with a TTL.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CacheBackend keeps sessions in the go-utils cache: "memory" for a single
// instance, "redis" when several instances share sessions.
type CacheBackend struct {
	cache cache.Cache
}

func NewCacheBackend(c cache.Cache) *CacheBackend {
	return &CacheBackend{cache: c}
}

func (b *CacheBackend) Get(_ context.Context, key string) ([]byte, error) {
	raw, err := b.cache.Get(key)
	if errors.Is(err, cache.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if raw == nil {
		return nil, ErrNotFound
	}

	// The redis cache JSON-decodes what it stored, the memory cache returns it as is
	switch v := raw.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	case map[string]interface{}:
		return json.Marshal(v)
	default:
		return nil, fmt.Errorf("unexpected session type %T", raw)
	}
}

func (b *CacheBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if err := b.cache.Set(key, string(value), ttl); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func (b *CacheBackend) Delete(_ context.Context, key string) error {
	if err := b.cache.Delete(key); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}
