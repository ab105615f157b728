package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"salon-booking/models"

	"github.com/umakantv/go-utils/cache"
)

// jsonCache stores values the way the go-utils redis cache does: JSON in,
// JSON-decoded interface{} out. Each operation can be made to fail.
type jsonCache struct {
	mu        sync.Mutex
	items     map[string][]byte
	getErr    error
	setErr    error
	deleteErr error
}

func newJSONCache() *jsonCache {
	return &jsonCache{items: make(map[string][]byte)}
}

func (c *jsonCache) Set(key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.items[key] = data
	return nil
}

func (c *jsonCache) Get(key string) (interface{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	data, ok := c.items[key]
	if !ok {
		return nil, cache.ErrKeyNotFound
	}
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return string(data), nil
	}
	return v, nil
}

func (c *jsonCache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deleteErr != nil {
		return c.deleteErr
	}
	delete(c.items, key)
	return nil
}

func (c *jsonCache) Exists(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

func (c *jsonCache) Close() error { return nil }

func TestCacheBackendRoundTripThroughJSONCodec(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewCacheBackend(newJSONCache()), NewLocalLocker(), Options{TTL: time.Hour})

	sess := &Session{ID: NewID(), Draft: &models.Draft{ID: "d1", Service: "Facial", Notes: `say "hi"`}}
	sess.SignIn(Identity{UserID: 5, Fullname: "Bea", Email: "b@x.com"})
	if err := m.Save(ctx, sess); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := m.Load(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.User == nil || got.User.UserID != 5 {
		t.Fatalf("expected user 5, got %+v", got.User)
	}
	if got.Draft == nil || got.Draft.Notes != `say "hi"` {
		t.Fatalf("draft did not survive the codec: %+v", got.Draft)
	}
}

func TestCacheBackendMissingKeyIsNotFound(t *testing.T) {
	b := NewCacheBackend(newJSONCache())
	if _, err := b.Get(context.Background(), "session:nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCacheBackendPropagatesStorageErrors(t *testing.T) {
	ctx := context.Background()
	outage := errors.New("connection refused")

	c := newJSONCache()
	c.getErr = outage
	c.setErr = outage
	c.deleteErr = outage
	b := NewCacheBackend(c)

	if _, err := b.Get(ctx, "k"); !errors.Is(err, outage) || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected outage from Get, got %v", err)
	}
	if err := b.Set(ctx, "k", []byte("{}"), time.Minute); !errors.Is(err, outage) {
		t.Fatalf("expected outage from Set, got %v", err)
	}
	if err := b.Delete(ctx, "k"); !errors.Is(err, outage) {
		t.Fatalf("expected outage from Delete, got %v", err)
	}

	m := NewManager(b, NewLocalLocker(), Options{TTL: time.Hour})
	if _, err := m.Load(ctx, "some-id"); !errors.Is(err, outage) {
		t.Fatalf("Load must not treat an outage as an empty session, got %v", err)
	}
	if _, err := m.Update(ctx, "some-id", func(*Session) error { return nil }); err == nil {
		t.Fatal("Update must report a failed load")
	}
}

func TestMemoryCacheSessionExpires(t *testing.T) {
	ctx := context.Background()
	m := NewManager(newMemoryBackend(), NewLocalLocker(), Options{TTL: time.Second})

	sess := &Session{ID: NewID()}
	sess.SignIn(Identity{UserID: 9})
	if err := m.Save(ctx, sess); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if got, _ := m.Load(ctx, sess.ID); got.User == nil {
		t.Fatal("expected session before expiry")
	}

	// the memory cache tracks expiry in whole seconds
	time.Sleep(2100 * time.Millisecond)

	got, err := m.Load(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.User != nil {
		t.Fatal("expected expired session to load as anonymous")
	}
}
