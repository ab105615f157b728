package sessions

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

// Runs against a real Redis when REDIS_ADDR is set.
func TestRedisLockerExcludesSecondHolder(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rdb := NewRedisClient(addr, os.Getenv("REDIS_PASSWORD"), 0, 2)
	defer rdb.Close()

	ctx := context.Background()
	if err := Ping(ctx, rdb); err != nil {
		t.Skipf("redis unreachable: %v", err)
	}

	holder := NewRedisLocker(rdb, 5*time.Second, "salon-test:lock")
	contender := NewRedisLocker(rdb, 200*time.Millisecond, "salon-test:lock")
	key := NewID()

	unlock, err := holder.Lock(ctx, key)
	if err != nil {
		t.Fatalf("first Lock failed: %v", err)
	}

	if _, err := contender.Lock(ctx, key); !errors.Is(err, ErrLockTimeout) {
		t.Fatalf("expected ErrLockTimeout while held, got %v", err)
	}

	unlock()
	unlock2, err := contender.Lock(ctx, key)
	if err != nil {
		t.Fatalf("Lock after release failed: %v", err)
	}
	unlock2()
}

func TestRedisLockerReleaseReportsErrors(t *testing.T) {
	rdb := NewRedisClient("127.0.0.1:0", "", 0, 1)
	rdb.Close()

	l := NewRedisLocker(rdb, time.Second, "salon-test:lock")
	if err := l.release("salon-test:lock:k", "token"); err == nil {
		t.Fatal("expected release on a closed client to fail")
	}
}
