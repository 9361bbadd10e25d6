package redis

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"
)

func TestIdempotencyStore_KeyFormat(t *testing.T) {
	s := NewIdempotencyStore(nil)

	if got := s.key("abc-123"); got != "idempotency:exercise:abc-123" {
		t.Fatalf("unexpected key: %s", got)
	}
	if s.ttl != idempotencyTTL {
		t.Fatalf("expected default ttl %s, got %s", idempotencyTTL, s.ttl)
	}
	if s.pendingTTL != pendingTTL {
		t.Fatalf("expected pending ttl %s, got %s", pendingTTL, s.pendingTTL)
	}
}

func TestConfig_Enabled(t *testing.T) {
	if (Config{}).Enabled() {
		t.Error("empty config must be disabled")
	}
	if !(Config{Addr: "localhost:6379"}).Enabled() {
		t.Error("config with address must be enabled")
	}
}

// newTestStore connects to the Redis at REDIS_ADDR and skips when it is unset.
func newTestStore(t *testing.T) (*IdempotencyStore, string) {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	client, err := Connect(context.Background(), Config{Addr: addr})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	prefix := "test-" + strconv.FormatInt(time.Now().UnixNano(), 36) + ":"
	t.Cleanup(func() {
		ctx := context.Background()
		keys, _ := client.Keys(ctx, "idempotency:exercise:"+prefix+"*").Result()
		if len(keys) > 0 {
			_ = client.Del(ctx, keys...).Err()
		}
	})
	return NewIdempotencyStore(client), prefix
}

func TestIdempotencyStore_ReserveRememberReplay(t *testing.T) {
	s, prefix := newTestStore(t)
	ctx := context.Background()
	key := prefix + "k1"

	ok, id, err := s.Reserve(ctx, key)
	if err != nil || !ok || id != "" {
		t.Fatalf("first reserve: ok=%v id=%q err=%v", ok, id, err)
	}

	// Held but not yet remembered.
	ok, id, err = s.Reserve(ctx, key)
	if err != nil || ok || id != "" {
		t.Fatalf("pending reserve: ok=%v id=%q err=%v", ok, id, err)
	}

	if err := s.Remember(ctx, key, "65f1c2aa9b1e8a0012345678"); err != nil {
		t.Fatalf("remember: %v", err)
	}
	ok, id, err = s.Reserve(ctx, key)
	if err != nil || ok || id != "65f1c2aa9b1e8a0012345678" {
		t.Fatalf("replay reserve: ok=%v id=%q err=%v", ok, id, err)
	}

	ttl, err := s.client.TTL(ctx, s.key(key)).Result()
	if err != nil {
		t.Fatalf("ttl: %v", err)
	}
	if ttl <= pendingTTL || ttl > idempotencyTTL {
		t.Errorf("expected remembered key to carry the full ttl, got %s", ttl)
	}
}

func TestIdempotencyStore_ReleaseFreesKey(t *testing.T) {
	s, prefix := newTestStore(t)
	ctx := context.Background()
	key := prefix + "k2"

	if ok, _, err := s.Reserve(ctx, key); err != nil || !ok {
		t.Fatalf("reserve: ok=%v err=%v", ok, err)
	}
	if err := s.Release(ctx, key); err != nil {
		t.Fatalf("release: %v", err)
	}
	if ok, _, err := s.Reserve(ctx, key); err != nil || !ok {
		t.Fatalf("reserve after release: ok=%v err=%v", ok, err)
	}
}

func TestIdempotencyStore_ConcurrentReserveHasOneWinner(t *testing.T) {
	s, prefix := newTestStore(t)
	ctx := context.Background()
	key := prefix + "k3"

	const workers = 8
	results := make(chan bool, workers)
	for i := 0; i < workers; i++ {
		go func() {
			ok, _, err := s.Reserve(ctx, key)
			if err != nil {
				t.Errorf("reserve: %v", err)
			}
			results <- ok
		}()
	}

	winners := 0
	for i := 0; i < workers; i++ {
		if <-results {
			winners++
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly one reservation, got %d", winners)
	}
}
