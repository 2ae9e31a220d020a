package redis_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/rajbari-portal/internal/adapters/storage/redis"
	"github.com/PabloGalante/rajbari-portal/internal/domain"
)

// Needs a reachable server; set PORTAL_TEST_REDIS_ADDR to run.
func TestDayCacheRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	addr := os.Getenv("PORTAL_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("PORTAL_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	cache, err := redis.Dial(ctx, addr, "", 0)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer cache.Close()

	key := "market_price:" + uuid.NewString()
	if _, err := cache.Get(ctx, key); !errors.Is(err, domain.ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}

	if err := cache.Set(ctx, key, []byte(`[{"item":"চাল"}]`), time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := cache.Get(ctx, key)
	if err != nil || string(got) != `[{"item":"চাল"}]` {
		t.Fatalf("Get = %q, %v", got, err)
	}

	// An already expired entry replaces nothing and reads as a miss.
	if err := cache.Set(ctx, key, []byte("x"), time.Now().Add(-time.Second)); err != nil {
		t.Fatalf("Set expired: %v", err)
	}
	if _, err := cache.Get(ctx, key); !errors.Is(err, domain.ErrCacheMiss) {
		t.Fatalf("expected miss after expired set, got %v", err)
	}
}
