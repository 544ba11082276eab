// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "listing:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestListingCacheRoundTrip(t *testing.T) {
	client := testValkeyClient(t)
	lc := NewListingCache(client, time.Minute)
	ctx := context.Background()

	if _, ok := lc.Get(ctx, "blogs:page=1"); ok {
		t.Error("expected miss on empty cache")
	}

	body := []byte(`{"success":true,"data":{"blogs":[]}}`)
	lc.Set(ctx, "blogs:page=1", body)

	got, ok := lc.Get(ctx, "blogs:page=1")
	if !ok {
		t.Fatal("expected hit after set")
	}
	if string(got) != string(body) {
		t.Errorf("body: got %q, want %q", got, body)
	}
}

func TestListingCacheInvalidateAll(t *testing.T) {
	client := testValkeyClient(t)
	lc := NewListingCache(client, time.Minute)
	ctx := context.Background()

	lc.Set(ctx, "blogs:page=1", []byte("a"))
	lc.Set(ctx, "stats", []byte("b"))
	lc.Set(ctx, "categories", []byte("c"))

	lc.InvalidateAll(ctx)

	for _, key := range []string{"blogs:page=1", "stats", "categories"} {
		if _, ok := lc.Get(ctx, key); ok {
			t.Errorf("key %q should be gone after invalidation", key)
		}
	}
}

func TestListingCacheNilIsNoOp(t *testing.T) {
	var lc *ListingCache
	ctx := context.Background()

	// None of these should panic.
	lc.Set(ctx, "k", []byte("v"))
	lc.InvalidateAll(ctx)
	if _, ok := lc.Get(ctx, "k"); ok {
		t.Error("nil cache should always miss")
	}
}
