// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// listing.go provides a Valkey-backed JSON cache for listing and stats
// responses. Per-slug post reads are never cached here because they carry
// a view-count side effect; only aggregate reads go through this layer.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// listingKeyPrefix is the Valkey key prefix for cached listings.
	listingKeyPrefix = "listing:"

	// DefaultListingTTL is how long a cached listing stays fresh between
	// invalidations.
	DefaultListingTTL = 5 * time.Minute
)

// ListingCache stores serialized JSON response bodies in Valkey.
// A nil *ListingCache is a no-op, so the app runs without Valkey.
type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListingCache creates a listing cache backed by the given Valkey client.
func NewListingCache(client *redis.Client, ttl time.Duration) *ListingCache {
	if client == nil {
		return nil
	}
	if ttl == 0 {
		ttl = DefaultListingTTL
	}
	return &ListingCache{client: client, ttl: ttl}
}

// Get retrieves a cached response body. Returns (nil, false) on miss.
func (lc *ListingCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if lc == nil {
		return nil, false
	}
	val, err := lc.client.Get(ctx, listingKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("listing cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("listing cache hit", "key", key)
	return val, true
}

// Set stores a response body with the configured TTL.
func (lc *ListingCache) Set(ctx context.Context, key string, body []byte) {
	if lc == nil {
		return
	}
	if err := lc.client.Set(ctx, listingKeyPrefix+key, body, lc.ttl).Err(); err != nil {
		slog.Warn("listing cache set error", "key", key, "error", err)
	}
}

// InvalidateAll removes every cached listing by scanning for the prefix.
// Called after post, category, and like mutations. View counts do not
// invalidate; cached listings pick them up when the TTL lapses.
func (lc *ListingCache) InvalidateAll(ctx context.Context) {
	if lc == nil {
		return
	}
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := lc.client.Scan(ctx, cursor, listingKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("listing cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := lc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("listing cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("listing cache cleared", "deleted", deleted)
	}
}
