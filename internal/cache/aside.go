package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"bookshelf/internal/observability"

	"github.com/redis/go-redis/v9"
)

// keyClass keeps metric cardinality bounded: "profile:alice" counts as "profile".
func keyClass(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}

// GetJSON fetches key and unmarshals it into dest. Returns false on a miss,
// a decode failure or when no cache is configured.
func GetJSON(ctx context.Context, key string, dest any) bool {
	if client == nil {
		return false
	}
	raw, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		observability.CacheRequestsTotal.WithLabelValues(keyClass(key), "miss").Inc()
		return false
	}
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		// Stale or corrupt entry; drop it so the next write refreshes it.
		client.Del(ctx, key)
		return false
	}
	observability.CacheRequestsTotal.WithLabelValues(keyClass(key), "hit").Inc()
	return true
}

// SetJSON marshals value and stores it under key with the given TTL.
// Failures are silent; the cache is best effort.
func SetJSON(ctx context.Context, key string, value any, ttl time.Duration) {
	if client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	client.Set(ctx, key, raw, ttl)
}

// Aside implements the cache-aside pattern: return the cached value when
// present, otherwise load, store and return it.
func Aside[T any](ctx context.Context, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var cached T
	if GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	SetJSON(ctx, key, value, ttl)
	return value, nil
}
