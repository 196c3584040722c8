// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package redis

import (
	stdctx "context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyValue is the subset of [redis.Cmdable] the cache needs.
// *redis.Client satisfies it.
type KeyValue interface {
	Get(ctx stdctx.Context, key string) *redis.StringCmd
	Set(ctx stdctx.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// JSONCache stores values of type T as JSON strings under prefix+key.
type JSONCache[T any] struct {
	client KeyValue
	prefix string
	ttl    time.Duration
}

// NewJSONCache returns a cache writing entries that expire after ttl.
// A non-positive ttl stores entries without expiry.
func NewJSONCache[T any](client KeyValue, prefix string, ttl time.Duration) *JSONCache[T] {
	if ttl < 0 {
		ttl = 0
	}
	return &JSONCache[T]{client: client, prefix: prefix, ttl: ttl}
}

// Key returns the Redis key used for id.
func (cache *JSONCache[T]) Key(id string) string {
	return cache.prefix + id
}

// Get returns the cached value for id. A miss is reported as nil, nil.
func (cache *JSONCache[T]) Get(context stdctx.Context, id string) (*T, error) {
	payload, err := cache.client.Get(context, cache.Key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis: get %s: %w", cache.Key(id), err)
	}

	var value T
	if err := json.Unmarshal(payload, &value); err != nil {
		return nil, fmt.Errorf("redis: decode %s: %w", cache.Key(id), err)
	}

	return &value, nil
}

// Set stores value under id.
func (cache *JSONCache[T]) Set(context stdctx.Context, id string, value T) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("redis: encode %s: %w", cache.Key(id), err)
	}

	if err := cache.client.Set(context, cache.Key(id), payload, cache.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", cache.Key(id), err)
	}

	return nil
}
