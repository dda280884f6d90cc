// Package cache is a nil-safe Redis wrapper. When Redis is down or was never
// connected, every helper degrades to a no-op miss so callers fall through to
// the database instead of erroring.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rewearhq/rewear/config"
	"github.com/rewearhq/rewear/pkg/metrics"
)

var (
	RDB *redis.Client
	Ctx = context.Background()
)

// Connect opens the client and pings it. On failure RDB stays nil and the
// error is returned so boot can log a warning and continue without caching.
func Connect() error {
	RDB = redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
	})
	if err := RDB.Ping(Ctx).Err(); err != nil {
		RDB = nil
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	return nil
}

// Get unmarshals the value under key into dest. False means miss, including
// unreachable Redis and undecodable payloads.
func Get(key string, dest interface{}) bool {
	if RDB == nil {
		return false
	}
	raw, err := RDB.Get(Ctx, key).Bytes()
	if err != nil {
		metrics.CacheMisses.WithLabelValues("redis").Inc()
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		metrics.CacheMisses.WithLabelValues("redis").Inc()
		return false
	}
	metrics.CacheHits.WithLabelValues("redis").Inc()
	return true
}

// Set stores value as JSON under key with the given TTL.
func Set(key string, value interface{}, ttl time.Duration) error {
	if RDB == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return RDB.Set(Ctx, key, data, ttl).Err()
}

// Del drops the given keys.
func Del(keys ...string) error {
	if RDB == nil {
		return nil
	}
	return RDB.Del(Ctx, keys...).Err()
}

// Forget drops a single key; used to invalidate read-through caches after a
// write (e.g. the featured-items listing after an approval).
func Forget(key string) error {
	return Del(key)
}
