package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"errors"        // Error comparison
	"strconv"       // Key building
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// Cache is a JSON read cache in Redis. A nil *Cache, or one without a
// client, is valid and never hits.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCache wraps rdb with a default TTL
func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

func (c *Cache) enabled() bool {
	return c != nil && c.rdb != nil
}

// Get retrieves a value from Redis and unmarshals it into dest
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if !c.enabled() {
		return false, nil
	}
	val, err := c.rdb.Get(ctx, key).Bytes() // Get value from Redis
	if errors.Is(err, redis.Nil) {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false, err // Corrupt entry counts as a miss
	}
	return true, nil
}

// Set stores a value in Redis with the cache TTL
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	if !c.enabled() {
		return nil
	}
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err() // Set value in Redis with TTL
}

// Delete deletes keys from Redis
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if !c.enabled() || len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err() // Delete keys from Redis
}

// DeletePrefix removes every key starting with prefix
func (c *Cache) DeletePrefix(ctx context.Context, prefix string) error {
	if !c.enabled() {
		return nil
	}
	iter := c.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator() // Walk matching keys in batches
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return c.Delete(ctx, keys...)
}

// userPrefix is shared by every key of one user
func userPrefix(userID uint) string {
	return "user:" + strconv.FormatUint(uint64(userID), 10) + ":"
}

// VersionKey holds the per-user generation counter bumped on every write
func VersionKey(userID uint) string {
	return userPrefix(userID) + "version"
}

// AccountKey is the cache key for a user's balances at a cache version
func AccountKey(userID uint, version int64) string {
	return userPrefix(userID) + "g" + strconv.FormatInt(version, 10) + ":account"
}

// HistoryKey is the cache key for one page of a user's history at a cache version
func HistoryKey(userID uint, version int64, kind string, page, size int) string {
	return userPrefix(userID) + "g" + strconv.FormatInt(version, 10) + ":" + kind + ":page:" + strconv.Itoa(page) + ":size:" + strconv.Itoa(size)
}

// UserVersion returns the current cache version of a user. Readers must take
// it before reading the database and build their keys from it, so an entry
// filled from a read that raced a deposit lands under a retired version.
// ok is false when the cache is off or Redis fails; callers then skip caching.
func (c *Cache) UserVersion(ctx context.Context, userID uint) (version int64, ok bool) {
	if !c.enabled() {
		return 0, false
	}
	v, err := c.rdb.Get(ctx, VersionKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true // No write yet
	} else if err != nil {
		return 0, false
	}
	return v, true
}

// InvalidateUser retires every cached entry of a user by bumping its version,
// then drops the retired entries
func (c *Cache) InvalidateUser(ctx context.Context, userID uint) error {
	if !c.enabled() {
		return nil
	}
	if err := c.rdb.Incr(ctx, VersionKey(userID)).Err(); err != nil {
		return err
	}
	return c.DeletePrefix(ctx, userPrefix(userID)+"g")
}
