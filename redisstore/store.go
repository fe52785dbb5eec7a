package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps every transport-level Redis failure surfaced by
// this package.
var ErrRedisUnavailable = errors.New("redis unavailable")

// ErrCounterCorrupt is returned when a counter key holds a non-integer value.
var ErrCounterCorrupt = errors.New("counter value corrupt")

// DefaultPrefix namespaces counter keys when no prefix is configured.
const DefaultPrefix = "na"

const clearScanBatch = 1000

// Store is a Redis adapter implementing both nonceauth store capabilities
// over one client. All methods are safe for concurrent use; atomicity of
// Increment is inherited from Redis INCR.
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// New returns a [Store] over client. prefix namespaces every key; the empty
// string selects [DefaultPrefix].
func New(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{
		redis:  client,
		prefix: prefix,
	}
}

func (s *Store) key(name string) string {
	return s.prefix + ":" + name
}

// Increment atomically increments the named counter, creating it at 0 first
// if absent, and returns the new value.
//
//	Performance: 1 Redis INCR.
func (s *Store) Increment(ctx context.Context, name string) (int64, error) {
	v, err := s.redis.Incr(ctx, s.key(name)).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return v, nil
}

// Get reads the named counter. An absent key reports (0, false, nil): absence
// is the "never incremented" state, not an error.
//
//	Performance: 1 Redis GET.
func (s *Store) Get(ctx context.Context, name string) (int64, bool, error) {
	v, err := s.redis.Get(ctx, s.key(name)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		if isParseError(err) {
			return 0, false, fmt.Errorf("%w: key %q", ErrCounterCorrupt, name)
		}
		return 0, false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return v, true, nil
}

// Put overwrites the named counter.
func (s *Store) Put(ctx context.Context, name string, value int64) error {
	if err := s.redis.Set(ctx, s.key(name), value, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Remove deletes the named counter. Deleting an absent counter succeeds.
func (s *Store) Remove(ctx context.Context, name string) error {
	if err := s.redis.Del(ctx, s.key(name)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Clear deletes every key under the store's prefix. This is an admin-only
// O(n) operation and must not be used in request hot paths.
func (s *Store) Clear(ctx context.Context) error {
	pattern := s.prefix + ":*"
	var cursor uint64

	for {
		keys, next, err := s.redis.Scan(ctx, cursor, pattern, clearScanBatch).Result()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
		if len(keys) > 0 {
			if err := s.redis.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// Ping returns a point-in-time Redis availability check and latency.
func (s *Store) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return time.Since(start), nil
}

// isParseError matches the strconv failure go-redis returns when a key holds
// a value Int64 cannot parse.
func isParseError(err error) bool {
	var numErr *strconv.NumError
	return errors.As(err, &numErr)
}
