package cache

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is a thin versioned cache on top of Redis.  Each domain (e.g.
// "flights", "airplanes") carries a version counter at
// "<domain>:cacheVersion"; list keys embed that version, so bumping
// the counter invalidates every cached list at once without scanning
// for keys.  Entity keys are not versioned and are deleted
// explicitly.  All methods tolerate a nil client and Redis errors by
// behaving as a miss, so the API keeps serving from MySQL when Redis
// is down.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// New returns a Store using the given client and TTL for cached
// values.  A non-positive ttl falls back to 5 minutes.
func New(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Store{rdb: rdb, ttl: ttl}
}

// Version returns the current cache version of a domain.  Missing
// counters read as version 1.
func (s *Store) Version(ctx context.Context, domain string) int64 {
	if s == nil || s.rdb == nil {
		return 1
	}
	v, err := s.rdb.Get(ctx, domain+":cacheVersion").Int64()
	if err != nil {
		return 1
	}
	return v
}

// Bump increments the domain's cache version, invalidating all list
// keys built with the previous version.  Failures only cost cache
// hits, so they are logged and swallowed.
func (s *Store) Bump(ctx context.Context, domain string) {
	if s == nil || s.rdb == nil {
		return
	}
	if err := s.rdb.Incr(ctx, domain+":cacheVersion").Err(); err != nil {
		log.Printf("cache: bump %s failed: %v", domain, err)
	}
}

// ListKey builds the cache key of a paginated list query.  The
// filter string (whatever uniquely describes the query parameters)
// is hashed so arbitrary user input never lands in the key.
func ListKey(domain string, version int64, page int, filter string) string {
	sum := sha1.Sum([]byte(filter))
	return fmt.Sprintf("%s:all:v%d:%d:%x", domain, version, page, sum[:])
}

// EntityKey builds the cache key of a single entity.
func EntityKey(domain string, id uint64) string {
	return fmt.Sprintf("%s:%d", domain, id)
}

// GetJSON loads a cached value into dest.  Returns false on miss, on
// Redis errors and on decode errors.
func (s *Store) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if s == nil || s.rdb == nil {
		return false
	}
	bs, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(bs, dest); err != nil {
		log.Printf("cache: decode %s failed: %v", key, err)
		return false
	}
	return true
}

// SetJSON stores a value under key with the store's TTL.  Encode or
// Redis errors are logged and swallowed.
func (s *Store) SetJSON(ctx context.Context, key string, v interface{}) {
	if s == nil || s.rdb == nil {
		return
	}
	bs, err := json.Marshal(v)
	if err != nil {
		log.Printf("cache: encode %s failed: %v", key, err)
		return
	}
	if err := s.rdb.SetEx(ctx, key, bs, s.ttl).Err(); err != nil {
		log.Printf("cache: set %s failed: %v", key, err)
	}
}

// Delete removes entity keys after a write so the next read
// repopulates them.
func (s *Store) Delete(ctx context.Context, keys ...string) {
	if s == nil || s.rdb == nil || len(keys) == 0 {
		return
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Printf("cache: delete failed: %v", err)
	}
}
