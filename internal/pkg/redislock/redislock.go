package redislock

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Store provides the two small coordination primitives the notification
// engine needs: a mutual-exclusion lease for the expiry sweep and a
// cool-down keyspace for notification deduplication. Both are plain
// SET NX EX operations; losing Redis degrades to at-least-once delivery,
// it never blocks dispatch.
type Store struct {
	client *redis.Client
	prefix string
}

func NewStore(client *redis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

// Connect creates a Redis client from addr and verifies it with a ping.
func Connect(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

// AcquireLease takes the named lease for ttl. Returns false when another
// holder has it.
func (s *Store) AcquireLease(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, s.prefix+":lease:"+name, 1, ttl).Result()
}

// ReleaseLease drops the named lease early.
func (s *Store) ReleaseLease(ctx context.Context, name string) error {
	return s.client.Del(ctx, s.prefix+":lease:"+name).Err()
}

// MarkOnce records key for the window and reports whether this call was the
// first within it. Subsequent calls inside the window return false.
func (s *Store) MarkOnce(ctx context.Context, key string, window time.Duration) (bool, error) {
	return s.client.SetNX(ctx, s.prefix+":dedup:"+key, 1, window).Result()
}
