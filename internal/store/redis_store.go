package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cbydainnt/mygraduationproject/internal/domain"
)

const redisOpTimeout = time.Second

// RedisStore keeps the snapshot in redis under a fixed per-cart key. Used
// when the storefront tier is replicated and the durable cart has to follow
// the session rather than a single host's disk. Same contract as FileStore:
// unreadable data degrades to an empty cart.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Read() (domain.CartSnapshot, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.CartSnapshot{}, nil
	}
	if err != nil {
		log.Printf("cart store: redis get %s failed, starting empty: %v", s.key, err)
		return domain.CartSnapshot{}, nil
	}

	snapshot, err := decodeSnapshot(data)
	if err != nil {
		log.Printf("cart store: redis key %s is corrupt, starting empty: %v", s.key, err)
		return domain.CartSnapshot{}, nil
	}
	return snapshot, nil
}

func (s *RedisStore) Write(snapshot domain.CartSnapshot) error {
	data, err := encodeSnapshot(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	// No TTL: the cart is durable state, not a cache.
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
