package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// KVStore is the single-key contract the response cache needs. Implemented
// by Redis in production and by an in-process store for Redis-less
// deployments and tests.
type KVStore interface {
	// Get returns the stored bytes and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type RedisKVStore struct {
	client *redis.Client
}

func NewRedisKVStore(client *redis.Client) *RedisKVStore {
	return &RedisKVStore{client: client}
}

func (s *RedisKVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *RedisKVStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// MemoryKVStore keeps entries in process memory with per-entry TTL.
type MemoryKVStore struct {
	store *gocache.Cache
}

func NewMemoryKVStore() *MemoryKVStore {
	return &MemoryKVStore{
		store: gocache.New(gocache.NoExpiration, time.Minute),
	}
}

func (s *MemoryKVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, found := s.store.Get(key)
	if !found {
		return nil, false, nil
	}
	return val.([]byte), true, nil
}

func (s *MemoryKVStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.store.Set(key, value, ttl)
	return nil
}
