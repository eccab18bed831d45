package service

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisReservationStore claims scan tuples with SET NX so concurrent
// duplicates are resolved even across multiple API instances.
type RedisReservationStore struct {
	client *redis.Client
}

func NewRedisReservationStore(client *redis.Client) *RedisReservationStore {
	return &RedisReservationStore{client: client}
}

func (r *RedisReservationStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return r.client.SetNX(ctx, key, "1", ttl).Result()
}

func (r *RedisReservationStore) Release(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// MemoryReservationStore is the single-process fallback, mutex-guarded so
// check-and-claim stays atomic.
type MemoryReservationStore struct {
	mu     sync.Mutex
	claims map[string]time.Time
}

func NewMemoryReservationStore() *MemoryReservationStore {
	return &MemoryReservationStore{claims: make(map[string]time.Time)}
}

func (m *MemoryReservationStore) Reserve(_ context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if expiry, ok := m.claims[key]; ok && expiry.After(now) {
		return false, nil
	}
	m.claims[key] = now.Add(ttl)
	return true, nil
}

func (m *MemoryReservationStore) Release(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.claims, key)
	return nil
}
