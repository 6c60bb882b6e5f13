package progress

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Store persists XP counters. The game core only fires RoundSuccess
// events; translating them into persisted progress is owned here.
type Store interface {
	AddXP(ctx context.Context, userID string, delta int) (int, error)
	XP(ctx context.Context, userID string) (int, error)
}

// RedisStore keeps counters in Redis so progress survives restarts.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed store. Keys are prefix+userID.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(userID string) string {
	return s.prefix + userID
}

// AddXP atomically increments a user's counter and returns the new total.
func (s *RedisStore) AddXP(ctx context.Context, userID string, delta int) (int, error) {
	total, err := s.client.IncrBy(ctx, s.key(userID), int64(delta)).Result()
	if err != nil {
		return 0, err
	}
	return int(total), nil
}

// XP returns a user's total; unknown users have zero.
func (s *RedisStore) XP(ctx context.Context, userID string) (int, error) {
	total, err := s.client.Get(ctx, s.key(userID)).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return total, nil
}

// MemoryStore is the in-process fallback used in tests and when no
// REDIS_ADDR is configured.
type MemoryStore struct {
	mu sync.Mutex
	xp map[string]int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{xp: make(map[string]int)}
}

func (s *MemoryStore) AddXP(_ context.Context, userID string, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.xp[userID] += delta
	return s.xp[userID], nil
}

func (s *MemoryStore) XP(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.xp[userID], nil
}
