package resultstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"debtplan/internal/core"
)

// keyPrefix namespaces plan results inside a shared redis instance.
const keyPrefix = "debtplan:result:"

// RedisStore keeps plan results in redis so results survive worker restarts
// and are shared across worker instances.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a redis-backed result store.
func NewRedisStore(addr string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) (*core.PlanResult, bool) {
	val, err := s.client.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		return nil, false
	}
	var result core.PlanResult
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil, false
	}
	return &result, true
}

func (s *RedisStore) Set(ctx context.Context, key string, result *core.PlanResult) error {
	body, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+key, body, s.ttl).Err(); err != nil {
		return fmt.Errorf("store result: %w", err)
	}
	return nil
}

// Close releases the redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
