package quota

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore is the shared-store backend SPEC_FULL.md §4.3 invites for
// multi-process deployments. Keys are namespaced the same way
// original_source/core/quota_manager.py names them: "quota:<provider>:<model>:<period>".
type RedisStore struct {
	client *redis.Client
	// Increment also records each key in a per-period Redis set (named by
	// periodIndexKey) so ResetPeriod can target a period's keys without a
	// Redis SCAN per reset; Redis has no native secondary index.
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func periodIndexKey(period Period) string {
	return fmt.Sprintf("quota-index:%s", period)
}

func (s *RedisStore) Increment(ctx context.Context, key CounterKey, n int64) (int64, error) {
	pipe := s.client.TxPipeline()
	incr := pipe.IncrBy(ctx, key.String(), n)
	pipe.SAdd(ctx, periodIndexKey(key.Period), key.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("quota: redis increment %s: %w", key, err)
	}
	return incr.Val(), nil
}

func (s *RedisStore) Get(ctx context.Context, key CounterKey) (int64, error) {
	v, err := s.client.Get(ctx, key.String()).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("quota: redis get %s: %w", key, err)
	}
	return v, nil
}

func (s *RedisStore) ResetPeriod(ctx context.Context, period Period) error {
	members, err := s.client.SMembers(ctx, periodIndexKey(period)).Result()
	if err != nil {
		return fmt.Errorf("quota: redis list index for %s: %w", period, err)
	}
	if len(members) == 0 {
		return nil
	}
	pipe := s.client.TxPipeline()
	for _, m := range members {
		pipe.Set(ctx, m, 0, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("quota: redis reset %s: %w", period, err)
	}
	return nil
}
