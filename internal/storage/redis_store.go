package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBackend keeps each profile in one hash. Group writes run in a
// MULTI/EXEC pipeline and every write pushes the profile's expiry forward.
type RedisBackend struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisBackend(client *redis.Client, ttl time.Duration) *RedisBackend {
	return &RedisBackend{client: client, ttl: ttl}
}

func profileHashKey(profileID string) string {
	return fmt.Sprintf("profile:%s", profileID)
}

func (b *RedisBackend) Load(ctx context.Context, profileID string, keys []string) (map[string]string, error) {
	hashKey := profileHashKey(profileID)

	if len(keys) == 0 {
		all, err := b.client.HGetAll(ctx, hashKey).Result()
		if err != nil {
			return nil, fmt.Errorf("redis hgetall failed: %w", err)
		}
		return all, nil
	}

	vals, err := b.client.HMGet(ctx, hashKey, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hmget failed: %w", err)
	}

	out := make(map[string]string, len(keys))
	for i, v := range vals {
		if s, ok := v.(string); ok {
			out[keys[i]] = s
		}
	}
	return out, nil
}

func (b *RedisBackend) Save(ctx context.Context, profileID string, set map[string]string, remove []string) error {
	hashKey := profileHashKey(profileID)

	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(set) > 0 {
			pipe.HSet(ctx, hashKey, set)
		}
		if len(remove) > 0 {
			pipe.HDel(ctx, hashKey, remove...)
		}
		if b.ttl > 0 {
			pipe.Expire(ctx, hashKey, b.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis profile write failed: %w", err)
	}
	return nil
}
