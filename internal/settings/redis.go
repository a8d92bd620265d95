package settings

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps settings as plain string keys in Redis, so that several processes
// can share a linked account
type RedisStore struct {
	redis  redis.UniversalClient
	prefix string
}

func NewRedisStore(redisClient redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "settings"
	}
	return &RedisStore{
		redis:  redisClient,
		prefix: prefix,
	}
}

func (s *RedisStore) key(k string) string {
	return s.prefix + ":" + k
}

func (s *RedisStore) GetString(ctx context.Context, key string) (string, error) {
	value, err := s.redis.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

func (s *RedisStore) SetString(ctx context.Context, key, value string) error {
	return s.redis.Set(ctx, s.key(key), value, 0).Err()
}
