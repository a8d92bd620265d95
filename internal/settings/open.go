package settings

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Backend names a settings storage backend
type Backend string

const (
	BackendKeyring Backend = "keyring"
	BackendRedis   Backend = "redis"
	BackendMemory  Backend = "memory"
)

// redisKeyPrefix marks settings keys in a shared Redis database; the feature prefix
// is applied by Namespace
const redisKeyPrefix = "settings"

// Options selects and configures a backend
type Options struct {
	Backend Backend
	Prefix  string
	Account string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Open initializes the configured backend and returns a Store scoped to the configured
// prefix and account
func Open(ctx context.Context, opts Options) (Store, error) {
	var inner Store
	switch opts.Backend {
	case BackendKeyring:
		s, err := OpenKeyringStore()
		if err != nil {
			return nil, fmt.Errorf("failed to open OS keyring: %w", err)
		}
		inner = s
	case BackendRedis:
		c := redis.NewClient(&redis.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
		if err := c.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.RedisAddr, err)
		}
		inner = NewRedisStore(c, redisKeyPrefix)
	case BackendMemory:
		inner = NewMemoryStore()
	default:
		return nil, fmt.Errorf("unsupported settings backend '%s'", opts.Backend)
	}
	return Namespace(inner, opts.Prefix, opts.Account), nil
}
