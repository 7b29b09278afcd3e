package cache

import (
	"context"
	"time"

	"trip-sharing/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore implements Store on top of go-redis. Cache failures are
// logged and treated as misses; the services always fall back to the
// database.
type RedisStore struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisStore(config utils.RedisConfig, log *zap.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, err
	}

	return &RedisStore{
		client: client,
		log:    log.With(zap.String("component", "redis_cache")),
	}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		s.log.Warn("Cache get failed", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return val, true
}

func (s *RedisStore) Put(ctx context.Context, key string, value string, ttl time.Duration) {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		s.log.Warn("Cache put failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate deletes every key matching pattern using SCAN so large
// keyspaces do not block the server the way KEYS would.
func (s *RedisStore) Invalidate(ctx context.Context, pattern string) {
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			s.log.Warn("Cache invalidate scan failed",
				zap.String("pattern", pattern), zap.Error(err))
			return
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				s.log.Warn("Cache invalidate delete failed",
					zap.String("pattern", pattern), zap.Error(err))
				return
			}
		}
		cursor = next
		if cursor == 0 {
			return
		}
	}
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
