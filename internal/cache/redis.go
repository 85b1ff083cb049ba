package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"newsroom_backend/internal/logger"
)

// RedisKV implements KV over a Redis client.
type RedisKV struct {
	client *redis.Client
}

// NewRedisKV connects to Redis and verifies the connection.
func NewRedisKV(addr, password string, db int) (*RedisKV, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisKV{client: client}, nil
}

func (r *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (r *RedisKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisKV) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}

	// The window starts when the counter is created.
	if count == 1 && ttl > 0 {
		if err := r.client.Expire(ctx, key, ttl).Err(); err != nil {
			return count, err
		}
	}

	return count, nil
}

func (r *RedisKV) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *RedisKV) Close() error {
	return r.client.Close()
}

// Connect returns a Redis-backed KV when addr is set and reachable,
// otherwise an in-process fallback.
func Connect(addr, password string, db int) KV {
	if addr == "" {
		logger.Info("redis not configured, using in-memory cache")
		return NewMemoryKV()
	}

	kv, err := NewRedisKV(addr, password, db)
	if err != nil {
		logger.Warn("redis unavailable, using in-memory cache", "addr", addr, "error", err.Error())
		return NewMemoryKV()
	}

	logger.Info("connected to redis", "addr", addr)
	return kv
}
