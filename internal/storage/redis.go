// Package storage provides match persistence for RiftRewind.
package storage

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient wraps go-redis client.
// A disabled client turns every call into a no-op.
type RedisClient struct {
	client  *redis.Client
	enabled bool
}

// NewRedisClient creates a new Redis client using go-redis.
func NewRedisClient(ctx context.Context, redisURL string) *RedisClient {
	if redisURL == "" {
		log.Println("Redis not configured (REDIS_URL missing), caching disabled")
		return &RedisClient{enabled: false}
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("Failed to parse REDIS_URL: %v", err)
		return &RedisClient{enabled: false}
	}

	// Optimize for serverless
	opt.PoolSize = 5
	opt.MinIdleConns = 1
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opt)

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis connection failed: %v", err)
		client.Close()
		return &RedisClient{enabled: false}
	}

	log.Println("Redis connected successfully")
	return &RedisClient{
		client:  client,
		enabled: true,
	}
}

// Enabled reports whether the client is connected.
func (r *RedisClient) Enabled() bool {
	return r.enabled
}

// Get retrieves a value from Redis.
func (r *RedisClient) Get(ctx context.Context, key string) (string, error) {
	if !r.enabled {
		return "", nil
	}
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

// Set stores a value in Redis (no expiration).
func (r *RedisClient) Set(ctx context.Context, key string, value string) error {
	if !r.enabled {
		return nil
	}
	return r.client.Set(ctx, key, value, 0).Err()
}

// Delete removes a key from Redis.
func (r *RedisClient) Delete(ctx context.Context, key string) error {
	if !r.enabled {
		return nil
	}
	return r.client.Del(ctx, key).Err()
}

// Ping checks the connection. A disabled client is always healthy.
func (r *RedisClient) Ping(ctx context.Context) error {
	if !r.enabled {
		return nil
	}
	return r.client.Ping(ctx).Err()
}

// Close releases the connection pool.
func (r *RedisClient) Close() error {
	if !r.enabled {
		return nil
	}
	return r.client.Close()
}
