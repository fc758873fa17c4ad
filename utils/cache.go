package utils

import (
	"context"
	"fmt"
	"time"

	"innkeep/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CacheClient is the generic cache client. It stays nil when REDIS_ADDR is empty and callers
// fall back to the database.
var CacheClient *redis.Client

// InitCache initializes the generic Redis cache client.
func InitCache() error {
	if config.AppConfig.RedisAddr == "" {
		GetLogger().Info("Redis not configured, cache disabled")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to connect to Redis (Cache): %w", err)
	}
	CacheClient = client
	GetLogger().Info("Connected to Redis", zap.String("addr", config.AppConfig.RedisAddr))
	return nil
}

// GetCacheClient returns the generic cache client, or nil when caching is disabled.
func GetCacheClient() *redis.Client {
	return CacheClient
}

// RedisIdempotencyStore claims keys with SETNX so a repeated key is detected before any
// database work happens.
type RedisIdempotencyStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisIdempotencyStore(client *redis.Client, ttl time.Duration) *RedisIdempotencyStore {
	if ttl <= 0 {
		ttl = IdempotencyTTL
	}
	return &RedisIdempotencyStore{Client: client, TTL: ttl}
}

// Claim returns true if key was not seen before.
func (s *RedisIdempotencyStore) Claim(ctx context.Context, key string) (bool, error) {
	ok, err := s.Client.SetNX(ctx, IdempotencyPrefix+key, time.Now().Unix(), s.TTL).Result()
	if err != nil {
		return false, fmt.Errorf("claim idempotency key %s: %w", key, err)
	}
	return ok, nil
}

// Release forgets key so a failed delivery can be retried by the gateway.
func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	return s.Client.Del(ctx, IdempotencyPrefix+key).Err()
}
