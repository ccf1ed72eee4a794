package config

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is a global Redis client instance; nil when REDIS_ADDR is unset.
var RedisClient *redis.Client

func InitRedis(cfg *Config) {
	if cfg.RedisAddr == "" {
		RedisClient = nil
		return
	}
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
}

// PingRedis checks the configured client. A nil client is healthy (redis is optional).
func PingRedis(ctx context.Context) error {
	if RedisClient == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return RedisClient.Ping(ctx).Err()
}
