package config

import (
	"context"
	"time"

	"inventory-billing/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ConnectRedis returns nil when Redis is not configured or unreachable; the
// service then runs without a product cache and with in-process token revocation.
func ConnectRedis(ctx context.Context, cfg *Config) *redis.Client {
	var opt *redis.Options
	if cfg.RedisURL != "" {
		parsed, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Log.Warn("Failed to parse Redis URL, running without cache", zap.Error(err))
			return nil
		}
		opt = parsed
	} else {
		opt = &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		}
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Log.Warn("Redis connection failed, running without cache", zap.Error(err))
		_ = client.Close()
		return nil
	}

	logger.Log.Info("Redis connected", zap.String("addr", opt.Addr))
	return client
}
