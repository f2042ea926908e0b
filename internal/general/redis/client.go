package redis

import (
	"context"
	"fmt"

	"school-bus/internal/general/config"
	"school-bus/internal/general/logger"

	"github.com/go-redis/redis/v8"
)

// Connect opens a Redis client and verifies the connection with a ping.
func Connect(ctx context.Context, cfg *config.Config, log *logger.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		DB:   cfg.Redis.DB,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info(ctx, "redis_connected", "Redis connection established successfully", map[string]any{
		"host": cfg.Redis.Host,
		"port": cfg.Redis.Port,
	})

	return client, nil
}
