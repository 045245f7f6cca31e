package database

import (
	"context"
	"fmt"

	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/config"

	"github.com/go-redis/redis/v8"
)

// NewRedisClient creates a Redis client and checks the connection
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis %s: %w", cfg.Addr, err)
	}
	return client, nil
}
