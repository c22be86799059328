package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/velorie/ticketarchive/internal/shared/config"
	"github.com/velorie/ticketarchive/internal/shared/logger"
)

// NewRedisClient creates the Redis client and checks that it answers.
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig, log logger.Interface) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.GetAddr(), err)
	}

	log.Infow("redis connection established", "addr", cfg.GetAddr(), "db", cfg.DB)
	return client, nil
}

// New picks the shared Redis limiter when a client is available and the
// in-process limiter otherwise.
func New(client *redis.Client, requestsPerMinute int) RateLimiter {
	if client != nil {
		return NewRedisRateLimiter(client, requestsPerMinute)
	}
	return NewLocalRateLimiter(requestsPerMinute)
}
