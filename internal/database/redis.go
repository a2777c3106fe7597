package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/pageza/feedback-desk/backend/config"
)

const pingTimeout = 5 * time.Second

// NewRedisClient connects to the Redis instance in REDIS_URL, which backs the
// shared submission rate limit.
func NewRedisClient(cfg *config.Config, logger zerolog.Logger) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is not set")
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := HealthCheck(ctx, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info().Str("addr", opts.Addr).Int("db", opts.DB).Msg("connected to Redis")
	return client, nil
}

// HealthCheck checks if Redis is reachable
func HealthCheck(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return nil
}
