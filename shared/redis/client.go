package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Config holds Redis connection configuration
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Client wraps a go-redis client with logging
type Client struct {
	rdb    *goredis.Client
	logger *slog.Logger
}

// NewClient connects to Redis and verifies the connection
func NewClient(config *Config, logger *slog.Logger) (*Client, error) {
	logger.Info("Connecting to Redis",
		slog.String("addr", config.Addr),
		slog.Int("db", config.DB),
	)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to ping Redis",
			slog.Any("error", err),
		)
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	logger.Info("Successfully connected to Redis")
	return &Client{rdb: rdb, logger: logger}, nil
}

// GetClient returns the underlying go-redis client
func (c *Client) GetClient() *goredis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	c.logger.Info("Closing Redis connection")
	if err := c.rdb.Close(); err != nil {
		c.logger.Error("Failed to close Redis connection",
			slog.Any("error", err),
		)
		return err
	}
	return nil
}

// HealthCheck pings Redis
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}
	return nil
}
