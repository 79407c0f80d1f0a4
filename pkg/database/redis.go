package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Host        string        `env:"HOST" envDefault:"localhost"`
	Port        int           `env:"PORT" envDefault:"6379"`
	Password    string        `env:"PASSWORD"`
	DB          int           `env:"DB" envDefault:"0"`
	DialTimeout time.Duration `env:"DIAL_TIMEOUT" envDefault:"5s"`
	PoolSize    int           `env:"POOL_SIZE" envDefault:"10"`
}

// DefaultRedisConfig returns sensible defaults for Redis.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Host:        "localhost",
		Port:        6379,
		DialTimeout: 5 * time.Second,
		PoolSize:    10,
	}
}

// Addr returns the Redis address string.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Options converts the config into go-redis options.
func (c RedisConfig) Options() *redis.Options {
	return &redis.Options{
		Addr:        c.Addr(),
		Password:    c.Password,
		DB:          c.DB,
		DialTimeout: c.DialTimeout,
		PoolSize:    c.PoolSize,
	}
}

// NewRedisClient creates a new Redis client and verifies the connection.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(cfg.Options())

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", cfg.Addr(), err)
	}

	return client, nil
}

// RedisCheck returns a readiness probe for the client.
func RedisCheck(client redis.UniversalClient) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
