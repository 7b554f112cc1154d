package redisclient

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Config holds connection settings for the shared redis instance
type Config struct {
	Addr     string `yaml:"addr" env:"ADDR"`
	Password string `yaml:"password" env:"PASSWORD"`
	DB       int    `yaml:"db" env:"DB" env-default:"0"`
}

// Enabled reports whether a redis address was configured at all
func (c Config) Enabled() bool {
	return c.Addr != ""
}

// New creates a redis client and pings it once so a bad config fails fast
func New(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("couldn't ping redis: %w", err)
	}

	return client, nil
}
