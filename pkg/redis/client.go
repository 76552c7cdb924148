package redis

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection configuration
type Config struct {
	URL      string // redis://... or rediss://... for TLS
	Password string
}

// NewClient connects to Redis and verifies the connection. Returns nil
// (no error) when no URL is configured; callers fall back to in-memory
// behavior.
func NewClient(cfg Config) (*redis.Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	opts := &redis.Options{
		Addr:     parsedURL.Host,
		Password: cfg.Password,
	}
	if parsedURL.Scheme == "rediss" {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	if pw, ok := parsedURL.User.Password(); ok && opts.Password == "" {
		opts.Password = pw
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping failed: %w", err)
	}

	return client, nil
}
