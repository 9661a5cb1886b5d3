// Package session keeps track of tokens that were logged out before they expired.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

type Revoker interface {
	// Revoke marks jti as unusable until the token's own expiry.
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	Close() error
}

const keyPrefix = "stay:revoked:"

func key(jti string) string {
	return keyPrefix + jti
}

// RedisRevoker stores revoked token ids as expiring redis keys.
type RedisRevoker struct {
	client redis.UniversalClient
	now    func() time.Time
}

func NewRedisRevoker(client redis.UniversalClient) *RedisRevoker {
	return &RedisRevoker{client: client, now: time.Now}
}

// Open connects to rawURL and pings it. An empty URL yields a Noop revoker.
func Open(ctx context.Context, rawURL string, logger *slog.Logger) (Revoker, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(rawURL) == "" {
		logger.Warn("REDIS_URL not set; logout will only clear the cookie")
		return Noop{}, nil
	}

	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("session: parse redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.MaxRetries = 2

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("session: ping redis: %w", err)
	}
	logger.Info("token revocation backed by redis", "addr", opts.Addr)
	return NewRedisRevoker(client), nil
}

func (r *RedisRevoker) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if jti == "" {
		return nil
	}
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, key(jti), 1, ttl).Err()
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	err := r.client.Get(ctx, key(jti)).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	default:
		return false, err
	}
}

func (r *RedisRevoker) Close() error {
	return r.client.Close()
}

// Noop never revokes anything.
type Noop struct{}

func (Noop) Revoke(context.Context, string, time.Time) error { return nil }
func (Noop) IsRevoked(context.Context, string) (bool, error) { return false, nil }
func (Noop) Close() error                                    { return nil }
