package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const attemptKeyPrefix = "login:failures:"

// AttemptRepository keeps failed login counters in Redis. Each counter expires
// after the lockout window measured from the first failure.
type AttemptRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewAttemptRepository constructs an attempt repository.
func NewAttemptRepository(client *redis.Client, logger *zap.Logger) *AttemptRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttemptRepository{client: client, logger: logger}
}

func attemptKey(identifier string) string {
	return attemptKeyPrefix + strings.ToLower(strings.TrimSpace(identifier))
}

// Count returns the current number of recorded failures.
func (r *AttemptRepository) Count(ctx context.Context, identifier string) (int64, error) {
	if r.client == nil {
		return 0, nil
	}
	count, err := r.client.Get(ctx, attemptKey(identifier)).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, fmt.Errorf("redis get attempts: %w", err)
	}
	return count, nil
}

// Increment records one failure and returns the new total.
func (r *AttemptRepository) Increment(ctx context.Context, identifier string, window time.Duration) (int64, error) {
	if r.client == nil {
		return 0, nil
	}
	key := attemptKey(identifier)
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("redis incr attempts: %w", err)
	}
	return incr.Val(), nil
}

// Reset clears the failure counter.
func (r *AttemptRepository) Reset(ctx context.Context, identifier string) error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Del(ctx, attemptKey(identifier)).Err(); err != nil {
		return fmt.Errorf("redis delete attempts: %w", err)
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (r *AttemptRepository) Ping(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return r.client.Ping(ctx).Err()
}

// Close releases the underlying Redis connection if present.
func (r *AttemptRepository) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
