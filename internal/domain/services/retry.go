package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	defaultCommitRetries = 3
	initialBackoff       = 100 * time.Millisecond
)

// commitWithRetry runs fn up to attempts times, backing off
// exponentially between tries. Only transient contention failures are
// retried; anything else surfaces immediately. The caller must keep
// provider calls outside fn so a retry never repeats them.
func commitWithRetry(ctx context.Context, attempts int, fn func() error) error {
	if attempts <= 0 {
		attempts = defaultCommitRetries
	}

	var err error
	backoff := initialBackoff
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return fmt.Errorf("commit retries exhausted after %d attempts: %w", attempts, err)
}

// isRetryable reports whether an error is a transient write conflict
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "40001", // serialization_failure
		"40P01", // deadlock_detected
		"55P03": // lock_not_available
		return true
	}
	return false
}
