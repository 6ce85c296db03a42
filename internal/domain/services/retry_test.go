package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func serializationFailure() error {
	return &pgconn.PgError{Code: "40001", Message: "could not serialize access"}
}

func TestCommitWithRetrySucceedsFirstTry(t *testing.T) {
	calls := 0
	err := commitWithRetry(context.Background(), 3, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestCommitWithRetryRecoversFromConflict(t *testing.T) {
	calls := 0
	err := commitWithRetry(context.Background(), 3, func() error {
		calls++
		if calls < 3 {
			return serializationFailure()
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestCommitWithRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	err := commitWithRetry(context.Background(), 2, func() error {
		calls++
		return serializationFailure()
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if !strings.Contains(err.Error(), "commit retries exhausted") {
		t.Errorf("error = %v", err)
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		t.Error("underlying conflict must stay wrapped in the final error")
	}
}

func TestCommitWithRetryStopsOnPermanentError(t *testing.T) {
	permanent := errors.New("constraint violation")
	calls := 0
	err := commitWithRetry(context.Background(), 5, func() error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("error = %v, want the permanent error unchanged", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry on permanent errors)", calls)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"lock not available", &pgconn.PgError{Code: "55P03"}, true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"plain error", errors.New("boom"), false},
		{"wrapped pg error", &wrappedError{inner: &pgconn.PgError{Code: "40001"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryable(tt.err); got != tt.want {
				t.Errorf("isRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

type wrappedError struct{ inner error }

func (w *wrappedError) Error() string { return "wrapped: " + w.inner.Error() }
func (w *wrappedError) Unwrap() error { return w.inner }
