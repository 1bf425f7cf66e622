package retrylimit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"quranbot/pkg/retrylimit"
)

func fastConfig(attempts int) retrylimit.RetryConfig {
	return retrylimit.RetryConfig{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestWithRetrySucceedsAfterFailures(t *testing.T) {
	t.Parallel()

	calls := 0
	err := retrylimit.WithRetryConfig(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, nil, fastConfig(5))

	if err != nil {
		t.Fatalf("WithRetryConfig() error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	calls := 0
	err := retrylimit.WithRetryConfig(context.Background(), func() error {
		calls++
		return boom
	}, nil, fastConfig(3))

	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want wrapped boom", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestWithRetryStopsOnFatal(t *testing.T) {
	t.Parallel()

	calls := 0
	fatal := &retrylimit.FatalError{Err: errors.New("not found")}
	err := retrylimit.WithRetryConfig(context.Background(), func() error {
		calls++
		return fatal
	}, nil, fastConfig(5))

	var got *retrylimit.FatalError
	if !errors.As(err, &got) {
		t.Fatalf("error = %v, want FatalError", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry on fatal)", calls)
	}
}

func TestWithRetryHonorsContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := retrylimit.WithRetryConfig(ctx, func() error {
		calls++
		return errors.New("transient")
	}, nil, fastConfig(5))

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if calls != 0 {
		t.Errorf("calls = %d, want 0 with pre-cancelled context", calls)
	}
}

func TestAdaptiveLimiterAdjusts(t *testing.T) {
	t.Parallel()

	lim := retrylimit.NewAdaptiveLimiter(5, 1, 10, 1, 0.5)

	lim.Failure()
	if got := lim.CurrentLimit(); got != 2.5 {
		t.Errorf("limit after failure = %v, want 2.5", got)
	}
	lim.Failure()
	lim.Failure()
	lim.Failure()
	if got := lim.CurrentLimit(); got != 1 {
		t.Errorf("limit should clamp at min 1, got %v", got)
	}
}
