package ratelimit

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestFixedWindow_RejectsCallOverLimit(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)
	limiter := NewFixedWindow(nil, map[string]Rule{
		"rate_limit:api_football": {Limit: 3, Window: 24 * time.Hour},
	}, Rule{})
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		permit, err := limiter.Acquire(ctx, "rate_limit:api_football")
		if err != nil {
			t.Fatalf("acquire #%d: %v", i, err)
		}
		if permit.Remaining != 3-i {
			t.Fatalf("acquire #%d remaining=%d want=%d", i, permit.Remaining, 3-i)
		}
	}

	_, err := limiter.Acquire(ctx, "rate_limit:api_football")
	if !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("expected ErrLimitExceeded, got %v", err)
	}
	var exceeded *ExceededError
	if !errors.As(err, &exceeded) {
		t.Fatalf("expected *ExceededError, got %T", err)
	}
	wantReset := time.Date(2026, 5, 11, 0, 0, 0, 0, time.UTC)
	if !exceeded.ResetAt.Equal(wantReset) {
		t.Fatalf("unexpected reset: got=%s want=%s", exceeded.ResetAt, wantReset)
	}
	if got := exceeded.RetryAfter(now); got != 16*time.Hour {
		t.Fatalf("unexpected retry after %s", got)
	}
}

func TestFixedWindow_ResetsOnNextWindow(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 10, 8, 0, 30, 0, time.UTC)
	limiter := NewFixedWindow(NewMemoryCounter(), nil, Rule{Limit: 1, Window: time.Minute})
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	if _, err := limiter.Acquire(ctx, "src"); err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	if _, err := limiter.Acquire(ctx, "src"); !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("expected second acquire to fail, got %v", err)
	}

	now = now.Add(31 * time.Second)
	if _, err := limiter.Acquire(ctx, "src"); err != nil {
		t.Fatalf("acquire in next window: %v", err)
	}
}

func TestFixedWindow_KeysAreIndependent(t *testing.T) {
	t.Parallel()

	limiter := NewFixedWindow(nil, nil, Rule{Limit: 1, Window: time.Hour})
	ctx := context.Background()

	if _, err := limiter.Acquire(ctx, "a"); err != nil {
		t.Fatalf("acquire a: %v", err)
	}
	if _, err := limiter.Acquire(ctx, "b"); err != nil {
		t.Fatalf("acquire b: %v", err)
	}
}

func TestFixedWindow_ConcurrentCallersNeverExceedLimit(t *testing.T) {
	t.Parallel()

	limiter := NewFixedWindow(nil, nil, Rule{Limit: 25, Window: time.Hour})
	ctx := context.Background()

	var granted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := limiter.Acquire(ctx, "shared"); err == nil {
				granted.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := granted.Load(); got != 25 {
		t.Fatalf("granted %d permits, want 25", got)
	}
}

func TestFixedWindow_Usage(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)
	limiter := NewFixedWindow(nil, nil, Rule{Limit: 100, Window: 24 * time.Hour})
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 40; i++ {
		if _, err := limiter.Acquire(ctx, "src"); err != nil {
			t.Fatalf("acquire: %v", err)
		}
	}

	usage, err := limiter.Usage(ctx, "src")
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if usage.Used != 40 || usage.Remaining != 60 || usage.Percentage != 40 {
		t.Fatalf("unexpected usage: %+v", usage)
	}
}

func TestFixedWindow_DisabledRuleIsUnlimited(t *testing.T) {
	t.Parallel()

	limiter := NewFixedWindow(nil, nil, Rule{})
	for i := 0; i < 10; i++ {
		permit, err := limiter.Acquire(context.Background(), "src")
		if err != nil {
			t.Fatalf("acquire: %v", err)
		}
		if permit.Remaining != -1 {
			t.Fatalf("expected unlimited permit, got %+v", permit)
		}
	}
}
