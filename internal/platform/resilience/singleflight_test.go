package resilience

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_Do(t *testing.T) {
	var g SingleFlight[string]
	var counter int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			_, err, _ := g.Do("token-key", func() (string, error) {
				atomic.AddInt32(&counter, 1)
				time.Sleep(20 * time.Millisecond)
				return "ok", nil
			})
			if err != nil {
				t.Errorf("singleflight call failed: %v", err)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&counter); got != 1 {
		t.Fatalf("expected function to run once, got %d", got)
	}
}

func TestSingleFlight_RecoversPanic(t *testing.T) {
	var g SingleFlight[int]
	_, err, _ := g.Do("k", func() (int, error) {
		panic("boom")
	})
	if err == nil {
		t.Fatalf("expected panic to surface as error")
	}

	v, err, shared := g.Do("k", func() (int, error) { return 7, nil })
	if err != nil || v != 7 || shared {
		t.Fatalf("key should be reusable after panic, v=%d err=%v shared=%v", v, err, shared)
	}
}

func TestRetry_StopsOnNonRetryable(t *testing.T) {
	fatal := errors.New("fatal")
	calls := 0
	err := Retry(context.Background(), RetryPolicy{MaxAttempts: 3}, func(err error) bool {
		return !errors.Is(err, fatal)
	}, func(context.Context, int) error {
		calls++
		return fatal
	})
	if !errors.Is(err, fatal) || calls != 1 {
		t.Fatalf("expected single call with fatal error, calls=%d err=%v", calls, err)
	}
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	transient := errors.New("transient")
	var attempts []int
	err := Retry(context.Background(), RetryPolicy{MaxAttempts: 3, Backoff: time.Millisecond}, nil, func(_ context.Context, attempt int) error {
		attempts = append(attempts, attempt)
		return transient
	})
	if !errors.Is(err, transient) {
		t.Fatalf("expected last error, got %v", err)
	}
	if len(attempts) != 3 || attempts[2] != 3 {
		t.Fatalf("unexpected attempts %v", attempts)
	}
}

func TestRetry_HonorsContextDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, RetryPolicy{MaxAttempts: 5, Backoff: time.Hour}, nil, func(context.Context, int) error {
		calls++
		cancel()
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) || calls != 1 {
		t.Fatalf("expected cancellation after first call, calls=%d err=%v", calls, err)
	}
}

func TestRetryPolicy_Delay(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 3, Backoff: time.Second}
	if p.Delay(1) != time.Second || p.Delay(2) != 2*time.Second {
		t.Fatalf("unexpected delays %s %s", p.Delay(1), p.Delay(2))
	}
}
