package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/sports-sync/internal/platform/cache"
	"github.com/riskibarqy/sports-sync/internal/platform/logging"
	"github.com/riskibarqy/sports-sync/internal/platform/ratelimit"
	"github.com/riskibarqy/sports-sync/internal/platform/resilience"
	"github.com/riskibarqy/sports-sync/internal/usecase"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate func(*Config)) (*Client, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	cfg := Config{
		Provider:   "test",
		BaseURL:    server.URL,
		Headers:    map[string]string{"x-apisports-key": "secret-key-123"},
		HTTPClient: server.Client(),
		Retry:      resilience.RetryPolicy{MaxAttempts: 3, Backoff: time.Millisecond},
		Cache:      cache.NewStore(),
		Logger:     logging.NewNop(),
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewClient(cfg), &calls
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("x-apisports-key") != "secret-key-123" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	_, _ = w.Write([]byte(`{"response":[]}`))
}

func TestClient_Get_CacheHitSkipsNetwork(t *testing.T) {
	t.Parallel()

	client, calls := newTestClient(t, okHandler, nil)
	req := Request{Path: "/leagues", Query: url.Values{"current": {"true"}}, TTL: time.Hour}

	for i := 0; i < 2; i++ {
		body, err := client.Get(context.Background(), req)
		if err != nil {
			t.Fatalf("get #%d: %v", i, err)
		}
		if string(body) != `{"response":[]}` {
			t.Fatalf("unexpected body %s", body)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one outbound call, got %d", calls.Load())
	}
}

func TestClient_Get_ZeroTTLAlwaysFetches(t *testing.T) {
	t.Parallel()

	client, calls := newTestClient(t, okHandler, nil)
	for i := 0; i < 2; i++ {
		if _, err := client.Get(context.Background(), Request{Path: "/leagues"}); err != nil {
			t.Fatalf("get: %v", err)
		}
	}
	if calls.Load() != 2 {
		t.Fatalf("expected two outbound calls, got %d", calls.Load())
	}
}

func TestClient_Get_RateLimitRejectsWithoutNetworkCall(t *testing.T) {
	t.Parallel()

	limiter := ratelimit.NewFixedWindow(ratelimit.NewMemoryCounter(), nil, ratelimit.Rule{Limit: 1, Window: time.Hour})
	client, calls := newTestClient(t, okHandler, func(cfg *Config) { cfg.Limiter = limiter })

	if _, err := client.Get(context.Background(), Request{Path: "/teams"}); err != nil {
		t.Fatalf("first get: %v", err)
	}
	_, err := client.Get(context.Background(), Request{Path: "/teams"})
	if !errors.Is(err, usecase.ErrRateLimitExceeded) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
	var exceeded *ratelimit.ExceededError
	if !errors.As(err, &exceeded) || exceeded.Limit != 1 {
		t.Fatalf("expected exceeded details, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("limiter must block before the network, calls=%d", calls.Load())
	}

	usage, err := client.Usage(context.Background())
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if usage.Used != 1 || usage.Remaining != 0 {
		t.Fatalf("unexpected usage: %+v", usage)
	}
}

func TestClient_Get_RetriesTransientUpToBound(t *testing.T) {
	t.Parallel()

	client, calls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}, nil)

	_, err := client.Get(context.Background(), Request{Path: "/fixtures"})
	if !errors.Is(err, usecase.ErrDataFetch) {
		t.Fatalf("expected data fetch error, got %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestClient_Get_RecoversAfterTransientFailure(t *testing.T) {
	t.Parallel()

	var failures atomic.Int32
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if failures.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		okHandler(w, r)
	}, nil)

	if _, err := client.Get(context.Background(), Request{Path: "/fixtures"}); err != nil {
		t.Fatalf("get: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls.Load())
	}
}

func TestClient_Get_NonRetryableStatus(t *testing.T) {
	t.Parallel()

	client, calls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"forbidden"}`))
	}, nil)

	_, err := client.Get(context.Background(), Request{Path: "/teams"})
	if !errors.Is(err, usecase.ErrDataFetch) {
		t.Fatalf("expected data fetch error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", calls.Load())
	}
}

func TestClient_Get_ThrottledByProvider(t *testing.T) {
	t.Parallel()

	client, calls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}, func(cfg *Config) { cfg.Retry = resilience.RetryPolicy{MaxAttempts: 2, Backoff: time.Millisecond} })

	_, err := client.Get(context.Background(), Request{Path: "/teams"})
	if !errors.Is(err, usecase.ErrRateLimitExceeded) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls.Load())
	}
}

func TestClient_Get_ValidationFailureIsNotCached(t *testing.T) {
	t.Parallel()

	client, calls := newTestClient(t, okHandler, nil)
	invalid := errors.New("bad envelope")
	req := Request{
		Path:     "/leagues",
		TTL:      time.Hour,
		Validate: func([]byte) error { return invalid },
	}

	for i := 0; i < 2; i++ {
		if _, err := client.Get(context.Background(), req); !errors.Is(err, invalid) {
			t.Fatalf("expected validation error, got %v", err)
		}
	}
	if calls.Load() != 2 {
		t.Fatalf("invalid payloads must not be cached, calls=%d", calls.Load())
	}
}

func TestClient_Get_BreakerOpensAfterFailures(t *testing.T) {
	t.Parallel()

	client, calls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, func(cfg *Config) {
		cfg.Retry = resilience.RetryPolicy{MaxAttempts: 1}
		cfg.CircuitBreaker = resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		}
	})

	for i := 0; i < 2; i++ {
		_, _ = client.Get(context.Background(), Request{Path: "/fixtures"})
	}
	if client.BreakerState() != resilience.CircuitStateOpen {
		t.Fatalf("expected open breaker, got %s", client.BreakerState())
	}

	_, err := client.Get(context.Background(), Request{Path: "/fixtures"})
	if !errors.Is(err, usecase.ErrDependencyUnavailable) || !errors.Is(err, usecase.ErrDataFetch) {
		t.Fatalf("expected dependency unavailable, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("open breaker must not call the provider, calls=%d", calls.Load())
	}
}

func TestClient_BuildURL(t *testing.T) {
	t.Parallel()

	client := NewClient(Config{Provider: "p", BaseURL: "https://example.test/v3/"})
	if got := client.buildURL("fixtures", "league=39"); got != "https://example.test/v3/fixtures?league=39" {
		t.Fatalf("unexpected url %s", got)
	}
	if got := client.buildURL("/leagues", ""); got != "https://example.test/v3/leagues" {
		t.Fatalf("unexpected url %s", got)
	}
}
