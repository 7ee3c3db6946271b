package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/sports-sync/external/apifootball"
	"github.com/riskibarqy/sports-sync/external/footballdata"
	"github.com/riskibarqy/sports-sync/internal/config"
	"github.com/riskibarqy/sports-sync/internal/domain/datasource"
	"github.com/riskibarqy/sports-sync/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/sports-sync/internal/platform/cache"
	"github.com/riskibarqy/sports-sync/internal/platform/logging"
	"github.com/riskibarqy/sports-sync/internal/platform/ratelimit"
	"github.com/riskibarqy/sports-sync/internal/platform/resilience"
	"github.com/riskibarqy/sports-sync/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Windows shorter than this are smoothed with a token bucket; longer ones
// are counted per calendar window.
const tokenBucketMaxWindow = time.Hour

// provider is a sync source that also reports its quota and can verify
// its credentials.
type provider interface {
	usecase.SportDataProvider
	usecase.UsageReporter
	usecase.ConnectionChecker
}

type cacheStore struct {
	cache.Cache
	badger *cache.BadgerStore
}

func newCache(cfg config.Config) (cacheStore, error) {
	switch cfg.CacheDriver {
	case config.CacheDriverNone:
		return cacheStore{Cache: cache.Noop{}}, nil
	case config.CacheDriverBadger:
		store, err := cache.OpenBadger(cfg.CacheDir)
		if err != nil {
			return cacheStore{}, err
		}
		return cacheStore{Cache: store, badger: store}, nil
	default:
		return cacheStore{Cache: cache.NewStore()}, nil
	}
}

func (c cacheStore) Close() error {
	if c.badger == nil {
		return nil
	}
	return c.badger.Close()
}

// newLimiter picks the limiter for the active provider. A shared Postgres
// counter always uses fixed windows so every process sees the same count.
func newLimiter(cfg config.Config, store *storage) (ratelimit.Limiter, *postgres.RateLimitCounterRepository) {
	active := cfg.ActiveProvider()
	rule := ratelimit.Rule{Limit: active.RateLimitCalls, Window: active.RateLimitWindow}

	if cfg.RateLimitStore == config.RateLimitStorePostgres && store.db != nil {
		counters := postgres.NewRateLimitCounterRepository(store.db)
		return ratelimit.NewFixedWindow(counters, nil, rule), counters
	}
	if rule.Window < tokenBucketMaxWindow {
		return ratelimit.NewTokenBucket(nil, rule), nil
	}
	return ratelimit.NewFixedWindow(ratelimit.NewMemoryCounter(), nil, rule), nil
}

func newProvider(cfg config.Config, limiter ratelimit.Limiter, store cache.Cache, logger *logging.Logger) (provider, error) {
	httpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   cfg.FetchTimeout,
	}
	retry := resilience.RetryPolicy{MaxAttempts: cfg.FetchMaxAttempts, Backoff: cfg.FetchBackoff}
	breaker := resilience.CircuitBreakerConfig{
		Enabled:          cfg.CircuitBreakerEnabled,
		FailureThreshold: cfg.CircuitBreakerFailureCount,
		OpenTimeout:      cfg.CircuitBreakerOpenTimeout,
		HalfOpenMaxReq:   cfg.CircuitBreakerHalfOpenMaxReq,
	}
	ttl := cache.TTLPolicy{
		Leagues:  cfg.CacheTTLLeagues,
		Teams:    cfg.CacheTTLTeams,
		Fixtures: cfg.CacheTTLFixtures,
		Detail:   cfg.CacheTTLDetail,
	}

	switch cfg.SyncProvider {
	case config.ProviderAPIFootball:
		return apifootball.NewClient(apifootball.ClientConfig{
			HTTPClient:     httpClient,
			BaseURL:        cfg.APIFootball.BaseURL,
			APIKey:         cfg.APIFootball.APIKey,
			Timeout:        cfg.FetchTimeout,
			Retry:          retry,
			Limiter:        limiter,
			Cache:          store,
			TTL:            ttl,
			CircuitBreaker: breaker,
			Logger:         logger,
		}), nil
	case config.ProviderFootballData:
		return footballdata.NewClient(footballdata.ClientConfig{
			HTTPClient:     httpClient,
			BaseURL:        cfg.FootballData.BaseURL,
			Token:          cfg.FootballData.APIKey,
			Timeout:        cfg.FetchTimeout,
			Retry:          retry,
			Limiter:        limiter,
			Cache:          store,
			TTL:            ttl,
			CircuitBreaker: breaker,
			Logger:         logger,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported sync provider %q", cfg.SyncProvider)
	}
}

// registerProvider keeps the data source row in step with the configured
// quota.
func registerProvider(ctx context.Context, cfg config.Config, svc *usecase.SyncService) error {
	active := cfg.ActiveProvider()
	return svc.RegisterSource(ctx, datasource.DataSource{
		Name:            cfg.SyncProvider,
		SourceType:      datasource.TypeFootballAPI,
		APIURL:          active.BaseURL,
		RateLimitCalls:  active.RateLimitCalls,
		RateLimitWindow: active.RateLimitWindow,
		IsActive:        true,
	})
}
