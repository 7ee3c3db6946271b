package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/sports-sync/internal/config"
	"github.com/riskibarqy/sports-sync/internal/platform/logging"
	"github.com/riskibarqy/sports-sync/internal/platform/ratelimit"
	"github.com/stretchr/testify/require"
)

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:                  config.EnvDev,
		HTTPAddr:                ":0",
		StorageDriver:           config.StorageDriverMemory,
		CacheDriver:             config.CacheDriverNone,
		RateLimitStore:          config.RateLimitStoreMemory,
		SyncProvider:            config.ProviderFootballData,
		CORSAllowedOrigins:      []string{"*"},
		AdminToken:              "secret",
		AdminRateLimitPerMinute: 10,
		FetchTimeout:            time.Second,
		FetchMaxAttempts:        1,
		FetchBackoff:            time.Millisecond,
		SyncDefaultDaysAhead:    30,
		SyncDefaultSportID:      1,
		SyncWorkers:             2,
		LeagueAliases:           map[string]string{"premier_league": "39"},
		FootballData: config.ProviderConfig{
			BaseURL:         "http://127.0.0.1:1",
			APIKey:          "token",
			RateLimitCalls:  10,
			RateLimitWindow: time.Minute,
		},
		APIFootball: config.ProviderConfig{
			RateLimitCalls:  100,
			RateLimitWindow: 24 * time.Hour,
		},
	}
}

func TestNew_MemoryStorageRegistersProvider(t *testing.T) {
	t.Parallel()

	a, err := New(context.Background(), memoryConfig(), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	sources, err := a.Sources.List(context.Background())
	require.NoError(t, err)

	var found bool
	for _, item := range sources {
		if item.Name != config.ProviderFootballData {
			continue
		}
		found = true
		require.Equal(t, 10, item.RateLimitCalls)
		require.NotNil(t, item.Usage)
		require.Equal(t, 10, item.Usage.Remaining)
	}
	require.True(t, found, "football_data source missing from registry")
}

func TestNew_HTTPServerServesHealthz(t *testing.T) {
	t.Parallel()

	a, err := New(context.Background(), memoryConfig(), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	srv, err := a.NewHTTPServer()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/admin/sources", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/leagues/39/standings", nil)
	req.Header.Set("X-Admin-Token", "secret")
	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
}

func TestScheduler_ResolvesAliases(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig()
	a := &App{Config: cfg, Logger: logging.NewNop()}

	sched, err := a.Scheduler()
	require.NoError(t, err)
	require.Nil(t, sched)

	cfg.SyncScheduleEnabled = true
	cfg.SyncScheduleInterval = time.Hour
	cfg.SyncScheduleLeagues = []string{"premier_league", "2021"}
	a.Config = cfg

	sched, err = a.Scheduler()
	require.NoError(t, err)
	require.NotNil(t, sched)
}

func TestNewLimiter(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig()
	store := &storage{}

	limiter, counters := newLimiter(cfg, store)
	require.Nil(t, counters)
	require.IsType(t, &ratelimit.TokenBucket{}, limiter)

	cfg.SyncProvider = config.ProviderAPIFootball
	limiter, counters = newLimiter(cfg, store)
	require.Nil(t, counters)
	require.IsType(t, &ratelimit.FixedWindow{}, limiter)
}

func TestNewCache(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig()
	cfg.CacheDriver = config.CacheDriverBadger
	cfg.CacheDir = t.TempDir()

	kv, err := newCache(cfg)
	require.NoError(t, err)
	require.NotNil(t, kv.badger)

	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, "leagues", []byte(`[]`), time.Minute))
	got, ok, err := kv.Get(ctx, "leagues")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "[]", string(got))
	require.NoError(t, kv.Close())
}
