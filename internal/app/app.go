package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/sports-sync/internal/config"
	"github.com/riskibarqy/sports-sync/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/sports-sync/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/sports-sync/internal/platform/id"
	"github.com/riskibarqy/sports-sync/internal/platform/logging"
	"github.com/riskibarqy/sports-sync/internal/platform/metrics"
	"github.com/riskibarqy/sports-sync/internal/usecase"
	"github.com/sourcegraph/conc"
)

const (
	badgerGCInterval   = 10 * time.Minute
	counterPruneEvery  = time.Hour
	counterRetainSpans = 2
)

// App holds the wired services shared by the API server and the sync CLI.
type App struct {
	Config      config.Config
	Logger      *logging.Logger
	Sync        *usecase.SyncService
	SyncLogs    *usecase.SyncLogService
	Sources     *usecase.SourceService
	Predictions *usecase.PredictionService
	Standings   *usecase.StandingService
	Provider    usecase.UsageReporter

	store    *storage
	cache    cacheStore
	counters *postgres.RateLimitCounterRepository
}

// New opens storage and the cache, builds the configured provider and
// registers it as a data source.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	kv, err := newCache(cfg)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	store, err := newStorage(ctx, cfg, kv)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}

	limiter, counters := newLimiter(cfg, store)
	client, err := newProvider(cfg, limiter, kv, logger)
	if err != nil {
		_ = kv.Close()
		_ = store.Close()
		return nil, err
	}

	ids := idgen.NewUUIDGenerator()
	predictions := usecase.NewPredictionService(store.matches, store.predictions, ids, logger)
	syncService := usecase.NewSyncService(
		client,
		usecase.SyncRepositories{
			Sports:    store.sports,
			Leagues:   store.leagues,
			Teams:     store.teams,
			Matches:   store.matches,
			Standings: store.standings,
			Logs:      store.logs,
			Sources:   store.sources,
		},
		predictions,
		ids,
		usecase.SyncConfig{
			DefaultDaysAhead: cfg.SyncDefaultDaysAhead,
			LookbackDays:     cfg.SyncLookbackDays,
		},
		logger,
	)

	a := &App{
		Config:      cfg,
		Logger:      logger,
		Sync:        syncService,
		SyncLogs:    usecase.NewSyncLogService(store.logs),
		Sources:     usecase.NewSourceService(store.sources, map[string]usecase.UsageReporter{client.Name(): client}),
		Predictions: predictions,
		Standings:   usecase.NewStandingService(store.leagues, store.teams, store.standings),
		Provider:    client,
		store:       store,
		cache:       kv,
		counters:    counters,
	}

	if err := registerProvider(ctx, cfg, syncService); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("register data source: %w", err)
	}

	logger.Info("app wired",
		"provider", client.Name(),
		"storage", cfg.StorageDriver,
		"cache", cfg.CacheDriver,
		"rate_limit_store", cfg.RateLimitStore,
	)
	return a, nil
}

// RunMaintenance blocks until ctx is done, running badger value-log GC and
// pruning stale Postgres rate limit windows.
func (a *App) RunMaintenance(ctx context.Context) {
	var wg conc.WaitGroup
	if a.cache.badger != nil {
		wg.Go(func() { a.cache.badger.RunGC(ctx, badgerGCInterval) })
	}
	if a.counters != nil {
		wg.Go(func() { a.pruneCounters(ctx) })
	}
	wg.Wait()
}

func (a *App) pruneCounters(ctx context.Context) {
	ticker := time.NewTicker(counterPruneEvery)
	defer ticker.Stop()

	retain := time.Duration(counterRetainSpans) * a.Config.ActiveProvider().RateLimitWindow
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			removed, err := a.counters.Prune(ctx, now.Add(-retain))
			if err != nil {
				a.Logger.WarnContext(ctx, "prune rate limit counters failed", "error", err)
				continue
			}
			a.Logger.DebugContext(ctx, "pruned rate limit counters", "removed", removed)
		}
	}
}

// Scheduler returns the periodic batch sync, or nil when it is disabled.
func (a *App) Scheduler() (*usecase.SyncScheduler, error) {
	if !a.Config.SyncScheduleEnabled {
		return nil, nil
	}
	leagues := make([]string, 0, len(a.Config.SyncScheduleLeagues))
	for _, item := range a.Config.SyncScheduleLeagues {
		leagues = append(leagues, a.Config.ResolveLeague(item))
	}
	return usecase.NewSyncScheduler(a.Sync, usecase.SyncScheduleConfig{
		Interval:          a.Config.SyncScheduleInterval,
		LeagueExternalIDs: leagues,
		Workers:           a.Config.SyncWorkers,
		RunOnStart:        true,
	}, a.Logger)
}

// NewHTTPServer builds the admin API server around the wired services.
func (a *App) NewHTTPServer() (*http.Server, error) {
	if a.Config.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	handler := httpapi.NewHandler(
		a.Sync,
		a.SyncLogs,
		a.Sources,
		a.Predictions,
		a.Standings,
		httpapi.HandlerDefaults{
			SportID:     a.Config.SyncDefaultSportID,
			DaysAhead:   a.Config.SyncDefaultDaysAhead,
			SyncWorkers: a.Config.SyncWorkers,
		},
		a.Logger,
	)
	router := httpapi.NewRouter(handler, a.Logger, httpapi.RouterConfig{
		SwaggerEnabled:          a.Config.SwaggerEnabled,
		CORSAllowedOrigins:      a.Config.CORSAllowedOrigins,
		AdminToken:              a.Config.AdminToken,
		AdminRateLimitPerMinute: a.Config.AdminRateLimitPerMinute,
		MetricsHandler:          metrics.Handler(),
	})

	return &http.Server{
		Addr:         a.Config.HTTPAddr,
		Handler:      router,
		ReadTimeout:  a.Config.ReadTimeout,
		WriteTimeout: a.Config.WriteTimeout,
	}, nil
}

func (a *App) Close() error {
	return errors.Join(a.cache.Close(), a.store.Close())
}
