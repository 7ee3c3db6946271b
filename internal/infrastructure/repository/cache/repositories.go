// Package cache decorates repositories with read-through caching of the
// lookups every sync run repeats.
package cache

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/sports-sync/internal/domain/league"
	"github.com/riskibarqy/sports-sync/internal/domain/sport"
	basecache "github.com/riskibarqy/sports-sync/internal/platform/cache"
	"github.com/riskibarqy/sports-sync/internal/platform/logging"
	"github.com/riskibarqy/sports-sync/internal/platform/resilience"
)

const DefaultTTL = 10 * time.Minute

type cachedLookup[T any] struct {
	Value  T    `json:"value"`
	Exists bool `json:"exists"`
}

// readThrough loads key from the cache, or from load on a miss. Cache
// failures fall through to load.
func readThrough[T any](
	ctx context.Context,
	store basecache.Cache,
	flight *resilience.SingleFlight[cachedLookup[T]],
	ttl time.Duration,
	key string,
	load func(context.Context) (T, bool, error),
) (T, bool, error) {
	if raw, ok, err := store.Get(ctx, key); err == nil && ok {
		var cached cachedLookup[T]
		if err := sonic.Unmarshal(raw, &cached); err == nil {
			return cached.Value, cached.Exists, nil
		}
	}

	cached, err, _ := flight.Do(key, func() (cachedLookup[T], error) {
		value, exists, err := load(ctx)
		if err != nil {
			return cachedLookup[T]{}, err
		}
		out := cachedLookup[T]{Value: value, Exists: exists}
		if raw, err := sonic.Marshal(out); err == nil {
			if err := store.Set(ctx, key, raw, ttl); err != nil {
				logging.Default().WarnContext(ctx, "repository cache set failed", "key", key, "error", err)
			}
		}
		return out, nil
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	return cached.Value, cached.Exists, nil
}

// SportRepository caches sports by id. Sports are reference data seeded by
// migrations and never written by the sync.
type SportRepository struct {
	next   sport.Repository
	store  basecache.Cache
	ttl    time.Duration
	flight resilience.SingleFlight[cachedLookup[sport.Sport]]
}

func NewSportRepository(next sport.Repository, store basecache.Cache, ttl time.Duration) *SportRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SportRepository{next: next, store: store, ttl: ttl}
}

func (r *SportRepository) GetByID(ctx context.Context, id int64) (sport.Sport, bool, error) {
	key := basecache.Key("repo", "sport", strconv.FormatInt(id, 10))
	return readThrough(ctx, r.store, &r.flight, r.ttl, key, func(ctx context.Context) (sport.Sport, bool, error) {
		return r.next.GetByID(ctx, id)
	})
}

// LeagueRepository caches the latest-season lookup by external id. Every
// write bumps a generation that is part of the key, so stale entries are
// never read again and expire on their own.
type LeagueRepository struct {
	next       league.Repository
	store      basecache.Cache
	ttl        time.Duration
	generation atomic.Uint64
	flight     resilience.SingleFlight[cachedLookup[league.League]]
}

func NewLeagueRepository(next league.Repository, store basecache.Cache, ttl time.Duration) *LeagueRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &LeagueRepository{next: next, store: store, ttl: ttl}
}

func (r *LeagueRepository) List(ctx context.Context, filter league.Filter) ([]league.League, error) {
	return r.next.List(ctx, filter)
}

func (r *LeagueRepository) GetByNaturalKey(ctx context.Context, key league.NaturalKey) (league.League, bool, error) {
	return r.next.GetByNaturalKey(ctx, key)
}

func (r *LeagueRepository) GetLatestByExternalID(ctx context.Context, externalID string) (league.League, bool, error) {
	key := basecache.Key("repo", "league", "latest", strconv.FormatUint(r.generation.Load(), 10), externalID)
	return readThrough(ctx, r.store, &r.flight, r.ttl, key, func(ctx context.Context) (league.League, bool, error) {
		return r.next.GetLatestByExternalID(ctx, externalID)
	})
}

func (r *LeagueRepository) Create(ctx context.Context, item league.League) (league.League, bool, error) {
	stored, created, err := r.next.Create(ctx, item)
	if err == nil && created {
		r.generation.Add(1)
	}
	return stored, created, err
}

func (r *LeagueRepository) Update(ctx context.Context, item league.League) error {
	if err := r.next.Update(ctx, item); err != nil {
		return err
	}
	r.generation.Add(1)
	return nil
}
