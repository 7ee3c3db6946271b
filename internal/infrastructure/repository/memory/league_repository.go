package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/sports-sync/internal/domain/league"
)

type LeagueRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]league.League
	keys   map[league.NaturalKey]int64
}

func NewLeagueRepository(leagues []league.League) *LeagueRepository {
	r := &LeagueRepository{
		items: make(map[int64]league.League, len(leagues)),
		keys:  make(map[league.NaturalKey]int64, len(leagues)),
	}
	for _, l := range leagues {
		r.insertLocked(l)
	}
	return r
}

func (r *LeagueRepository) List(_ context.Context, filter league.Filter) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0, len(r.items))
	for _, l := range r.items {
		if filter.SportID > 0 && l.SportID != filter.SportID {
			continue
		}
		if filter.ActiveOnly && !l.IsActive {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *LeagueRepository) GetByNaturalKey(_ context.Context, key league.NaturalKey) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.keys[key]
	if !ok {
		return league.League{}, false, nil
	}
	return r.items[id], true, nil
}

func (r *LeagueRepository) GetLatestByExternalID(_ context.Context, externalID string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		best  league.League
		found bool
	)
	for _, l := range r.items {
		if l.ExternalID != externalID || !l.IsActive {
			continue
		}
		if !found || l.Season > best.Season || (l.Season == best.Season && l.ID > best.ID) {
			best, found = l, true
		}
	}
	return best, found, nil
}

func (r *LeagueRepository) Create(_ context.Context, item league.League) (league.League, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.keys[item.Key()]; ok {
		return league.League{}, false, nil
	}
	return r.insertLocked(item), true, nil
}

func (r *LeagueRepository) Update(_ context.Context, item league.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[item.ID]
	if !ok {
		return fmt.Errorf("league id=%d not found", item.ID)
	}
	item.CreatedAt = stored.CreatedAt
	item.UpdatedAt = time.Now().UTC()
	delete(r.keys, stored.Key())
	r.items[item.ID] = item
	r.keys[item.Key()] = item.ID
	return nil
}

func (r *LeagueRepository) insertLocked(item league.League) league.League {
	r.nextID++
	if item.ID == 0 {
		item.ID = r.nextID
	} else if item.ID > r.nextID {
		r.nextID = item.ID
	}
	now := time.Now().UTC()
	item.CreatedAt, item.UpdatedAt = now, now
	r.items[item.ID] = item
	r.keys[item.Key()] = item.ID
	return item
}
