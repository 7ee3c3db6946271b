package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/sports-sync/internal/domain/match"
)

type MatchRepository struct {
	mu         sync.RWMutex
	nextID     int64
	items      map[int64]match.Match
	byExternal map[string]int64
}

func NewMatchRepository(matches []match.Match) *MatchRepository {
	r := &MatchRepository{
		items:      make(map[int64]match.Match, len(matches)),
		byExternal: make(map[string]int64, len(matches)),
	}
	for _, item := range matches {
		r.insertLocked(item)
	}
	return r
}

func (r *MatchRepository) GetByID(_ context.Context, id int64) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	return cloneMatch(item), ok, nil
}

func (r *MatchRepository) GetByExternalID(_ context.Context, externalID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byExternal[externalID]
	if !ok {
		return match.Match{}, false, nil
	}
	return cloneMatch(r.items[id]), true, nil
}

func (r *MatchRepository) ListByLeague(_ context.Context, leagueID int64, from, to time.Time) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, item := range r.items {
		if item.LeagueID != leagueID {
			continue
		}
		if !from.IsZero() && item.ScheduledAt.Before(from) {
			continue
		}
		if !to.IsZero() && !item.ScheduledAt.Before(to) {
			continue
		}
		out = append(out, cloneMatch(item))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ScheduledAt.Equal(out[j].ScheduledAt) {
			return out[i].ScheduledAt.Before(out[j].ScheduledAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *MatchRepository) Create(_ context.Context, item match.Match) (match.Match, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byExternal[item.ExternalID]; ok {
		return match.Match{}, false, nil
	}
	return cloneMatch(r.insertLocked(item)), true, nil
}

func (r *MatchRepository) Update(_ context.Context, item match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[item.ID]
	if !ok {
		return fmt.Errorf("match id=%d not found", item.ID)
	}
	item.ExternalID = stored.ExternalID
	item.CreatedAt = stored.CreatedAt
	item.UpdatedAt = time.Now().UTC()
	r.items[item.ID] = cloneMatch(item)
	return nil
}

func (r *MatchRepository) insertLocked(item match.Match) match.Match {
	r.nextID++
	if item.ID == 0 {
		item.ID = r.nextID
	} else if item.ID > r.nextID {
		r.nextID = item.ID
	}
	now := time.Now().UTC()
	item.CreatedAt, item.UpdatedAt = now, now
	item = cloneMatch(item)
	r.items[item.ID] = item
	r.byExternal[item.ExternalID] = item.ID
	return item
}

func cloneMatch(item match.Match) match.Match {
	item.HomeScore = cloneInt(item.HomeScore)
	item.AwayScore = cloneInt(item.AwayScore)
	item.HalftimeHome = cloneInt(item.HalftimeHome)
	item.HalftimeAway = cloneInt(item.HalftimeAway)
	if item.Statistics != nil {
		item.Statistics = append([]byte(nil), item.Statistics...)
	}
	return item
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
