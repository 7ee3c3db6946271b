package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/sports-sync/internal/domain/standing"
)

type standingKey struct {
	leagueID int64
	teamID   int64
}

type StandingRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  map[standingKey]standing.Standing
}

func NewStandingRepository() *StandingRepository {
	return &StandingRepository{items: make(map[standingKey]standing.Standing)}
}

func (r *StandingRepository) GetByNaturalKey(_ context.Context, leagueID, teamID int64) (standing.Standing, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[standingKey{leagueID: leagueID, teamID: teamID}]
	return item, ok, nil
}

func (r *StandingRepository) ListByLeague(_ context.Context, leagueID int64) ([]standing.Standing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]standing.Standing, 0)
	for key, item := range r.items {
		if key.leagueID == leagueID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *StandingRepository) Create(_ context.Context, item standing.Standing) (standing.Standing, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := standingKey{leagueID: item.LeagueID, teamID: item.TeamID}
	if _, ok := r.items[key]; ok {
		return standing.Standing{}, false, nil
	}
	r.nextID++
	item.ID = r.nextID
	now := time.Now().UTC()
	item.CreatedAt, item.UpdatedAt = now, now
	r.items[key] = item
	return item, true, nil
}

func (r *StandingRepository) Update(_ context.Context, item standing.Standing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := standingKey{leagueID: item.LeagueID, teamID: item.TeamID}
	stored, ok := r.items[key]
	if !ok || stored.ID != item.ID {
		return fmt.Errorf("standing id=%d not found", item.ID)
	}
	item.CreatedAt = stored.CreatedAt
	item.UpdatedAt = time.Now().UTC()
	r.items[key] = item
	return nil
}
