package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/sports-sync/internal/domain/team"
)

type teamKey struct {
	sportID    int64
	externalID string
}

type membershipKey struct {
	leagueID int64
	teamID   int64
	season   string
}

type TeamRepository struct {
	mu          sync.RWMutex
	nextID      int64
	items       map[int64]team.Team
	keys        map[teamKey]int64
	memberships map[membershipKey]team.Membership
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	r := &TeamRepository{
		items:       make(map[int64]team.Team, len(teams)),
		keys:        make(map[teamKey]int64, len(teams)),
		memberships: make(map[membershipKey]team.Membership),
	}
	for _, item := range teams {
		r.insertLocked(item)
	}
	return r
}

func (r *TeamRepository) GetByNaturalKey(_ context.Context, sportID int64, externalID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.keys[teamKey{sportID: sportID, externalID: externalID}]
	if !ok {
		return team.Team{}, false, nil
	}
	return r.items[id], true, nil
}

func (r *TeamRepository) ListByLeague(_ context.Context, leagueID int64, season string) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0)
	for key := range r.memberships {
		if key.leagueID != leagueID || key.season != season {
			continue
		}
		if item, ok := r.items[key.teamID]; ok {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *TeamRepository) Create(_ context.Context, item team.Team) (team.Team, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.keys[teamKey{sportID: item.SportID, externalID: item.ExternalID}]; ok {
		return team.Team{}, false, nil
	}
	return r.insertLocked(item), true, nil
}

func (r *TeamRepository) Update(_ context.Context, item team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[item.ID]
	if !ok {
		return fmt.Errorf("team id=%d not found", item.ID)
	}
	item.SportID, item.ExternalID = stored.SportID, stored.ExternalID
	item.CreatedAt = stored.CreatedAt
	item.UpdatedAt = time.Now().UTC()
	r.items[item.ID] = item
	return nil
}

func (r *TeamRepository) UpsertMembership(_ context.Context, item team.Membership) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.TeamID]; !ok {
		return false, fmt.Errorf("team id=%d not found", item.TeamID)
	}

	key := membershipKey{leagueID: item.LeagueID, teamID: item.TeamID, season: item.Season}
	existing, ok := r.memberships[key]
	changed := !ok || existing.IsCurrent != item.IsCurrent
	if item.IsCurrent {
		for other, m := range r.memberships {
			if other == key || other.teamID != key.teamID || !m.IsCurrent {
				continue
			}
			if other.leagueID == key.leagueID || (item.LeagueExternalID != "" && m.LeagueExternalID == item.LeagueExternalID) {
				m.IsCurrent = false
				r.memberships[other] = m
				changed = true
			}
		}
	}
	r.memberships[key] = item
	return changed, nil
}

// Memberships returns the team's memberships ordered by season.
func (r *TeamRepository) Memberships(teamID int64) []team.Membership {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Membership, 0)
	for key, m := range r.memberships {
		if key.teamID == teamID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Season < out[j].Season })
	return out
}

func (r *TeamRepository) insertLocked(item team.Team) team.Team {
	r.nextID++
	if item.ID == 0 {
		item.ID = r.nextID
	} else if item.ID > r.nextID {
		r.nextID = item.ID
	}
	now := time.Now().UTC()
	item.CreatedAt, item.UpdatedAt = now, now
	r.items[item.ID] = item
	r.keys[teamKey{sportID: item.SportID, externalID: item.ExternalID}] = item.ID
	return item
}
