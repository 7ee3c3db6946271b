package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/sports-sync/internal/domain/league"
	"github.com/riskibarqy/sports-sync/internal/domain/standing"
	"github.com/riskibarqy/sports-sync/internal/domain/team"
)

type StandingRecordView struct {
	Played         int `json:"played"`
	Won            int `json:"won"`
	Drawn          int `json:"drawn"`
	Lost           int `json:"lost"`
	GoalsFor       int `json:"goals_for"`
	GoalsAgainst   int `json:"goals_against"`
	GoalDifference int `json:"goal_difference"`
}

type StandingRow struct {
	Position        int                `json:"position"`
	TeamExternalID  string             `json:"team_external_id"`
	TeamName        string             `json:"team_name"`
	Points          int                `json:"points"`
	Form            string             `json:"form"`
	Overall         StandingRecordView `json:"overall"`
	Home            StandingRecordView `json:"home"`
	Away            StandingRecordView `json:"away"`
	SourceUpdatedAt *time.Time         `json:"source_updated_at,omitempty"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// LeagueTable is the stored table of a league's latest season.
type LeagueTable struct {
	LeagueExternalID string        `json:"league_external_id"`
	LeagueName       string        `json:"league_name"`
	Season           string        `json:"season"`
	Rows             []StandingRow `json:"rows"`
}

type StandingService struct {
	leagues   league.Repository
	teams     team.Repository
	standings standing.Repository
}

func NewStandingService(leagues league.Repository, teams team.Repository, standings standing.Repository) *StandingService {
	return &StandingService{leagues: leagues, teams: teams, standings: standings}
}

func (s *StandingService) ListByLeague(ctx context.Context, leagueExternalID string) (LeagueTable, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingService.ListByLeague")
	defer span.End()

	leagueExternalID = strings.TrimSpace(leagueExternalID)
	if leagueExternalID == "" {
		return LeagueTable{}, fmt.Errorf("%w: league external id is required", ErrInvalidInput)
	}

	lg, exists, err := s.leagues.GetLatestByExternalID(ctx, leagueExternalID)
	if err != nil {
		return LeagueTable{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return LeagueTable{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueExternalID)
	}

	items, err := s.standings.ListByLeague(ctx, lg.ID)
	if err != nil {
		return LeagueTable{}, fmt.Errorf("list league standings: %w", err)
	}
	members, err := s.teams.ListByLeague(ctx, lg.ID, lg.Season)
	if err != nil {
		return LeagueTable{}, fmt.Errorf("list league teams: %w", err)
	}
	byID := make(map[int64]team.Team, len(members))
	for _, item := range members {
		byID[item.ID] = item
	}

	out := LeagueTable{
		LeagueExternalID: lg.ExternalID,
		LeagueName:       lg.Name,
		Season:           lg.Season,
		Rows:             make([]StandingRow, 0, len(items)),
	}
	for _, item := range items {
		t := byID[item.TeamID]
		out.Rows = append(out.Rows, StandingRow{
			Position:        item.Position,
			TeamExternalID:  t.ExternalID,
			TeamName:        t.Name,
			Points:          item.Points,
			Form:            item.Form,
			Overall:         newStandingRecordView(item.Overall),
			Home:            newStandingRecordView(item.Home),
			Away:            newStandingRecordView(item.Away),
			SourceUpdatedAt: item.SourceUpdatedAt,
			UpdatedAt:       item.UpdatedAt,
		})
	}
	return out, nil
}

func newStandingRecordView(r standing.Record) StandingRecordView {
	return StandingRecordView{
		Played:         r.Played,
		Won:            r.Won,
		Drawn:          r.Drawn,
		Lost:           r.Lost,
		GoalsFor:       r.GoalsFor,
		GoalsAgainst:   r.GoalsAgainst,
		GoalDifference: r.GoalDifference(),
	}
}
