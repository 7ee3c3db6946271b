package postgres

import (
	"time"

	"github.com/riskibarqy/sports-sync/internal/domain/match"
)

type matchTableModel struct {
	ID           int64     `db:"id"`
	PublicID     string    `db:"public_id"`
	ExternalID   string    `db:"external_id"`
	SportID      int64     `db:"sport_id"`
	LeagueID     int64     `db:"league_id"`
	HomeTeamID   int64     `db:"home_team_id"`
	AwayTeamID   int64     `db:"away_team_id"`
	ScheduledAt  time.Time `db:"scheduled_at"`
	Status       string    `db:"status"`
	HomeScore    *int      `db:"home_score"`
	AwayScore    *int      `db:"away_score"`
	HalftimeHome *int      `db:"halftime_home"`
	HalftimeAway *int      `db:"halftime_away"`
	Venue        string    `db:"venue"`
	Referee      string    `db:"referee"`
	Round        string    `db:"round"`
	Statistics   *string   `db:"statistics"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type matchInsertModel struct {
	PublicID     string    `db:"public_id"`
	ExternalID   string    `db:"external_id"`
	SportID      int64     `db:"sport_id"`
	LeagueID     int64     `db:"league_id"`
	HomeTeamID   int64     `db:"home_team_id"`
	AwayTeamID   int64     `db:"away_team_id"`
	ScheduledAt  time.Time `db:"scheduled_at"`
	Status       string    `db:"status"`
	HomeScore    *int      `db:"home_score"`
	AwayScore    *int      `db:"away_score"`
	HalftimeHome *int      `db:"halftime_home"`
	HalftimeAway *int      `db:"halftime_away"`
	Venue        string    `db:"venue"`
	Referee      string    `db:"referee"`
	Round        string    `db:"round"`
	Statistics   *string   `db:"statistics"`
}

func newMatchInsertModel(item match.Match) matchInsertModel {
	return matchInsertModel{
		PublicID:     item.PublicID,
		ExternalID:   item.ExternalID,
		SportID:      item.SportID,
		LeagueID:     item.LeagueID,
		HomeTeamID:   item.HomeTeamID,
		AwayTeamID:   item.AwayTeamID,
		ScheduledAt:  item.ScheduledAt.UTC(),
		Status:       item.Status,
		HomeScore:    item.HomeScore,
		AwayScore:    item.AwayScore,
		HalftimeHome: item.HalftimeHome,
		HalftimeAway: item.HalftimeAway,
		Venue:        item.Venue,
		Referee:      item.Referee,
		Round:        item.Round,
		Statistics:   nullableJSON(item.Statistics),
	}
}

func (m matchTableModel) toDomain() match.Match {
	return match.Match{
		ID:           m.ID,
		PublicID:     m.PublicID,
		ExternalID:   m.ExternalID,
		SportID:      m.SportID,
		LeagueID:     m.LeagueID,
		HomeTeamID:   m.HomeTeamID,
		AwayTeamID:   m.AwayTeamID,
		ScheduledAt:  m.ScheduledAt.UTC(),
		Status:       m.Status,
		HomeScore:    m.HomeScore,
		AwayScore:    m.AwayScore,
		HalftimeHome: m.HalftimeHome,
		HalftimeAway: m.HalftimeAway,
		Venue:        m.Venue,
		Referee:      m.Referee,
		Round:        m.Round,
		Statistics:   jsonBytes(m.Statistics),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
