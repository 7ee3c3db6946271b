package postgres

import (
	"time"

	"github.com/riskibarqy/sports-sync/internal/domain/standing"
)

type standingTableModel struct {
	ID               int64      `db:"id"`
	LeagueID         int64      `db:"league_id"`
	TeamID           int64      `db:"team_id"`
	Season           string     `db:"season"`
	Position         int        `db:"position"`
	Points           int        `db:"points"`
	Form             string     `db:"form"`
	Played           int        `db:"played"`
	Won              int        `db:"won"`
	Drawn            int        `db:"drawn"`
	Lost             int        `db:"lost"`
	GoalsFor         int        `db:"goals_for"`
	GoalsAgainst     int        `db:"goals_against"`
	HomePlayed       int        `db:"home_played"`
	HomeWon          int        `db:"home_won"`
	HomeDrawn        int        `db:"home_drawn"`
	HomeLost         int        `db:"home_lost"`
	HomeGoalsFor     int        `db:"home_goals_for"`
	HomeGoalsAgainst int        `db:"home_goals_against"`
	AwayPlayed       int        `db:"away_played"`
	AwayWon          int        `db:"away_won"`
	AwayDrawn        int        `db:"away_drawn"`
	AwayLost         int        `db:"away_lost"`
	AwayGoalsFor     int        `db:"away_goals_for"`
	AwayGoalsAgainst int        `db:"away_goals_against"`
	SourceUpdatedAt  *time.Time `db:"source_updated_at"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
}

type standingInsertModel struct {
	LeagueID         int64      `db:"league_id"`
	TeamID           int64      `db:"team_id"`
	Season           string     `db:"season"`
	Position         int        `db:"position"`
	Points           int        `db:"points"`
	Form             string     `db:"form"`
	Played           int        `db:"played"`
	Won              int        `db:"won"`
	Drawn            int        `db:"drawn"`
	Lost             int        `db:"lost"`
	GoalsFor         int        `db:"goals_for"`
	GoalsAgainst     int        `db:"goals_against"`
	HomePlayed       int        `db:"home_played"`
	HomeWon          int        `db:"home_won"`
	HomeDrawn        int        `db:"home_drawn"`
	HomeLost         int        `db:"home_lost"`
	HomeGoalsFor     int        `db:"home_goals_for"`
	HomeGoalsAgainst int        `db:"home_goals_against"`
	AwayPlayed       int        `db:"away_played"`
	AwayWon          int        `db:"away_won"`
	AwayDrawn        int        `db:"away_drawn"`
	AwayLost         int        `db:"away_lost"`
	AwayGoalsFor     int        `db:"away_goals_for"`
	AwayGoalsAgainst int        `db:"away_goals_against"`
	SourceUpdatedAt  *time.Time `db:"source_updated_at"`
}

// standingUpdateModel rewrites every source-owned column; the natural key
// stays fixed.
type standingUpdateModel struct {
	standingInsertModel
	UpdatedAt time.Time `db:"updated_at"`
}

func newStandingInsertModel(item standing.Standing) standingInsertModel {
	return standingInsertModel{
		LeagueID:         item.LeagueID,
		TeamID:           item.TeamID,
		Season:           item.Season,
		Position:         item.Position,
		Points:           item.Points,
		Form:             item.Form,
		Played:           item.Overall.Played,
		Won:              item.Overall.Won,
		Drawn:            item.Overall.Drawn,
		Lost:             item.Overall.Lost,
		GoalsFor:         item.Overall.GoalsFor,
		GoalsAgainst:     item.Overall.GoalsAgainst,
		HomePlayed:       item.Home.Played,
		HomeWon:          item.Home.Won,
		HomeDrawn:        item.Home.Drawn,
		HomeLost:         item.Home.Lost,
		HomeGoalsFor:     item.Home.GoalsFor,
		HomeGoalsAgainst: item.Home.GoalsAgainst,
		AwayPlayed:       item.Away.Played,
		AwayWon:          item.Away.Won,
		AwayDrawn:        item.Away.Drawn,
		AwayLost:         item.Away.Lost,
		AwayGoalsFor:     item.Away.GoalsFor,
		AwayGoalsAgainst: item.Away.GoalsAgainst,
		SourceUpdatedAt:  nullableTime(item.SourceUpdatedAt),
	}
}

func (m standingTableModel) toDomain() standing.Standing {
	return standing.Standing{
		ID:       m.ID,
		LeagueID: m.LeagueID,
		TeamID:   m.TeamID,
		Season:   m.Season,
		Position: m.Position,
		Points:   m.Points,
		Form:     m.Form,
		Overall: standing.Record{
			Played: m.Played, Won: m.Won, Drawn: m.Drawn, Lost: m.Lost,
			GoalsFor: m.GoalsFor, GoalsAgainst: m.GoalsAgainst,
		},
		Home: standing.Record{
			Played: m.HomePlayed, Won: m.HomeWon, Drawn: m.HomeDrawn, Lost: m.HomeLost,
			GoalsFor: m.HomeGoalsFor, GoalsAgainst: m.HomeGoalsAgainst,
		},
		Away: standing.Record{
			Played: m.AwayPlayed, Won: m.AwayWon, Drawn: m.AwayDrawn, Lost: m.AwayLost,
			GoalsFor: m.AwayGoalsFor, GoalsAgainst: m.AwayGoalsAgainst,
		},
		SourceUpdatedAt: nullableTime(m.SourceUpdatedAt),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
