package postgres

import (
	"time"

	"github.com/riskibarqy/sports-sync/internal/domain/team"
)

type teamTableModel struct {
	ID            int64     `db:"id"`
	PublicID      string    `db:"public_id"`
	SportID       int64     `db:"sport_id"`
	ExternalID    string    `db:"external_id"`
	Name          string    `db:"name"`
	Code          string    `db:"code"`
	Country       string    `db:"country"`
	FoundedYear   *int      `db:"founded_year"`
	LogoURL       string    `db:"logo_url"`
	Venue         string    `db:"venue"`
	VenueCity     string    `db:"venue_city"`
	VenueCapacity *int      `db:"venue_capacity"`
	IsActive      bool      `db:"is_active"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type teamInsertModel struct {
	PublicID      string `db:"public_id"`
	SportID       int64  `db:"sport_id"`
	ExternalID    string `db:"external_id"`
	Name          string `db:"name"`
	Code          string `db:"code"`
	Country       string `db:"country"`
	FoundedYear   *int   `db:"founded_year"`
	LogoURL       string `db:"logo_url"`
	Venue         string `db:"venue"`
	VenueCity     string `db:"venue_city"`
	VenueCapacity *int   `db:"venue_capacity"`
	IsActive      bool   `db:"is_active"`
}

type membershipInsertModel struct {
	LeagueID  int64  `db:"league_id"`
	TeamID    int64  `db:"team_id"`
	Season    string `db:"season"`
	IsCurrent bool   `db:"is_current"`
}

func newTeamInsertModel(item team.Team) teamInsertModel {
	return teamInsertModel{
		PublicID:      item.PublicID,
		SportID:       item.SportID,
		ExternalID:    item.ExternalID,
		Name:          item.Name,
		Code:          item.Code,
		Country:       item.Country,
		FoundedYear:   item.FoundedYear,
		LogoURL:       item.LogoURL,
		Venue:         item.Venue,
		VenueCity:     item.VenueCity,
		VenueCapacity: item.VenueCapacity,
		IsActive:      item.IsActive,
	}
}

func (m teamTableModel) toDomain() team.Team {
	return team.Team{
		ID:            m.ID,
		PublicID:      m.PublicID,
		SportID:       m.SportID,
		ExternalID:    m.ExternalID,
		Name:          m.Name,
		Code:          m.Code,
		Country:       m.Country,
		FoundedYear:   m.FoundedYear,
		LogoURL:       m.LogoURL,
		Venue:         m.Venue,
		VenueCity:     m.VenueCity,
		VenueCapacity: m.VenueCapacity,
		IsActive:      m.IsActive,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
