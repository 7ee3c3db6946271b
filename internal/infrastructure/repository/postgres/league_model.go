package postgres

import (
	"time"

	"github.com/riskibarqy/sports-sync/internal/domain/league"
)

type leagueTableModel struct {
	ID         int64     `db:"id"`
	PublicID   string    `db:"public_id"`
	SportID    int64     `db:"sport_id"`
	ExternalID string    `db:"external_id"`
	Name       string    `db:"name"`
	Country    string    `db:"country"`
	Season     string    `db:"season"`
	Tier       int       `db:"tier"`
	LogoURL    string    `db:"logo_url"`
	Type       string    `db:"type"`
	IsActive   bool      `db:"is_active"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type leagueInsertModel struct {
	PublicID   string `db:"public_id"`
	SportID    int64  `db:"sport_id"`
	ExternalID string `db:"external_id"`
	Name       string `db:"name"`
	Country    string `db:"country"`
	Season     string `db:"season"`
	Tier       int    `db:"tier"`
	LogoURL    string `db:"logo_url"`
	Type       string `db:"type"`
	IsActive   bool   `db:"is_active"`
}

func newLeagueInsertModel(item league.League) leagueInsertModel {
	return leagueInsertModel{
		PublicID:   item.PublicID,
		SportID:    item.SportID,
		ExternalID: item.ExternalID,
		Name:       item.Name,
		Country:    item.Country,
		Season:     item.Season,
		Tier:       item.Tier,
		LogoURL:    item.LogoURL,
		Type:       item.Type,
		IsActive:   item.IsActive,
	}
}

func (m leagueTableModel) toDomain() league.League {
	return league.League{
		ID:         m.ID,
		PublicID:   m.PublicID,
		SportID:    m.SportID,
		ExternalID: m.ExternalID,
		Name:       m.Name,
		Country:    m.Country,
		Season:     m.Season,
		Tier:       m.Tier,
		LogoURL:    m.LogoURL,
		Type:       m.Type,
		IsActive:   m.IsActive,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
