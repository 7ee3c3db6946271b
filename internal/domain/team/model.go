package team

import (
	"fmt"
	"strings"
	"time"
)

// Team is a club. One team row is shared by every league it plays in.
type Team struct {
	ID            int64
	PublicID      string
	SportID       int64
	ExternalID    string
	Name          string
	Code          string
	Country       string
	FoundedYear   *int
	LogoURL       string
	Venue         string
	VenueCity     string
	VenueCapacity *int
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (t Team) Validate() error {
	if t.SportID <= 0 {
		return fmt.Errorf("team sport id is required")
	}
	if strings.TrimSpace(t.ExternalID) == "" {
		return fmt.Errorf("team external id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}
	if t.FoundedYear != nil && *t.FoundedYear <= 0 {
		return fmt.Errorf("team founded year must be > 0")
	}
	if t.VenueCapacity != nil && *t.VenueCapacity < 0 {
		return fmt.Errorf("team venue capacity must be >= 0")
	}
	return nil
}

// Membership links a team to a league for one season.
type Membership struct {
	LeagueID int64
	// LeagueExternalID groups the per-season league rows of one competition.
	LeagueExternalID string
	TeamID           int64
	Season           string
	IsCurrent        bool
}
