package league

import (
	"fmt"
	"strings"
	"time"
)

// League is one season of a competition as published by a provider.
type League struct {
	ID         int64
	PublicID   string
	SportID    int64
	ExternalID string
	Name       string
	Country    string
	Season     string
	Tier       int
	LogoURL    string
	Type       string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NaturalKey identifies a league across sync runs.
type NaturalKey struct {
	SportID    int64
	ExternalID string
	Season     string
}

func (l League) Key() NaturalKey {
	return NaturalKey{SportID: l.SportID, ExternalID: l.ExternalID, Season: l.Season}
}

func (l League) Validate() error {
	if l.SportID <= 0 {
		return fmt.Errorf("league sport id is required")
	}
	if strings.TrimSpace(l.ExternalID) == "" {
		return fmt.Errorf("league external id is required")
	}
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("league name is required")
	}
	if l.Tier < 0 {
		return fmt.Errorf("league tier must be >= 0")
	}
	return nil
}

// Slug is the display slug: lowercase name with spaces and slashes as dashes.
func (l League) Slug() string {
	slug := strings.ToLower(strings.TrimSpace(l.Name))
	return strings.NewReplacer(" ", "-", "/", "-").Replace(slug)
}
