package match

import (
	"fmt"
	"strings"
	"time"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusLive      = "LIVE"
	StatusFinished  = "FINISHED"
	StatusPostponed = "POSTPONED"
	StatusCancelled = "CANCELLED"
)

// Match is one fixture between two teams.
type Match struct {
	ID           int64
	PublicID     string
	ExternalID   string
	SportID      int64
	LeagueID     int64
	HomeTeamID   int64
	AwayTeamID   int64
	ScheduledAt  time.Time
	Status       string
	HomeScore    *int
	AwayScore    *int
	HalftimeHome *int
	HalftimeAway *int
	Venue        string
	Referee      string
	Round        string
	// Statistics is a JSON document; nil when never fetched.
	Statistics []byte
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func IsValidStatus(status string) bool {
	switch status {
	case StatusScheduled, StatusLive, StatusFinished, StatusPostponed, StatusCancelled:
		return true
	default:
		return false
	}
}

func (m Match) Validate() error {
	if strings.TrimSpace(m.ExternalID) == "" {
		return fmt.Errorf("match external id is required")
	}
	if m.LeagueID <= 0 {
		return fmt.Errorf("match league id is required")
	}
	if m.HomeTeamID <= 0 || m.AwayTeamID <= 0 {
		return fmt.Errorf("match home and away team ids are required")
	}
	if m.HomeTeamID == m.AwayTeamID {
		return fmt.Errorf("match home and away team must differ (team_id=%d)", m.HomeTeamID)
	}
	if m.ScheduledAt.IsZero() {
		return fmt.Errorf("match scheduled time is required")
	}
	if !IsValidStatus(m.Status) {
		return fmt.Errorf("match status %q is not valid", m.Status)
	}
	for name, score := range map[string]*int{
		"home_score":    m.HomeScore,
		"away_score":    m.AwayScore,
		"halftime_home": m.HalftimeHome,
		"halftime_away": m.HalftimeAway,
	} {
		if score != nil && *score < 0 {
			return fmt.Errorf("match %s must be >= 0, got %d", name, *score)
		}
	}
	if m.Status == StatusScheduled && (m.HomeScore != nil || m.AwayScore != nil) {
		return fmt.Errorf("match scores must be empty while status is %s", StatusScheduled)
	}
	return nil
}

// Outcome returns "HOME", "AWAY" or "DRAW" for a match with both scores.
func (m Match) Outcome() (string, bool) {
	if m.HomeScore == nil || m.AwayScore == nil {
		return "", false
	}
	return OutcomeOf(*m.HomeScore, *m.AwayScore), true
}

func OutcomeOf(home, away int) string {
	switch {
	case home > away:
		return "HOME"
	case away > home:
		return "AWAY"
	default:
		return "DRAW"
	}
}
