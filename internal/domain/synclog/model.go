package synclog

import (
	"fmt"
	"time"
)

const (
	StatusPending    = "PENDING"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
)

const (
	EntityLeagues         = "leagues"
	EntityTeams           = "teams"
	EntityMatches         = "matches"
	EntityMatchStatistics = "match_statistics"
	EntityStandings       = "standings"
)

const (
	DefaultQueryLimit = 50
	MaxQueryLimit     = 500
)

// Entry is the sealed audit record of one sync run.
type Entry struct {
	ID             int64
	RunID          string
	SourceID       int64
	Source         string
	EntityType     string
	Scope          string
	Status         string
	StartedAt      time.Time
	CompletedAt    time.Time
	RecordsCreated int
	RecordsUpdated int
	RecordsFailed  int
	ErrorMessage   string
	Detail         map[string]any
}

func IsValidEntityType(v string) bool {
	switch v {
	case EntityLeagues, EntityTeams, EntityMatches, EntityMatchStatistics, EntityStandings:
		return true
	default:
		return false
	}
}

func (e Entry) Validate() error {
	if e.RunID == "" {
		return fmt.Errorf("sync log run id is required")
	}
	if !IsValidEntityType(e.EntityType) {
		return fmt.Errorf("sync log entity type %q is not valid", e.EntityType)
	}
	switch e.Status {
	case StatusCompleted, StatusFailed:
	default:
		return fmt.Errorf("sync log entries are written sealed, got status %q", e.Status)
	}
	if e.StartedAt.IsZero() || e.CompletedAt.IsZero() {
		return fmt.Errorf("sync log timestamps are required")
	}
	if e.CompletedAt.Before(e.StartedAt) {
		return fmt.Errorf("sync log completed_at precedes started_at")
	}
	return nil
}

func (e Entry) Duration() time.Duration {
	return e.CompletedAt.Sub(e.StartedAt)
}

type Filter struct {
	EntityType string
	Status     string
	Source     string
	From       time.Time
	To         time.Time
	Limit      int
}

func (f Filter) Normalize() Filter {
	if f.Limit <= 0 {
		f.Limit = DefaultQueryLimit
	}
	if f.Limit > MaxQueryLimit {
		f.Limit = MaxQueryLimit
	}
	return f
}

// Matches reports whether e passes the filter. Time bounds are
// inclusive on From and exclusive on To.
func (f Filter) Matches(e Entry) bool {
	if f.EntityType != "" && e.EntityType != f.EntityType {
		return false
	}
	if f.Status != "" && e.Status != f.Status {
		return false
	}
	if f.Source != "" && e.Source != f.Source {
		return false
	}
	if !f.From.IsZero() && e.StartedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !e.StartedAt.Before(f.To) {
		return false
	}
	return true
}
