package datasource

import (
	"context"
	"time"
)

const (
	TypeFootballAPI = "FOOTBALL_API"
	TypeOddsAPI     = "ODDS_API"
	TypeSportsData  = "SPORTS_DATA"
	TypeCustom      = "CUSTOM"
)

// DataSource is a configured external provider.
type DataSource struct {
	ID              int64
	Name            string
	SourceType      string
	APIURL          string
	RateLimitCalls  int
	RateLimitWindow time.Duration
	LastSyncAt      *time.Time
	IsActive        bool
}

type Repository interface {
	List(ctx context.Context) ([]DataSource, error)
	// Ensure creates the source by name or refreshes its settings.
	Ensure(ctx context.Context, item DataSource) (DataSource, error)
	TouchLastSync(ctx context.Context, id int64, at time.Time) error
}
