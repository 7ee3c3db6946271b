package match

import (
	"context"
	"time"
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (Match, bool, error)
	GetByExternalID(ctx context.Context, externalID string) (Match, bool, error)
	ListByLeague(ctx context.Context, leagueID int64, from, to time.Time) ([]Match, error)
	// Create reports created=false when the external id already exists.
	Create(ctx context.Context, item Match) (Match, bool, error)
	Update(ctx context.Context, item Match) error
}
