package standing

import "context"

type Repository interface {
	GetByNaturalKey(ctx context.Context, leagueID, teamID int64) (Standing, bool, error)
	// ListByLeague returns the table ordered by position.
	ListByLeague(ctx context.Context, leagueID int64) ([]Standing, error)
	// Create reports created=false when (league, team) already exists.
	Create(ctx context.Context, item Standing) (Standing, bool, error)
	Update(ctx context.Context, item Standing) error
}
