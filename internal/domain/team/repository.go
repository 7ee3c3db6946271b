package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	GetByNaturalKey(ctx context.Context, sportID int64, externalID string) (Team, bool, error)
	ListByLeague(ctx context.Context, leagueID int64, season string) ([]Team, error)
	// Create reports created=false when (sport, external id) already exists.
	Create(ctx context.Context, item Team) (Team, bool, error)
	Update(ctx context.Context, item Team) error
	// UpsertMembership marks the membership current and clears the flag on
	// the team's memberships in other seasons of the same competition.
	// changed is false when nothing was written.
	UpsertMembership(ctx context.Context, item Membership) (changed bool, err error)
}
