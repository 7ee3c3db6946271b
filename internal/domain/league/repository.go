package league

import "context"

type Filter struct {
	SportID    int64
	ActiveOnly bool
}

// Repository describes league persistence needs from use cases.
type Repository interface {
	List(ctx context.Context, filter Filter) ([]League, error)
	GetByNaturalKey(ctx context.Context, key NaturalKey) (League, bool, error)
	// GetLatestByExternalID returns the most recent active season.
	GetLatestByExternalID(ctx context.Context, externalID string) (League, bool, error)
	// Create reports created=false when the natural key already exists.
	Create(ctx context.Context, item League) (League, bool, error)
	Update(ctx context.Context, item League) error
}
