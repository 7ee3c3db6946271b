package synclog

import "context"

// Repository is append-only. Corrections are new entries.
type Repository interface {
	Append(ctx context.Context, entry Entry) (int64, error)
	// Query returns entries newest first.
	Query(ctx context.Context, filter Filter) ([]Entry, error)
}
