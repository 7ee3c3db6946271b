package prediction

import "context"

type Repository interface {
	// Upsert is keyed by (match, author, kind).
	Upsert(ctx context.Context, item Prediction) (Prediction, error)
	ListByMatch(ctx context.Context, matchID int64) ([]Prediction, error)
	SetCorrectness(ctx context.Context, id int64, correct bool) error
}
