package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/sports-sync/internal/domain/prediction"
	qb "github.com/riskibarqy/sports-sync/internal/platform/querybuilder"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// Upsert keeps the original public id when the author resubmits.
func (r *PredictionRepository) Upsert(ctx context.Context, item prediction.Prediction) (prediction.Prediction, error) {
	query, args, err := qb.InsertModel("predictions", predictionInsertModel{
		PublicID:      item.PublicID,
		MatchID:       item.MatchID,
		AuthorID:      item.AuthorID,
		Kind:          item.Kind,
		PredictedHome: item.PredictedHome,
		PredictedAway: item.PredictedAway,
		Confidence:    item.Confidence,
		IsCorrect:     item.IsCorrect,
		Reasoning:     item.Reasoning,
	}, `ON CONFLICT (match_id, author_id, kind) DO UPDATE SET
    predicted_home_score = EXCLUDED.predicted_home_score,
    predicted_away_score = EXCLUDED.predicted_away_score,
    confidence = EXCLUDED.confidence,
    is_correct = EXCLUDED.is_correct,
    reasoning = EXCLUDED.reasoning,
    updated_at = NOW()
RETURNING *`)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("build upsert prediction query: %w", err)
	}

	var row predictionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return prediction.Prediction{}, fmt.Errorf("upsert prediction match_id=%d author=%s: %w", item.MatchID, item.AuthorID, err)
	}
	return row.toDomain(), nil
}

func (r *PredictionRepository) ListByMatch(ctx context.Context, matchID int64) ([]prediction.Prediction, error) {
	query, args, err := qb.Select("*").From("predictions").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select predictions query: %w", err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select predictions match_id=%d: %w", matchID, err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PredictionRepository) SetCorrectness(ctx context.Context, id int64, correct bool) error {
	query, args, err := qb.Update("predictions").
		Set("is_correct", correct).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set prediction correctness query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set prediction correctness id=%d: %w", id, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("prediction id=%d not found", id)
	}
	return nil
}
