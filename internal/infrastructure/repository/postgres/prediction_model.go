package postgres

import (
	"time"

	"github.com/riskibarqy/sports-sync/internal/domain/prediction"
)

type predictionTableModel struct {
	ID            int64     `db:"id"`
	PublicID      string    `db:"public_id"`
	MatchID       int64     `db:"match_id"`
	AuthorID      string    `db:"author_id"`
	Kind          string    `db:"kind"`
	PredictedHome int       `db:"predicted_home_score"`
	PredictedAway int       `db:"predicted_away_score"`
	Confidence    float64   `db:"confidence"`
	IsCorrect     *bool     `db:"is_correct"`
	Reasoning     string    `db:"reasoning"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type predictionInsertModel struct {
	PublicID      string  `db:"public_id"`
	MatchID       int64   `db:"match_id"`
	AuthorID      string  `db:"author_id"`
	Kind          string  `db:"kind"`
	PredictedHome int     `db:"predicted_home_score"`
	PredictedAway int     `db:"predicted_away_score"`
	Confidence    float64 `db:"confidence"`
	IsCorrect     *bool   `db:"is_correct"`
	Reasoning     string  `db:"reasoning"`
}

func (m predictionTableModel) toDomain() prediction.Prediction {
	return prediction.Prediction{
		ID:            m.ID,
		PublicID:      m.PublicID,
		MatchID:       m.MatchID,
		AuthorID:      m.AuthorID,
		Kind:          m.Kind,
		PredictedHome: m.PredictedHome,
		PredictedAway: m.PredictedAway,
		Confidence:    m.Confidence,
		IsCorrect:     m.IsCorrect,
		Reasoning:     m.Reasoning,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
