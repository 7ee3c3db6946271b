package prediction

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/sports-sync/internal/domain/match"
)

const (
	KindUser        = "USER"
	KindModel       = "MODEL"
	KindStatistical = "STATISTICAL"
)

// Prediction is authored outside the sync pipeline. Sync only sets IsCorrect.
type Prediction struct {
	ID            int64
	PublicID      string
	MatchID       int64
	AuthorID      string
	Kind          string
	PredictedHome int
	PredictedAway int
	Confidence    float64
	IsCorrect     *bool
	Reasoning     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (p Prediction) Validate() error {
	if p.MatchID <= 0 {
		return fmt.Errorf("prediction match id is required")
	}
	if strings.TrimSpace(p.AuthorID) == "" {
		return fmt.Errorf("prediction author is required")
	}
	switch p.Kind {
	case KindUser, KindModel, KindStatistical:
	default:
		return fmt.Errorf("prediction kind %q is not valid", p.Kind)
	}
	if p.PredictedHome < 0 || p.PredictedAway < 0 {
		return fmt.Errorf("predicted scores must be >= 0")
	}
	if p.Confidence < 0 || p.Confidence > 100 {
		return fmt.Errorf("prediction confidence must be within [0,100]")
	}
	return nil
}

// Grade reports whether the predicted result (home win, draw, away win)
// matches the final score.
func (p Prediction) Grade(home, away int) bool {
	return match.OutcomeOf(p.PredictedHome, p.PredictedAway) == match.OutcomeOf(home, away)
}
