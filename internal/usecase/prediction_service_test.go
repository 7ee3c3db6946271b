package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/sports-sync/internal/domain/match"
	"github.com/riskibarqy/sports-sync/internal/domain/prediction"
	matchmock "github.com/riskibarqy/sports-sync/internal/mocks/domain/match"
	predictionmock "github.com/riskibarqy/sports-sync/internal/mocks/domain/prediction"
	idgen "github.com/riskibarqy/sports-sync/internal/platform/id"
	"github.com/riskibarqy/sports-sync/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func finishedMatch(home, away int) match.Match {
	return match.Match{
		ID:          9,
		ExternalID:  "1001",
		Status:      match.StatusFinished,
		ScheduledAt: time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC),
		HomeScore:   &home,
		AwayScore:   &away,
	}
}

func TestPredictionService_GradeMatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	matches := matchmock.NewRepository(t)
	predictions := predictionmock.NewRepository(t)
	service := NewPredictionService(matches, predictions, &idgen.Sequence{}, logging.NewNop())

	alreadyRight := true
	predictions.
		On("ListByMatch", mock.Anything, int64(9)).
		Return([]prediction.Prediction{
			{ID: 1, MatchID: 9, PredictedHome: 2, PredictedAway: 0},
			{ID: 2, MatchID: 9, PredictedHome: 1, PredictedAway: 1},
			{ID: 3, MatchID: 9, PredictedHome: 3, PredictedAway: 1, IsCorrect: &alreadyRight},
		}, nil).
		Once()
	predictions.On("SetCorrectness", mock.Anything, int64(1), true).Return(nil).Once()
	predictions.On("SetCorrectness", mock.Anything, int64(2), false).Return(nil).Once()

	graded, err := service.GradeMatch(ctx, finishedMatch(1, 0))
	if err != nil {
		t.Fatalf("grade match: %v", err)
	}
	if graded != 2 {
		t.Fatalf("expected 2 graded predictions, got %d", graded)
	}
}

func TestPredictionService_GradeMatchSkipsUnfinished(t *testing.T) {
	t.Parallel()

	service := NewPredictionService(matchmock.NewRepository(t), predictionmock.NewRepository(t), nil, logging.NewNop())
	graded, err := service.GradeMatch(context.Background(), match.Match{ID: 9, Status: match.StatusLive})
	if err != nil || graded != 0 {
		t.Fatalf("expected no grading, got %d err=%v", graded, err)
	}
}

func TestPredictionService_Submit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	matches := matchmock.NewRepository(t)
	predictions := predictionmock.NewRepository(t)
	service := NewPredictionService(matches, predictions, &idgen.Sequence{Prefix: "pred-"}, logging.NewNop())

	matches.On("GetByExternalID", mock.Anything, "1001").Return(finishedMatch(0, 2), true, nil).Once()
	predictions.
		On("Upsert", mock.Anything, mock.MatchedBy(func(v prediction.Prediction) bool {
			return v.MatchID == 9 && v.Kind == prediction.KindModel && v.PublicID == "pred-1" &&
				v.IsCorrect != nil && *v.IsCorrect
		})).
		Return(func(_ context.Context, v prediction.Prediction) (prediction.Prediction, error) {
			v.ID = 41
			return v, nil
		}).
		Once()

	saved, err := service.Submit(ctx, SubmitPredictionInput{
		MatchExternalID: "1001",
		AuthorID:        "model-v1",
		Kind:            "model",
		PredictedHome:   1,
		PredictedAway:   3,
		Confidence:      64.5,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if saved.ID != 41 {
		t.Fatalf("unexpected saved prediction: %+v", saved)
	}
}

func TestPredictionService_SubmitValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	matches := matchmock.NewRepository(t)
	service := NewPredictionService(matches, predictionmock.NewRepository(t), nil, logging.NewNop())

	if _, err := service.Submit(ctx, SubmitPredictionInput{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}

	matches.On("GetByExternalID", mock.Anything, "404").Return(match.Match{}, false, nil).Once()
	if _, err := service.Submit(ctx, SubmitPredictionInput{MatchExternalID: "404", AuthorID: "u"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	scheduled := match.Match{ID: 3, ExternalID: "1002", Status: match.StatusScheduled}
	matches.On("GetByExternalID", mock.Anything, "1002").Return(scheduled, true, nil).Once()
	if _, err := service.Submit(ctx, SubmitPredictionInput{MatchExternalID: "1002", AuthorID: "u", Confidence: 140}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid confidence, got %v", err)
	}
}
