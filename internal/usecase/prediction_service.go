package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/sports-sync/internal/domain/match"
	"github.com/riskibarqy/sports-sync/internal/domain/prediction"
	idgen "github.com/riskibarqy/sports-sync/internal/platform/id"
	"github.com/riskibarqy/sports-sync/internal/platform/logging"
)

type SubmitPredictionInput struct {
	MatchExternalID string
	AuthorID        string
	Kind            string
	PredictedHome   int
	PredictedAway   int
	Confidence      float64
	Reasoning       string
}

type PredictionService struct {
	matches     match.Repository
	predictions prediction.Repository
	ids         idgen.Generator
	logger      *logging.Logger
}

func NewPredictionService(matches match.Repository, predictions prediction.Repository, ids idgen.Generator, logger *logging.Logger) *PredictionService {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = idgen.NewUUIDGenerator()
	}
	return &PredictionService{matches: matches, predictions: predictions, ids: ids, logger: logger}
}

// Submit stores or replaces the prediction of one author for one match.
// Predictions on a finished match are graded immediately.
func (s *PredictionService) Submit(ctx context.Context, input SubmitPredictionInput) (prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Submit")
	defer span.End()

	stored, err := s.matchByExternalID(ctx, input.MatchExternalID)
	if err != nil {
		return prediction.Prediction{}, err
	}
	if stored.Status == match.StatusCancelled {
		return prediction.Prediction{}, fmt.Errorf("%w: match %s is cancelled", ErrInvalidInput, stored.ExternalID)
	}

	item := prediction.Prediction{
		MatchID:       stored.ID,
		AuthorID:      strings.TrimSpace(input.AuthorID),
		Kind:          strings.ToUpper(strings.TrimSpace(input.Kind)),
		PredictedHome: input.PredictedHome,
		PredictedAway: input.PredictedAway,
		Confidence:    input.Confidence,
		Reasoning:     strings.TrimSpace(input.Reasoning),
	}
	if item.Kind == "" {
		item.Kind = prediction.KindUser
	}
	if err := item.Validate(); err != nil {
		return prediction.Prediction{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if stored.Status == match.StatusFinished && stored.HomeScore != nil && stored.AwayScore != nil {
		correct := item.Grade(*stored.HomeScore, *stored.AwayScore)
		item.IsCorrect = &correct
	}
	if item.PublicID, err = s.ids.NewID(); err != nil {
		return prediction.Prediction{}, err
	}

	saved, err := s.predictions.Upsert(ctx, item)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("upsert prediction: %w", err)
	}
	return saved, nil
}

func (s *PredictionService) ListByMatchExternalID(ctx context.Context, matchExternalID string) ([]prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.ListByMatchExternalID")
	defer span.End()

	stored, err := s.matchByExternalID(ctx, matchExternalID)
	if err != nil {
		return nil, err
	}
	items, err := s.predictions.ListByMatch(ctx, stored.ID)
	if err != nil {
		return nil, fmt.Errorf("list predictions by match: %w", err)
	}
	return items, nil
}

// GradeMatch sets is_correct on every prediction of a finished match and
// returns how many were graded.
func (s *PredictionService) GradeMatch(ctx context.Context, item match.Match) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.GradeMatch")
	defer span.End()

	if item.Status != match.StatusFinished || item.HomeScore == nil || item.AwayScore == nil {
		return 0, nil
	}

	items, err := s.predictions.ListByMatch(ctx, item.ID)
	if err != nil {
		return 0, fmt.Errorf("list predictions by match: %w", err)
	}

	graded := 0
	for _, p := range items {
		correct := p.Grade(*item.HomeScore, *item.AwayScore)
		if p.IsCorrect != nil && *p.IsCorrect == correct {
			continue
		}
		if err := s.predictions.SetCorrectness(ctx, p.ID, correct); err != nil {
			return graded, fmt.Errorf("set prediction correctness id=%d: %w", p.ID, err)
		}
		graded++
	}
	if graded > 0 {
		s.logger.InfoContext(ctx, "graded predictions",
			"match_external_id", item.ExternalID,
			"graded", graded,
		)
	}
	return graded, nil
}

func (s *PredictionService) matchByExternalID(ctx context.Context, externalID string) (match.Match, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return match.Match{}, fmt.Errorf("%w: match external id is required", ErrInvalidInput)
	}
	stored, found, err := s.matches.GetByExternalID(ctx, externalID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !found {
		return match.Match{}, fmt.Errorf("%w: match external_id=%s", ErrResourceNotFound, externalID)
	}
	return stored, nil
}
