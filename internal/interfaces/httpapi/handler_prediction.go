package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/riskibarqy/sports-sync/internal/domain/prediction"
	"github.com/riskibarqy/sports-sync/internal/usecase"
)

type submitPredictionRequest struct {
	MatchExternalID string  `json:"match_external_id" validate:"required,max=64"`
	AuthorID        string  `json:"author_id" validate:"required,max=128"`
	Kind            string  `json:"kind" validate:"required,oneof=USER MODEL STATISTICAL user model statistical"`
	PredictedHome   int     `json:"predicted_home" validate:"min=0,max=99"`
	PredictedAway   int     `json:"predicted_away" validate:"min=0,max=99"`
	Confidence      float64 `json:"confidence" validate:"min=0,max=100"`
	Reasoning       string  `json:"reasoning" validate:"omitempty,max=2000"`
}

type predictionDTO struct {
	ID            string    `json:"id"`
	AuthorID      string    `json:"author_id"`
	Kind          string    `json:"kind"`
	PredictedHome int       `json:"predicted_home"`
	PredictedAway int       `json:"predicted_away"`
	Confidence    float64   `json:"confidence"`
	IsCorrect     *bool     `json:"is_correct"`
	Reasoning     string    `json:"reasoning,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func predictionToDTO(item prediction.Prediction) predictionDTO {
	return predictionDTO{
		ID:            item.PublicID,
		AuthorID:      item.AuthorID,
		Kind:          item.Kind,
		PredictedHome: item.PredictedHome,
		PredictedAway: item.PredictedAway,
		Confidence:    item.Confidence,
		IsCorrect:     item.IsCorrect,
		Reasoning:     item.Reasoning,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
}

func (h *Handler) SubmitPrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitPrediction")
	defer span.End()

	var req submitPredictionRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.predictionService.Submit(ctx, usecase.SubmitPredictionInput{
		MatchExternalID: req.MatchExternalID,
		AuthorID:        req.AuthorID,
		Kind:            strings.ToUpper(req.Kind),
		PredictedHome:   req.PredictedHome,
		PredictedAway:   req.PredictedAway,
		Confidence:      req.Confidence,
		Reasoning:       req.Reasoning,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit prediction failed", "match_external_id", req.MatchExternalID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionToDTO(item))
}

func (h *Handler) ListMatchPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchPredictions")
	defer span.End()

	matchID, err := pathValue(r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.predictionService.ListByMatchExternalID(ctx, matchID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]predictionDTO, 0, len(items))
	for _, item := range items {
		out = append(out, predictionToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}
