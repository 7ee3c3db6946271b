package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/sports-sync/internal/platform/logging"
	"github.com/riskibarqy/sports-sync/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

// HandlerDefaults fill optional request fields.
type HandlerDefaults struct {
	SportID     int64
	DaysAhead   int
	SyncWorkers int
}

type Handler struct {
	syncService       *usecase.SyncService
	syncLogService    *usecase.SyncLogService
	sourceService     *usecase.SourceService
	predictionService *usecase.PredictionService
	standingService   *usecase.StandingService
	defaults          HandlerDefaults
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	syncService *usecase.SyncService,
	syncLogService *usecase.SyncLogService,
	sourceService *usecase.SourceService,
	predictionService *usecase.PredictionService,
	standingService *usecase.StandingService,
	defaults HandlerDefaults,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if defaults.SportID <= 0 {
		defaults.SportID = 1
	}

	return &Handler{
		syncService:       syncService,
		syncLogService:    syncLogService,
		sourceService:     sourceService,
		predictionService: predictionService,
		standingService:   standingService,
		defaults:          defaults,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeJSON rejects unknown fields. An empty body leaves dst untouched.
func decodeJSON(r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) decodeAndValidate(ctx context.Context, r *http.Request, dst any) error {
	if err := decodeJSON(r, dst); err != nil {
		return err
	}
	return h.validateRequest(ctx, dst)
}

func pathValue(r *http.Request, name string) (string, error) {
	value := strings.TrimSpace(r.PathValue(name))
	if value == "" {
		return "", fmt.Errorf("%w: %s is required", usecase.ErrInvalidInput, name)
	}
	return value, nil
}
