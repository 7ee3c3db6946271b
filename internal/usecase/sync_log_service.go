package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/sports-sync/internal/domain/synclog"
)

type SyncLogQuery struct {
	EntityType string
	Status     string
	Source     string
	From       time.Time
	To         time.Time
	Limit      int
}

type SyncLogService struct {
	logs synclog.Repository
}

func NewSyncLogService(logs synclog.Repository) *SyncLogService {
	return &SyncLogService{logs: logs}
}

func (s *SyncLogService) Query(ctx context.Context, query SyncLogQuery) ([]synclog.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncLogService.Query")
	defer span.End()

	filter := synclog.Filter{
		EntityType: strings.ToLower(strings.TrimSpace(query.EntityType)),
		Status:     strings.ToUpper(strings.TrimSpace(query.Status)),
		Source:     strings.TrimSpace(query.Source),
		From:       query.From,
		To:         query.To,
		Limit:      query.Limit,
	}
	if filter.EntityType != "" && !synclog.IsValidEntityType(filter.EntityType) {
		return nil, fmt.Errorf("%w: unknown entity type %q", ErrInvalidInput, query.EntityType)
	}
	switch filter.Status {
	case "", synclog.StatusPending, synclog.StatusInProgress, synclog.StatusCompleted, synclog.StatusFailed:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, query.Status)
	}
	if query.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must be >= 0", ErrInvalidInput)
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && !filter.From.Before(filter.To) {
		return nil, fmt.Errorf("%w: from must be before to", ErrInvalidInput)
	}

	entries, err := s.logs.Query(ctx, filter.Normalize())
	if err != nil {
		return nil, fmt.Errorf("query sync logs: %w", err)
	}
	return entries, nil
}
