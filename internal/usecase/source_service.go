package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/sports-sync/internal/domain/datasource"
	"github.com/riskibarqy/sports-sync/internal/platform/ratelimit"
)

// SourceStatus is a data source with the live quota of its provider.
type SourceStatus struct {
	ID              int64            `json:"id"`
	Name            string           `json:"name"`
	SourceType      string           `json:"source_type"`
	APIURL          string           `json:"api_url"`
	RateLimitCalls  int              `json:"rate_limit_calls"`
	RateLimitWindow string           `json:"rate_limit_window"`
	LastSyncAt      *time.Time       `json:"last_sync_at,omitempty"`
	IsActive        bool             `json:"is_active"`
	Usage           *ratelimit.Usage `json:"usage,omitempty"`
	UsageError      string           `json:"usage_error,omitempty"`
}

type SourceService struct {
	sources   datasource.Repository
	reporters map[string]UsageReporter
}

// NewSourceService takes the usage reporters keyed by provider name.
func NewSourceService(sources datasource.Repository, reporters map[string]UsageReporter) *SourceService {
	if reporters == nil {
		reporters = map[string]UsageReporter{}
	}
	return &SourceService{sources: sources, reporters: reporters}
}

func (s *SourceService) List(ctx context.Context) ([]SourceStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SourceService.List")
	defer span.End()

	items, err := s.sources.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list data sources: %w", err)
	}

	out := make([]SourceStatus, 0, len(items))
	for _, item := range items {
		row := SourceStatus{
			ID:              item.ID,
			Name:            item.Name,
			SourceType:      item.SourceType,
			APIURL:          item.APIURL,
			RateLimitCalls:  item.RateLimitCalls,
			RateLimitWindow: item.RateLimitWindow.String(),
			LastSyncAt:      item.LastSyncAt,
			IsActive:        item.IsActive,
		}
		if reporter, ok := s.reporters[item.Name]; ok {
			usage, err := reporter.Usage(ctx)
			if err != nil {
				row.UsageError = err.Error()
			} else {
				row.Usage = &usage
			}
		}
		out = append(out, row)
	}
	return out, nil
}

// Usage returns the live quota of one provider.
func (s *SourceService) Usage(ctx context.Context, provider string) (ratelimit.Usage, error) {
	reporter, ok := s.reporters[provider]
	if !ok {
		return ratelimit.Usage{}, fmt.Errorf("%w: provider %q", ErrResourceNotFound, provider)
	}
	return reporter.Usage(ctx)
}
