package httpapi

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/sports-sync/internal/domain/synclog"
	"github.com/riskibarqy/sports-sync/internal/usecase"
)

type syncLogDTO struct {
	ID             int64          `json:"id"`
	RunID          string         `json:"run_id"`
	Source         string         `json:"source"`
	EntityType     string         `json:"entity_type"`
	Scope          string         `json:"scope"`
	Status         string         `json:"status"`
	StartedAt      time.Time      `json:"started_at"`
	CompletedAt    time.Time      `json:"completed_at"`
	DurationMs     int64          `json:"duration_ms"`
	RecordsCreated int            `json:"records_created"`
	RecordsUpdated int            `json:"records_updated"`
	RecordsFailed  int            `json:"records_failed"`
	ErrorMessage   string         `json:"error_message,omitempty"`
	Detail         map[string]any `json:"detail,omitempty"`
}

func syncLogToDTO(item synclog.Entry) syncLogDTO {
	return syncLogDTO{
		ID:             item.ID,
		RunID:          item.RunID,
		Source:         item.Source,
		EntityType:     item.EntityType,
		Scope:          item.Scope,
		Status:         item.Status,
		StartedAt:      item.StartedAt,
		CompletedAt:    item.CompletedAt,
		DurationMs:     item.Duration().Milliseconds(),
		RecordsCreated: item.RecordsCreated,
		RecordsUpdated: item.RecordsUpdated,
		RecordsFailed:  item.RecordsFailed,
		ErrorMessage:   item.ErrorMessage,
		Detail:         item.Detail,
	}
}

func (h *Handler) ListSyncLogs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSyncLogs")
	defer span.End()

	query, err := parseSyncLogQuery(r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	entries, err := h.syncLogService.Query(ctx, query)
	if err != nil {
		h.logger.ErrorContext(ctx, "query sync logs failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]syncLogDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, syncLogToDTO(entry))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func parseSyncLogQuery(values url.Values) (usecase.SyncLogQuery, error) {
	query := usecase.SyncLogQuery{
		EntityType: values.Get("entity_type"),
		Status:     values.Get("status"),
		Source:     values.Get("source"),
	}

	var err error
	if query.From, err = parseQueryTime(values.Get("from")); err != nil {
		return usecase.SyncLogQuery{}, fmt.Errorf("%w: from: %v", usecase.ErrInvalidInput, err)
	}
	if query.To, err = parseQueryTime(values.Get("to")); err != nil {
		return usecase.SyncLogQuery{}, fmt.Errorf("%w: to: %v", usecase.ErrInvalidInput, err)
	}
	if raw := strings.TrimSpace(values.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return usecase.SyncLogQuery{}, fmt.Errorf("%w: limit must be an integer", usecase.ErrInvalidInput)
		}
		query.Limit = limit
	}
	return query, nil
}

// parseQueryTime accepts RFC 3339 or a bare date, read as UTC midnight.
func parseQueryTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts.UTC(), nil
	}
	ts, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected RFC3339 or YYYY-MM-DD, got %q", raw)
	}
	return ts, nil
}
