package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/sports-sync/internal/domain/synclog"
	qb "github.com/riskibarqy/sports-sync/internal/platform/querybuilder"
)

// SyncLogRepository only inserts and reads; the table rejects updates and
// deletes through a trigger.
type SyncLogRepository struct {
	db *sqlx.DB
}

func NewSyncLogRepository(db *sqlx.DB) *SyncLogRepository {
	return &SyncLogRepository{db: db}
}

func (r *SyncLogRepository) Append(ctx context.Context, entry synclog.Entry) (int64, error) {
	if err := entry.Validate(); err != nil {
		return 0, fmt.Errorf("append sync log: %w", err)
	}

	model, err := newSyncLogInsertModel(entry)
	if err != nil {
		return 0, fmt.Errorf("encode sync log detail run_id=%s: %w", entry.RunID, err)
	}
	query, args, err := qb.InsertModel("sync_logs", model, "RETURNING id")
	if err != nil {
		return 0, fmt.Errorf("build insert sync log query: %w", err)
	}

	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		return 0, fmt.Errorf("insert sync log run_id=%s entity=%s: %w", entry.RunID, entry.EntityType, err)
	}
	return id, nil
}

func (r *SyncLogRepository) Query(ctx context.Context, filter synclog.Filter) ([]synclog.Entry, error) {
	filter = filter.Normalize()

	builder := qb.Select("*").From("sync_logs").
		OrderBy("started_at DESC", "id DESC").
		Limit(filter.Limit)
	if filter.EntityType != "" {
		builder.Where(qb.Eq("entity_type", filter.EntityType))
	}
	if filter.Status != "" {
		builder.Where(qb.Eq("status", filter.Status))
	}
	if filter.Source != "" {
		builder.Where(qb.Eq("source", filter.Source))
	}
	if !filter.From.IsZero() {
		builder.Where(qb.Gte("started_at", filter.From.UTC()))
	}
	if !filter.To.IsZero() {
		builder.Where(qb.Lt("started_at", filter.To.UTC()))
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build query sync logs: %w", err)
	}

	var rows []syncLogTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select sync logs: %w", err)
	}

	out := make([]synclog.Entry, 0, len(rows))
	for _, row := range rows {
		entry, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("decode sync log id=%d detail: %w", row.ID, err)
		}
		out = append(out, entry)
	}
	return out, nil
}
