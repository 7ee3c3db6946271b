package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/sports-sync/internal/domain/datasource"
	qb "github.com/riskibarqy/sports-sync/internal/platform/querybuilder"
)

type dataSourceTableModel struct {
	ID                     int64      `db:"id"`
	Name                   string     `db:"name"`
	SourceType             string     `db:"source_type"`
	APIURL                 string     `db:"api_url"`
	RateLimitCalls         int        `db:"rate_limit_calls"`
	RateLimitWindowSeconds int64      `db:"rate_limit_window_seconds"`
	LastSyncAt             *time.Time `db:"last_sync_at"`
	IsActive               bool       `db:"is_active"`
}

type dataSourceInsertModel struct {
	Name                   string `db:"name"`
	SourceType             string `db:"source_type"`
	APIURL                 string `db:"api_url"`
	RateLimitCalls         int    `db:"rate_limit_calls"`
	RateLimitWindowSeconds int64  `db:"rate_limit_window_seconds"`
	IsActive               bool   `db:"is_active"`
}

func (m dataSourceTableModel) toDomain() datasource.DataSource {
	return datasource.DataSource{
		ID:              m.ID,
		Name:            m.Name,
		SourceType:      m.SourceType,
		APIURL:          m.APIURL,
		RateLimitCalls:  m.RateLimitCalls,
		RateLimitWindow: time.Duration(m.RateLimitWindowSeconds) * time.Second,
		LastSyncAt:      m.LastSyncAt,
		IsActive:        m.IsActive,
	}
}

type DataSourceRepository struct {
	db *sqlx.DB
}

func NewDataSourceRepository(db *sqlx.DB) *DataSourceRepository {
	return &DataSourceRepository{db: db}
}

func (r *DataSourceRepository) List(ctx context.Context) ([]datasource.DataSource, error) {
	query, args, err := qb.Select(qb.Columns(dataSourceTableModel{})...).From("data_sources").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select data sources query: %w", err)
	}

	var rows []dataSourceTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select data sources: %w", err)
	}

	out := make([]datasource.DataSource, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *DataSourceRepository) Ensure(ctx context.Context, item datasource.DataSource) (datasource.DataSource, error) {
	query, args, err := qb.InsertModel("data_sources", dataSourceInsertModel{
		Name:                   item.Name,
		SourceType:             item.SourceType,
		APIURL:                 item.APIURL,
		RateLimitCalls:         item.RateLimitCalls,
		RateLimitWindowSeconds: int64(item.RateLimitWindow / time.Second),
		IsActive:               item.IsActive,
	}, `ON CONFLICT (name) DO UPDATE SET
    source_type = EXCLUDED.source_type,
    api_url = EXCLUDED.api_url,
    rate_limit_calls = EXCLUDED.rate_limit_calls,
    rate_limit_window_seconds = EXCLUDED.rate_limit_window_seconds,
    is_active = EXCLUDED.is_active,
    updated_at = NOW()
RETURNING id, name, source_type, api_url, rate_limit_calls, rate_limit_window_seconds, last_sync_at, is_active`)
	if err != nil {
		return datasource.DataSource{}, fmt.Errorf("build ensure data source query: %w", err)
	}

	var row dataSourceTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return datasource.DataSource{}, fmt.Errorf("ensure data source name=%s: %w", item.Name, err)
	}
	return row.toDomain(), nil
}

func (r *DataSourceRepository) TouchLastSync(ctx context.Context, id int64, at time.Time) error {
	query, args, err := qb.Update("data_sources").
		Set("last_sync_at", nullableTime(&at)).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build touch data source query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("touch data source id=%d: %w", id, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("data source id=%d not found", id)
	}
	return nil
}
