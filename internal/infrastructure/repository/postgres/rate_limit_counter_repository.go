package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	qb "github.com/riskibarqy/sports-sync/internal/platform/querybuilder"
)

type rateLimitCounterInsertModel struct {
	Key           string    `db:"key"`
	WindowStart   time.Time `db:"window_start"`
	WindowSeconds int64     `db:"window_seconds"`
	Calls         int       `db:"calls"`
}

// RateLimitCounterRepository shares fixed-window call counts between
// processes. It implements ratelimit.CounterStore.
type RateLimitCounterRepository struct {
	db *sqlx.DB
}

func NewRateLimitCounterRepository(db *sqlx.DB) *RateLimitCounterRepository {
	return &RateLimitCounterRepository{db: db}
}

// Take increments the window counter in one statement. The conditional
// DO UPDATE leaves the row untouched once the limit is reached, in which
// case no row is returned.
func (r *RateLimitCounterRepository) Take(ctx context.Context, key string, windowStart time.Time, window time.Duration, limit int) (int, bool, error) {
	query, args, err := qb.InsertModel("rate_limit_counters", rateLimitCounterInsertModel{
		Key:           key,
		WindowStart:   windowStart.UTC(),
		WindowSeconds: int64(window / time.Second),
		Calls:         1,
	}, `ON CONFLICT (key, window_start) DO UPDATE SET
    calls = rate_limit_counters.calls + 1,
    updated_at = NOW()
WHERE rate_limit_counters.calls < ?
RETURNING calls`, limit)
	if err != nil {
		return 0, false, fmt.Errorf("build take rate limit query: %w", err)
	}

	var used int
	if err := r.db.GetContext(ctx, &used, query, args...); err != nil {
		if isNotFound(err) {
			return limit, false, nil
		}
		return 0, false, fmt.Errorf("take rate limit key=%s: %w", key, err)
	}
	return used, true, nil
}

func (r *RateLimitCounterRepository) Count(ctx context.Context, key string, windowStart time.Time) (int, error) {
	query, args, err := qb.Select("calls").From("rate_limit_counters").
		Where(
			qb.Eq("key", key),
			qb.Eq("window_start", windowStart.UTC()),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count rate limit query: %w", err)
	}

	var used int
	if err := r.db.GetContext(ctx, &used, query, args...); err != nil {
		if isNotFound(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("count rate limit key=%s: %w", key, err)
	}
	return used, nil
}

// Prune drops windows that started before cutoff.
func (r *RateLimitCounterRepository) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rate_limit_counters WHERE window_start < $1`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("prune rate limit counters: %w", err)
	}
	affected, _ := res.RowsAffected()
	return affected, nil
}
