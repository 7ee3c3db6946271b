package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/sports-sync/internal/infrastructure/repository/memory"
)

// BootstrapSeed inserts the reference sports and data sources when the
// sports table is empty. Migrations seed the same rows; this covers
// databases created from a schema dump.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM sports`); err != nil {
		return fmt.Errorf("count sports for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, s := range memory.SeedSports() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO sports (id, name, slug, is_active)
VALUES (:id, :name, :slug, :is_active)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":        s.ID,
			"name":      s.Name,
			"slug":      s.Slug,
			"is_active": s.IsActive,
		})
		if err != nil {
			return fmt.Errorf("bind seed sport %s query: %w", s.Slug, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed sport %s: %w", s.Slug, err)
		}
	}

	for _, src := range memory.SeedDataSources() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO data_sources (name, source_type, api_url, rate_limit_calls, rate_limit_window_seconds, is_active)
VALUES (:name, :source_type, :api_url, :rate_limit_calls, :rate_limit_window_seconds, :is_active)
ON CONFLICT (name) DO NOTHING`, map[string]any{
			"name":                      src.Name,
			"source_type":               src.SourceType,
			"api_url":                   src.APIURL,
			"rate_limit_calls":          src.RateLimitCalls,
			"rate_limit_window_seconds": int64(src.RateLimitWindow.Seconds()),
			"is_active":                 src.IsActive,
		})
		if err != nil {
			return fmt.Errorf("bind seed data source %s query: %w", src.Name, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed data source %s: %w", src.Name, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `SELECT setval(pg_get_serial_sequence('sports', 'id'), GREATEST((SELECT MAX(id) FROM sports), 1))`); err != nil {
		return fmt.Errorf("advance sports sequence: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}
