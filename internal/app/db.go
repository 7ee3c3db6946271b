package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/sports-sync/internal/config"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const dbPingTimeout = 5 * time.Second

// openDB opens a traced Postgres pool. Query text on spans goes through
// spanQuery.
func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := parseDSN(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn.URL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dsn.DBName),
		otelsql.WithQueryFormatter(spanQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	otelsql.ReportDBStatsMetrics(db.DB, otelsql.WithDBName(dsn.DBName))
	return db, nil
}

// MigrationDSN is the database URL cmd/migration hands to golang-migrate.
func MigrationDSN(cfg config.Config) string {
	return parseDSN(cfg.DBURL, cfg.DBDisablePreparedBinary).URL
}
