package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/sports-sync/internal/config"
	"github.com/riskibarqy/sports-sync/internal/domain/datasource"
	"github.com/riskibarqy/sports-sync/internal/domain/league"
	"github.com/riskibarqy/sports-sync/internal/domain/match"
	"github.com/riskibarqy/sports-sync/internal/domain/prediction"
	"github.com/riskibarqy/sports-sync/internal/domain/sport"
	"github.com/riskibarqy/sports-sync/internal/domain/standing"
	"github.com/riskibarqy/sports-sync/internal/domain/synclog"
	"github.com/riskibarqy/sports-sync/internal/domain/team"
	repocache "github.com/riskibarqy/sports-sync/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/sports-sync/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/sports-sync/internal/infrastructure/repository/postgres"
	basecache "github.com/riskibarqy/sports-sync/internal/platform/cache"
)

type storage struct {
	db          *sqlx.DB
	sports      sport.Repository
	leagues     league.Repository
	teams       team.Repository
	matches     match.Repository
	standings   standing.Repository
	logs        synclog.Repository
	sources     datasource.Repository
	predictions prediction.Repository
}

// newStorage opens the configured backend. On Postgres the sport and league
// lookups read through kv.
func newStorage(ctx context.Context, cfg config.Config, kv basecache.Cache) (*storage, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		return &storage{
			sports:      memory.NewSportRepository(memory.SeedSports()),
			leagues:     memory.NewLeagueRepository(nil),
			teams:       memory.NewTeamRepository(nil),
			matches:     memory.NewMatchRepository(nil),
			standings:   memory.NewStandingRepository(),
			logs:        memory.NewSyncLogRepository(),
			sources:     memory.NewDataSourceRepository(memory.SeedDataSources()),
			predictions: memory.NewPredictionRepository(),
		}, nil
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := postgres.BootstrapSeed(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap seed: %w", err)
	}

	return &storage{
		db:          db,
		sports:      repocache.NewSportRepository(postgres.NewSportRepository(db), kv, repocache.DefaultTTL),
		leagues:     repocache.NewLeagueRepository(postgres.NewLeagueRepository(db), kv, repocache.DefaultTTL),
		teams:       postgres.NewTeamRepository(db),
		matches:     postgres.NewMatchRepository(db),
		standings:   postgres.NewStandingRepository(db),
		logs:        postgres.NewSyncLogRepository(db),
		sources:     postgres.NewDataSourceRepository(db),
		predictions: postgres.NewPredictionRepository(db),
	}, nil
}

func (s *storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
