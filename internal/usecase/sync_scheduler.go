package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/sports-sync/internal/platform/logging"
	"github.com/sourcegraph/conc/panics"
)

type SyncScheduleConfig struct {
	Interval          time.Duration
	LeagueExternalIDs []string
	Workers           int
	// RunOnStart triggers one tick before the first interval elapses.
	RunOnStart bool
}

type batchSyncer interface {
	BatchFullSync(ctx context.Context, input BatchSyncInput) (BatchSyncResult, error)
}

// SyncScheduler runs a batch full sync on a fixed interval.
type SyncScheduler struct {
	syncer batchSyncer
	cfg    SyncScheduleConfig
	logger *logging.Logger
}

func NewSyncScheduler(syncer batchSyncer, cfg SyncScheduleConfig, logger *logging.Logger) (*SyncScheduler, error) {
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("%w: schedule interval must be > 0", ErrInvalidInput)
	}
	if len(normalizeLeagueIDs(cfg.LeagueExternalIDs)) == 0 {
		return nil, fmt.Errorf("%w: schedule needs at least one league", ErrInvalidInput)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SyncScheduler{syncer: syncer, cfg: cfg, logger: logger}, nil
}

// Run blocks until ctx is done.
func (s *SyncScheduler) Run(ctx context.Context) {
	if s.cfg.RunOnStart {
		s.Tick(ctx)
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one batch. A panicking sync is logged and does not stop the
// scheduler.
func (s *SyncScheduler) Tick(ctx context.Context) {
	var catcher panics.Catcher
	catcher.Try(func() {
		result, err := s.syncer.BatchFullSync(ctx, BatchSyncInput{
			LeagueExternalIDs: s.cfg.LeagueExternalIDs,
			MaxWorkers:        s.cfg.Workers,
		})
		if err != nil {
			s.logger.ErrorContext(ctx, "scheduled sync failed", "error", err)
			return
		}
		s.logger.InfoContext(ctx, "scheduled sync finished",
			"leagues", result.LeagueCount,
			"failed", result.FailedCount,
			"partial", result.PartialCount,
		)
	})
	if recovered := catcher.Recovered(); recovered != nil {
		s.logger.ErrorContext(ctx, "scheduled sync panicked", "error", recovered.AsError())
	}
}
