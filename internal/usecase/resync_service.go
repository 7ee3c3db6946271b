package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
)

const maxBatchWorkers = 4

type BatchSyncInput struct {
	LeagueExternalIDs []string
	MaxWorkers        int
}

type BatchSyncResult struct {
	LeagueCount  int               `json:"league_count"`
	SuccessCount int               `json:"success_count"`
	PartialCount int               `json:"partial_count"`
	FailedCount  int               `json:"failed_count"`
	WorkerCount  int               `json:"worker_count"`
	Leagues      []BatchLeagueSync `json:"leagues"`
}

type BatchLeagueSync struct {
	LeagueExternalID string       `json:"league_external_id"`
	Status           string       `json:"status"`
	DurationMs       int64        `json:"duration_ms"`
	Message          string       `json:"message,omitempty"`
	Runs             []SyncResult `json:"runs"`
}

const (
	batchStatusSuccess = "success"
	batchStatusPartial = "partial"
	batchStatusFailed  = "failed"
)

// BatchFullSync runs FullSync for several leagues on a bounded worker
// pool. Every league gets its own sync log entries; one league failing
// does not stop the others.
func (s *SyncService) BatchFullSync(ctx context.Context, input BatchSyncInput) (BatchSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.BatchFullSync")
	defer span.End()

	leagues := normalizeLeagueIDs(input.LeagueExternalIDs)
	if len(leagues) == 0 {
		return BatchSyncResult{}, fmt.Errorf("%w: at least one league external id is required", ErrInvalidInput)
	}

	workerCount := normalizeBatchWorkerCount(input.MaxWorkers, len(leagues))
	result := BatchSyncResult{
		LeagueCount: len(leagues),
		WorkerCount: workerCount,
		Leagues:     make([]BatchLeagueSync, 0, len(leagues)),
	}

	results := make(chan BatchLeagueSync, len(leagues))

	var successCount atomic.Int32
	var partialCount atomic.Int32
	var failedCount atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return BatchSyncResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, leagueID := range leagues {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			runs, err := s.FullSync(ctx, leagueID)
			row := BatchLeagueSync{
				LeagueExternalID: leagueID,
				Runs:             runs,
				DurationMs:       time.Since(start).Milliseconds(),
			}

			switch {
			case err != nil:
				row.Status = batchStatusFailed
				row.Message = err.Error()
				failedCount.Add(1)
			case anyRunHasErrors(runs):
				row.Status = batchStatusPartial
				partialCount.Add(1)
			default:
				row.Status = batchStatusSuccess
				successCount.Add(1)
			}

			results <- row
		}); err != nil {
			workers.Done()
			workers.Wait()
			return BatchSyncResult{}, fmt.Errorf("submit league %s to worker pool: %w", leagueID, err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		result.Leagues = append(result.Leagues, row)
	}
	sort.SliceStable(result.Leagues, func(i, j int) bool {
		return result.Leagues[i].LeagueExternalID < result.Leagues[j].LeagueExternalID
	})

	result.SuccessCount = int(successCount.Load())
	result.PartialCount = int(partialCount.Load())
	result.FailedCount = int(failedCount.Load())

	s.logger.InfoContext(ctx, "batch sync finished",
		"leagues", result.LeagueCount,
		"workers", result.WorkerCount,
		"success", result.SuccessCount,
		"partial", result.PartialCount,
		"failed", result.FailedCount,
	)
	return result, nil
}

func anyRunHasErrors(runs []SyncResult) bool {
	for _, run := range runs {
		if run.HasErrors() {
			return true
		}
	}
	return false
}

func normalizeLeagueIDs(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	out := make([]string, 0, len(input))
	for _, raw := range input {
		for _, part := range strings.Split(raw, ",") {
			id := strings.TrimSpace(part)
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// normalizeBatchWorkerCount keeps concurrency small because every worker
// draws from the same provider quota.
func normalizeBatchWorkerCount(value int, taskCount int) int {
	if taskCount <= 0 {
		return 1
	}
	if value <= 0 {
		value = 1
	}
	if value > maxBatchWorkers {
		value = maxBatchWorkers
	}
	if value > taskCount {
		value = taskCount
	}
	return value
}
