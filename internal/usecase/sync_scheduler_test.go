package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/sports-sync/internal/platform/logging"
)

type countingBatchSyncer struct {
	calls atomic.Int32
	panic bool
}

func (c *countingBatchSyncer) BatchFullSync(_ context.Context, input BatchSyncInput) (BatchSyncResult, error) {
	c.calls.Add(1)
	if c.panic {
		panic("boom")
	}
	return BatchSyncResult{LeagueCount: len(input.LeagueExternalIDs)}, nil
}

func TestNewSyncScheduler_Validates(t *testing.T) {
	t.Parallel()

	if _, err := NewSyncScheduler(&countingBatchSyncer{}, SyncScheduleConfig{LeagueExternalIDs: []string{"39"}}, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid interval error, got %v", err)
	}
	if _, err := NewSyncScheduler(&countingBatchSyncer{}, SyncScheduleConfig{Interval: time.Minute}, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected missing leagues error, got %v", err)
	}
}

func TestSyncScheduler_TickRecoversPanic(t *testing.T) {
	t.Parallel()

	syncer := &countingBatchSyncer{panic: true}
	scheduler, err := NewSyncScheduler(syncer, SyncScheduleConfig{Interval: time.Minute, LeagueExternalIDs: []string{"39"}}, logging.NewNop())
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}

	scheduler.Tick(context.Background())
	if syncer.calls.Load() != 1 {
		t.Fatalf("expected 1 call, got %d", syncer.calls.Load())
	}
}

func TestSyncScheduler_RunStopsOnCancel(t *testing.T) {
	t.Parallel()

	syncer := &countingBatchSyncer{}
	scheduler, err := NewSyncScheduler(syncer, SyncScheduleConfig{
		Interval:          5 * time.Millisecond,
		LeagueExternalIDs: []string{"39"},
		RunOnStart:        true,
	}, logging.NewNop())
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		scheduler.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for syncer.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("scheduler did not tick, calls=%d", syncer.calls.Load())
		case <-time.After(time.Millisecond):
		}
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("scheduler did not stop after cancel")
	}
}
