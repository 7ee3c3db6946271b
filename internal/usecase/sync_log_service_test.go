package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/sports-sync/internal/domain/synclog"
	synclogmock "github.com/riskibarqy/sports-sync/internal/mocks/domain/synclog"
	"github.com/stretchr/testify/mock"
)

func TestSyncLogService_Query(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := synclogmock.NewRepository(t)
	service := NewSyncLogService(repo)

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	repo.
		On("Query", mock.Anything, synclog.Filter{
			EntityType: synclog.EntityMatches,
			Status:     synclog.StatusFailed,
			From:       from,
			Limit:      synclog.MaxQueryLimit,
		}).
		Return([]synclog.Entry{{ID: 3}}, nil).
		Once()

	entries, err := service.Query(ctx, SyncLogQuery{
		EntityType: "MATCHES",
		Status:     "failed",
		From:       from,
		Limit:      10_000,
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != 3 {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestSyncLogService_QueryRejectsBadFilters(t *testing.T) {
	t.Parallel()

	service := NewSyncLogService(synclogmock.NewRepository(t))
	now := time.Now()

	cases := map[string]SyncLogQuery{
		"entity": {EntityType: "players"},
		"status": {Status: "DONE"},
		"limit":  {Limit: -1},
		"range":  {From: now, To: now.Add(-time.Hour)},
	}
	for name, q := range cases {
		if _, err := service.Query(context.Background(), q); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected invalid input, got %v", name, err)
		}
	}
}
