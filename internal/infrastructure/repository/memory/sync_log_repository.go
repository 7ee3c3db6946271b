package memory

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"

	"github.com/riskibarqy/sports-sync/internal/domain/synclog"
)

type SyncLogRepository struct {
	mu      sync.RWMutex
	entries []synclog.Entry
}

func NewSyncLogRepository() *SyncLogRepository {
	return &SyncLogRepository{}
}

func (r *SyncLogRepository) Append(_ context.Context, entry synclog.Entry) (int64, error) {
	if err := entry.Validate(); err != nil {
		return 0, fmt.Errorf("append sync log: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry.ID = int64(len(r.entries) + 1)
	entry.Detail = maps.Clone(entry.Detail)
	r.entries = append(r.entries, entry)
	return entry.ID, nil
}

func (r *SyncLogRepository) Query(_ context.Context, filter synclog.Filter) ([]synclog.Entry, error) {
	filter = filter.Normalize()

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]synclog.Entry, 0, filter.Limit)
	for _, entry := range r.entries {
		if filter.Matches(entry) {
			out = append(out, entry)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.After(out[j].StartedAt)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// All returns every entry in append order.
func (r *SyncLogRepository) All() []synclog.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]synclog.Entry(nil), r.entries...)
}
