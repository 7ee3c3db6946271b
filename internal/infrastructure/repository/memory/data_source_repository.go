package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/sports-sync/internal/domain/datasource"
)

type DataSourceRepository struct {
	mu     sync.RWMutex
	nextID int64
	byName map[string]datasource.DataSource
}

func NewDataSourceRepository(sources []datasource.DataSource) *DataSourceRepository {
	r := &DataSourceRepository{byName: make(map[string]datasource.DataSource, len(sources))}
	for _, item := range sources {
		r.nextID++
		item.ID = r.nextID
		r.byName[item.Name] = item
	}
	return r
}

func (r *DataSourceRepository) List(_ context.Context) ([]datasource.DataSource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]datasource.DataSource, 0, len(r.byName))
	for _, item := range r.byName {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *DataSourceRepository) Ensure(_ context.Context, item datasource.DataSource) (datasource.DataSource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if stored, ok := r.byName[item.Name]; ok {
		item.ID = stored.ID
		item.LastSyncAt = stored.LastSyncAt
	} else {
		r.nextID++
		item.ID = r.nextID
	}
	r.byName[item.Name] = item
	return item, nil
}

func (r *DataSourceRepository) TouchLastSync(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, item := range r.byName {
		if item.ID == id {
			at := at.UTC()
			item.LastSyncAt = &at
			r.byName[name] = item
			return nil
		}
	}
	return fmt.Errorf("data source id=%d not found", id)
}
