package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/sports-sync/internal/domain/sport"
)

type SportRepository struct {
	mu    sync.RWMutex
	items map[int64]sport.Sport
}

func NewSportRepository(sports []sport.Sport) *SportRepository {
	items := make(map[int64]sport.Sport, len(sports))
	for _, s := range sports {
		items[s.ID] = s
	}
	return &SportRepository{items: items}
}

func (r *SportRepository) GetByID(_ context.Context, id int64) (sport.Sport, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.items[id]
	return s, ok, nil
}
