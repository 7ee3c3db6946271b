package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/sports-sync/internal/domain/prediction"
)

type predictionKey struct {
	matchID  int64
	authorID string
	kind     string
}

type PredictionRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]prediction.Prediction
	keys   map[predictionKey]int64
}

func NewPredictionRepository() *PredictionRepository {
	return &PredictionRepository{
		items: make(map[int64]prediction.Prediction),
		keys:  make(map[predictionKey]int64),
	}
}

func (r *PredictionRepository) Upsert(_ context.Context, item prediction.Prediction) (prediction.Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	key := predictionKey{matchID: item.MatchID, authorID: item.AuthorID, kind: item.Kind}
	if id, ok := r.keys[key]; ok {
		stored := r.items[id]
		item.ID, item.PublicID, item.CreatedAt = stored.ID, stored.PublicID, stored.CreatedAt
		item.UpdatedAt = now
		r.items[id] = item
		return item, nil
	}

	r.nextID++
	item.ID = r.nextID
	item.CreatedAt, item.UpdatedAt = now, now
	r.items[item.ID] = item
	r.keys[key] = item.ID
	return item, nil
}

func (r *PredictionRepository) ListByMatch(_ context.Context, matchID int64) ([]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.Prediction, 0)
	for _, item := range r.items {
		if item.MatchID == matchID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *PredictionRepository) SetCorrectness(_ context.Context, id int64, correct bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return fmt.Errorf("prediction id=%d not found", id)
	}
	item.IsCorrect = &correct
	item.UpdatedAt = time.Now().UTC()
	r.items[id] = item
	return nil
}
