package record

import (
	"context"
	"fmt"
	"sync"

	"genescreen/internal/screening/models"
	"genescreen/pkg/platform/sentinel"
)

// InMemoryStore is the single shared record cache for one process. Refreshes
// replace the whole set atomically under the write lock, so readers never
// observe a partial set. For distributed deployments use RedisStore.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[int64]models.ScreeningRecord
	order   []int64
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[int64]models.ScreeningRecord)}
}

// ReplaceAll swaps in a complete new record set. A failed refresh never calls
// this, so the previous contents survive transient read failures.
func (s *InMemoryStore) ReplaceAll(_ context.Context, records []models.ScreeningRecord) error {
	next := make(map[int64]models.ScreeningRecord, len(records))
	order := make([]int64, 0, len(records))
	for _, r := range records {
		if _, dup := next[r.ID]; !dup {
			order = append(order, r.ID)
		}
		next[r.ID] = r
	}

	s.mu.Lock()
	s.records = next
	s.order = order
	s.mu.Unlock()
	return nil
}

func (s *InMemoryStore) Find(_ context.Context, id int64) (*models.ScreeningRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.records[id]; ok {
		return &r, nil
	}
	return nil, fmt.Errorf("record %d: %w", id, sentinel.ErrNotFound)
}

func (s *InMemoryStore) List(_ context.Context) ([]models.ScreeningRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ScreeningRecord, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id])
	}
	return out, nil
}
