package journal

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"genescreen/pkg/platform/sentinel"
)

// InMemoryStore keeps attempts for tests and single-node development.
type InMemoryStore struct {
	mu       sync.RWMutex
	attempts map[uuid.UUID]Attempt
	order    []uuid.UUID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{attempts: make(map[uuid.UUID]Attempt)}
}

func (s *InMemoryStore) Append(_ context.Context, attempt Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.attempts[attempt.ID]; !exists {
		s.order = append(s.order, attempt.ID)
	}
	s.attempts[attempt.ID] = attempt
	return nil
}

func (s *InMemoryStore) MarkOutcome(_ context.Context, id uuid.UUID, status AttemptStatus, reason, txHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	attempt, ok := s.attempts[id]
	if !ok {
		return fmt.Errorf("attempt %s: %w", id, sentinel.ErrNotFound)
	}
	attempt.Status = status
	attempt.Reason = reason
	attempt.TxHash = txHash
	s.attempts[id] = attempt
	return nil
}

func (s *InMemoryStore) ListByAccount(_ context.Context, account string) ([]Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Attempt
	for _, id := range s.order {
		if a := s.attempts[id]; a.Account == account {
			out = append(out, a)
		}
	}
	return out, nil
}
