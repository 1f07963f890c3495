package memory

import (
	"context"
	"sync"
	"time"

	"github.com/PabloGalante/compass-agent/internal/domain"
)

// StateStore keeps one snapshot per user in process memory.
type StateStore struct {
	mu      sync.RWMutex
	records map[domain.UserID]*domain.StateRecord
}

func NewStateStore() *StateStore {
	return &StateStore{
		records: make(map[domain.UserID]*domain.StateRecord),
	}
}

func (s *StateStore) GetState(_ context.Context, userID domain.UserID) (*domain.StateRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[userID]
	if !ok {
		return nil, domain.ErrStateNotFound
	}

	out := *rec
	out.State = rec.State.Clone()
	return &out, nil
}

func (s *StateStore) UpsertState(_ context.Context, userID domain.UserID, state domain.AppState, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.records[userID]
	if !exists {
		rec = &domain.StateRecord{UserID: userID, CreatedAt: now}
		s.records[userID] = rec
	}

	rec.State = state.Clone()
	rec.UpdatedAt = now
	return nil
}
