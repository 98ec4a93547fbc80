package history

import (
	"context"
	"sync"
	"time"

	"github.com/jurema-br/nino/models"
)

// InMemoryStore is a mutex-guarded map store for tests and local development.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]models.Turn
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string][]models.Turn)}
}

func (s *InMemoryStore) Append(_ context.Context, turn models.Turn) error {
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[turn.SessionID] = append(s.sessions[turn.SessionID], turn)
	return nil
}

func (s *InMemoryStore) Recent(_ context.Context, sessionID string, limit int) ([]models.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	turns := s.sessions[sessionID]
	if limit <= 0 || len(turns) == 0 {
		return []models.Turn{}, nil
	}
	if len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	out := make([]models.Turn, len(turns))
	copy(out, turns)
	return out, nil
}

// PruneOlderThan drops turns persisted before the cutoff.
func (s *InMemoryStore) PruneOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var pruned int64
	for id, turns := range s.sessions {
		kept := turns[:0]
		for _, t := range turns {
			if t.Timestamp.Before(cutoff) {
				pruned++
				continue
			}
			kept = append(kept, t)
		}
		if len(kept) == 0 {
			delete(s.sessions, id)
		} else {
			s.sessions[id] = kept
		}
	}
	return pruned, nil
}
