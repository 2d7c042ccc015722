package audit

import (
	"context"
	"slices"
	"sync"

	id "agora/pkg/domain"
)

// InMemoryStore records events in order.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// ListByDraft returns the events for one draft in emission order.
func (s *InMemoryStore) ListByDraft(draftID id.DraftID) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, e := range s.events {
		if e.DraftID == draftID {
			out = append(out, e)
		}
	}
	return out
}

// All returns every event.
func (s *InMemoryStore) All() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.events)
}
