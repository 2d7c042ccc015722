package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"agora/internal/registration/wizard"
	id "agora/pkg/domain"
	"agora/pkg/platform/sentinel"
)

type entry struct {
	snapshot  wizard.Snapshot
	expiresAt time.Time
}

// InMemoryStore keeps snapshots in a map and expires them lazily on read.
type InMemoryStore struct {
	mu      sync.Mutex
	entries map[id.DraftID]entry
	ttl     time.Duration
	now     func() time.Time
}

type MemoryOption func(*InMemoryStore)

func WithClock(now func() time.Time) MemoryOption {
	return func(s *InMemoryStore) {
		s.now = now
	}
}

func NewInMemoryStore(ttl time.Duration, opts ...MemoryOption) *InMemoryStore {
	s := &InMemoryStore{
		entries: make(map[id.DraftID]entry),
		ttl:     ttlOrDefault(ttl),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) Save(_ context.Context, snapshot wizard.Snapshot) error {
	key, err := id.ParseDraftID(snapshot.ID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{snapshot: cloneSnapshot(snapshot), expiresAt: s.now().Add(s.ttl)}
	return nil
}

// SaveIf stores snapshot only if the stored snapshot is in state expect.
func (s *InMemoryStore) SaveIf(_ context.Context, snapshot wizard.Snapshot, expect wizard.State) error {
	key, err := id.ParseDraftID(snapshot.ID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.live(key)
	if !ok {
		return fmt.Errorf("draft %s: %w", key, sentinel.ErrNotFound)
	}
	if current.snapshot.State != expect {
		return fmt.Errorf("draft %s is %s: %w", key, current.snapshot.State, sentinel.ErrConflict)
	}
	s.entries[key] = entry{snapshot: cloneSnapshot(snapshot), expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *InMemoryStore) Find(_ context.Context, draftID id.DraftID) (wizard.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.live(draftID)
	if !ok {
		return wizard.Snapshot{}, fmt.Errorf("draft %s: %w", draftID, sentinel.ErrNotFound)
	}
	return cloneSnapshot(e.snapshot), nil
}

func (s *InMemoryStore) Delete(_ context.Context, draftID id.DraftID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, draftID)
	return nil
}

// live returns the entry if present and unexpired. Caller holds mu.
func (s *InMemoryStore) live(draftID id.DraftID) (entry, bool) {
	e, ok := s.entries[draftID]
	if !ok {
		return entry{}, false
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, draftID)
		return entry{}, false
	}
	return e, true
}
