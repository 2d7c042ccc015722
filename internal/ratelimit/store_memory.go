package ratelimit

import (
	"context"
	"sync"
	"time"
)

// InMemoryStore keeps request timestamps per key. It is not shared across
// processes.
type InMemoryStore struct {
	mu      sync.Mutex
	buckets map[string][]time.Time
	now     func() time.Time
}

type MemoryOption func(*InMemoryStore)

func WithClock(now func() time.Time) MemoryOption {
	return func(s *InMemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

func NewInMemoryStore(opts ...MemoryOption) *InMemoryStore {
	s := &InMemoryStore{buckets: make(map[string][]time.Time), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) Allow(_ context.Context, key string, limit int, window time.Duration) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	cutoff := now.Add(-window)
	stamps := s.buckets[key]
	kept := stamps[:0]
	for _, ts := range stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	res := Result{Limit: limit}
	if len(kept) < limit {
		kept = append(kept, now)
		res.Allowed = true
	}
	res.Remaining = max(limit-len(kept), 0)
	res.ResetAt = now.Add(window)
	if len(kept) > 0 {
		res.ResetAt = kept[0].Add(window)
	}
	s.buckets[key] = kept
	return res, nil
}
