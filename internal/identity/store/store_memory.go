package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"agora/internal/identity/password"
	"agora/internal/registration/provisioning"
	id "agora/pkg/domain"
	"agora/pkg/platform/sentinel"
)

// InMemoryIssuer keeps accounts in a map keyed by lower-cased email.
type InMemoryIssuer struct {
	mu       sync.RWMutex
	accounts map[string]Account
	hasher   password.Hasher
	now      func() time.Time
}

type MemoryOption func(*InMemoryIssuer)

// WithHasher overrides the bcrypt cost, mostly for tests.
func WithHasher(h password.Hasher) MemoryOption {
	return func(s *InMemoryIssuer) {
		s.hasher = h
	}
}

func NewInMemoryIssuer(opts ...MemoryOption) *InMemoryIssuer {
	s := &InMemoryIssuer{
		accounts: make(map[string]Account),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateAccount satisfies provisioning.IdentityIssuer.
func (s *InMemoryIssuer) CreateAccount(_ context.Context, email, plain string, attrs provisioning.AccountAttributes) (id.UserID, error) {
	account, err := newAccount(s.hasher, email, plain, attrs, s.now())
	if err != nil {
		return id.UserID{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := emailKey(account.Email)
	if _, exists := s.accounts[key]; exists {
		return id.UserID{}, fmt.Errorf("account %s: %w", key, sentinel.ErrConflict)
	}
	s.accounts[key] = account
	return account.ID, nil
}

// FindByEmail returns the stored account or sentinel.ErrNotFound.
func (s *InMemoryIssuer) FindByEmail(_ context.Context, email string) (Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[emailKey(email)]
	if !ok {
		return Account{}, sentinel.ErrNotFound
	}
	return account, nil
}
