// Package store holds the Profile Store backends used by provisioning.
package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"agora/internal/registration/provisioning"
	id "agora/pkg/domain"
	"agora/pkg/platform/sentinel"
)

// InMemoryStore keeps profile records in maps. All three writes take the
// same lock, so CreateRoleProfile is atomic.
type InMemoryStore struct {
	mu        sync.RWMutex
	contacts  map[id.UserID]provisioning.ContactUpdate
	documents map[id.UserID][]provisioning.DocumentRecord
	roles     map[id.UserID]provisioning.RoleProfile
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		contacts:  make(map[id.UserID]provisioning.ContactUpdate),
		documents: make(map[id.UserID][]provisioning.DocumentRecord),
		roles:     make(map[id.UserID]provisioning.RoleProfile),
	}
}

func (s *InMemoryStore) Update(_ context.Context, userID id.UserID, fields provisioning.ContactUpdate) error {
	if userID.IsNil() {
		return fmt.Errorf("update contact: %w", sentinel.ErrNotFound)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts[userID] = fields
	return nil
}

func (s *InMemoryStore) InsertDocumentRecord(_ context.Context, record provisioning.DocumentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.documents[record.OwnerID] {
		if existing.StorageKey == record.StorageKey {
			return fmt.Errorf("document %s: %w", record.StorageKey, sentinel.ErrConflict)
		}
	}
	s.documents[record.OwnerID] = append(s.documents[record.OwnerID], record)
	return nil
}

func (s *InMemoryStore) CreateRoleProfile(_ context.Context, userID id.UserID, profile provisioning.RoleProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.roles[userID]; exists {
		return fmt.Errorf("role profile: %w", sentinel.ErrConflict)
	}
	profile.Capabilities = slices.Clone(profile.Capabilities)
	s.roles[userID] = profile
	return nil
}

// Contact returns the stored contact fields.
func (s *InMemoryStore) Contact(userID id.UserID) (provisioning.ContactUpdate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contacts[userID]
	return c, ok
}

// Documents lists the metadata records owned by userID.
func (s *InMemoryStore) Documents(userID id.UserID) []provisioning.DocumentRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.documents[userID])
}

// RoleProfile returns the stored role profile.
func (s *InMemoryStore) RoleProfile(userID id.UserID) (provisioning.RoleProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.roles[userID]
	return p, ok
}
