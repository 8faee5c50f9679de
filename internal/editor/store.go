package editor

import (
	"sync"

	"github.com/mtlprog/agentdesk/internal/domain"
)

// VersionStore tracks which version an editing session is looking at.
// Create one per session; it is safe for concurrent use.
type VersionStore struct {
	mu      sync.RWMutex
	viewed  *domain.AgentVersion
	compare *domain.AgentVersion
	unsaved bool
}

// StoreSnapshot is a point-in-time copy of a VersionStore.
type StoreSnapshot struct {
	Viewed            *domain.AgentVersion
	Compare           *domain.AgentVersion
	HasUnsavedChanges bool
}

// NewVersionStore creates an empty store.
func NewVersionStore() *VersionStore {
	return &VersionStore{}
}

func (s *VersionStore) SetViewedVersion(v *domain.AgentVersion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewed = v
}

func (s *VersionStore) ClearViewedVersion() {
	s.SetViewedVersion(nil)
}

func (s *VersionStore) ViewedVersion() *domain.AgentVersion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewed
}

func (s *VersionStore) SetCompareVersion(v *domain.AgentVersion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.compare = v
}

func (s *VersionStore) ClearCompareVersion() {
	s.SetCompareVersion(nil)
}

func (s *VersionStore) CompareVersion() *domain.AgentVersion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.compare
}

func (s *VersionStore) SetUnsavedChanges(dirty bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unsaved = dirty
}

func (s *VersionStore) HasUnsavedChanges() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unsaved
}

// Snapshot returns the current state in one consistent read.
func (s *VersionStore) Snapshot() StoreSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StoreSnapshot{
		Viewed:            s.viewed,
		Compare:           s.compare,
		HasUnsavedChanges: s.unsaved,
	}
}

// Reset clears everything, as when the session switches agents.
func (s *VersionStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewed = nil
	s.compare = nil
	s.unsaved = false
}
