package services

import (
	"slices"
	"sync"
	"time"

	"museum-buddy/models/museum"
)

// BaselineProvider supplies the unfiltered museum list.
type BaselineProvider interface {
	Museums() []museum.Entity
}

// BaselineStore holds the current baseline in memory. Readers get copies.
type BaselineStore struct {
	mu          sync.RWMutex
	museums     []museum.Entity
	bySlug      map[string]int
	refreshedAt time.Time
}

func NewBaselineStore() *BaselineStore {
	return &BaselineStore{bySlug: map[string]int{}}
}

// Replace swaps in a new baseline.
func (s *BaselineStore) Replace(list []museum.Entity, refreshedAt time.Time) {
	index := make(map[string]int, len(list))
	for i, m := range list {
		index[m.Slug] = i
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.museums = slices.Clone(list)
	s.bySlug = index
	s.refreshedAt = refreshedAt
}

func (s *BaselineStore) Museums() []museum.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.museums)
}

// Museum looks up one baseline museum by slug.
func (s *BaselineStore) Museum(slug string) (museum.Entity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.bySlug[slug]
	if !ok {
		return museum.Entity{}, false
	}
	return s.museums[i], true
}

func (s *BaselineStore) RefreshedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshedAt
}
