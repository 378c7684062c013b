package store

import (
	"context"
	"sync"
	"time"

	"lifeline/internal/sentinel"
	"lifeline/internal/subject/models"
	id "lifeline/pkg/domain"
)

// Error Contract:
// All store methods follow this error pattern:
// - Return ErrNotFound when the requested entity does not exist
// - Return nil for successful operations
// - Return wrapped errors with context for infrastructure failures

// InMemoryStore holds subject records in memory. It backs tests and
// database-less deployments.
type InMemoryStore struct {
	mu       sync.RWMutex
	subjects map[id.SubjectID]*models.Subject
}

// New constructs an empty in-memory subject store.
func New() *InMemoryStore {
	return &InMemoryStore{subjects: make(map[id.SubjectID]*models.Subject)}
}

func (s *InMemoryStore) FindByID(_ context.Context, subjectID id.SubjectID) (*models.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	subject, ok := s.subjects[subjectID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return subject.Clone(), nil
}

func (s *InMemoryStore) Save(_ context.Context, subject *models.Subject) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	stored := subject.Clone()
	if existing, ok := s.subjects[subject.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	s.subjects[subject.ID] = stored
	subject.CreatedAt = stored.CreatedAt
	subject.UpdatedAt = stored.UpdatedAt
	return nil
}
