package audit

import (
	"context"
	"sync"
	"time"

	id "lifeline/pkg/domain"
)

// InMemoryStore keeps audit entries in memory for tests and database-less
// deployments.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}

func (s *InMemoryStore) Append(_ context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.ID.IsNil() {
		entry.ID = id.NewAuditEntryID()
	}
	s.entries = append(s.entries, entry)
	return nil
}

func (s *InMemoryStore) ListByAlert(_ context.Context, alertID id.AlertID) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []Entry
	for _, entry := range s.entries {
		if entry.AlertID == alertID {
			matched = append(matched, entry)
		}
	}
	return matched, nil
}

func (s *InMemoryStore) ListBySubject(_ context.Context, subjectID id.SubjectID) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []Entry
	for _, entry := range s.entries {
		if entry.SubjectID == subjectID {
			matched = append(matched, entry)
		}
	}
	return matched, nil
}

func (s *InMemoryStore) DeleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	kept := s.entries[:0]
	for _, entry := range s.entries {
		if entry.Timestamp.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, entry)
	}
	s.entries = kept
	return removed, nil
}
