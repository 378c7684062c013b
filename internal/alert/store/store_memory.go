package store

import (
	"context"
	"sync"
	"time"

	"lifeline/internal/alert/models"
	"lifeline/internal/sentinel"
	id "lifeline/pkg/domain"
)

// InMemoryStore holds alert records in memory. It backs tests and
// database-less deployments.
type InMemoryStore struct {
	mu          sync.RWMutex
	alerts      map[id.AlertID]*models.AlertRecord
	order       []id.AlertID
	lastCreated time.Time
}

// New constructs an empty in-memory alert store.
func New() *InMemoryStore {
	return &InMemoryStore{alerts: make(map[id.AlertID]*models.AlertRecord)}
}

// Create assigns a fresh ID and a monotonically non-decreasing creation
// time, then stores a copy of the record.
func (s *InMemoryStore) Create(_ context.Context, alert *models.AlertRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if now.Before(s.lastCreated) {
		now = s.lastCreated
	}
	s.lastCreated = now

	alert.ID = id.NewAlertID()
	alert.CreatedAt = now

	stored := *alert
	s.alerts[alert.ID] = &stored
	s.order = append(s.order, alert.ID)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, alertID id.AlertID) (*models.AlertRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	alert, ok := s.alerts[alertID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copyAlert := *alert
	return &copyAlert, nil
}

// List returns alerts newest-first, optionally filtered by subject.
func (s *InMemoryStore) List(_ context.Context, filter models.ListFilter) ([]*models.AlertRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := filter.Limit
	if limit <= 0 {
		limit = models.DefaultListLimit
	}

	var result []*models.AlertRecord
	for i := len(s.order) - 1; i >= 0 && len(result) < limit; i-- {
		alert := s.alerts[s.order[i]]
		if alert == nil {
			continue
		}
		if filter.SubjectID != "" && alert.SubjectID != filter.SubjectID {
			continue
		}
		copyAlert := *alert
		result = append(result, &copyAlert)
	}
	return result, nil
}

func (s *InMemoryStore) Resolve(_ context.Context, alertID id.AlertID, resolvedAt time.Time) (*models.AlertRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	alert, ok := s.alerts[alertID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if !alert.CanResolve() {
		return nil, sentinel.ErrInvalidState
	}
	alert.MarkResolved(resolvedAt)
	copyAlert := *alert
	return &copyAlert, nil
}

// DeleteResolvedBefore removes resolved alerts created before the cutoff.
// Open alerts are never swept regardless of age.
func (s *InMemoryStore) DeleteResolvedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	kept := s.order[:0]
	for _, alertID := range s.order {
		alert := s.alerts[alertID]
		if alert != nil && alert.Resolved && alert.CreatedAt.Before(cutoff) {
			delete(s.alerts, alertID)
			removed++
			continue
		}
		kept = append(kept, alertID)
	}
	s.order = kept
	return removed, nil
}
