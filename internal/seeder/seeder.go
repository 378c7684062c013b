// Package seeder populates the in-memory subject directory with demo
// records so the service is usable out of the box in dev mode.
package seeder

import (
	"context"
	"fmt"
	"log/slog"

	"lifeline/internal/subject/models"
)

// SubjectStore defines the write surface the seeder needs.
type SubjectStore interface {
	Save(ctx context.Context, subject *models.Subject) error
}

// Seeder populates stores with demo data.
type Seeder struct {
	subjects SubjectStore
	logger   *slog.Logger
}

// New creates a seeder writing to the given store.
func New(subjects SubjectStore, logger *slog.Logger) *Seeder {
	return &Seeder{subjects: subjects, logger: logger}
}

// SeedAll writes the demo subjects. The set deliberately covers every
// recipient-selection branch: contacts present, own email only, phone
// only, and a record with nothing optional at all.
func (s *Seeder) SeedAll(ctx context.Context) error {
	s.logger.Info("seeding demo subjects")

	demo := []*models.Subject{
		{
			ID:    "S001",
			Name:  "Alice Anderson",
			Email: "alice@example.com",
			Phone: "+15550100",
			Contacts: []models.EmergencyContact{
				{Name: "Bob Brown", Email: "bob@example.com"},
				{Name: "Carol Chen", Email: "carol@example.com"},
			},
		},
		{
			ID:    "S002",
			Name:  "Diego Diaz",
			Email: "diego@example.com",
			Phone: "+15550101",
		},
		{
			ID:    "S003",
			Name:  "Esha Eswaran",
			Phone: "+15550102",
			Contacts: []models.EmergencyContact{
				{Name: "Farid Farah", Email: "farid@example.com"},
			},
		},
		{
			ID: "S004",
		},
	}

	for _, subject := range demo {
		if err := s.subjects.Save(ctx, subject); err != nil {
			return fmt.Errorf("failed to seed subject %s: %w", subject.ID, err)
		}
	}

	s.logger.Info("demo subjects seeded", "count", len(demo))
	return nil
}
