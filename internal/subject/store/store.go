package store

import (
	"context"

	"lifeline/internal/subject/models"
	id "lifeline/pkg/domain"
)

// Store provides access to subject records. The alert pipeline only reads;
// Save exists for the seeder and for tests.
type Store interface {
	FindByID(ctx context.Context, subjectID id.SubjectID) (*models.Subject, error)
	Save(ctx context.Context, subject *models.Subject) error
}
