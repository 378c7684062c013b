package audit

import (
	"context"
	"time"

	id "lifeline/pkg/domain"
)

// Store is the append-only sink for audit entries.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	ListByAlert(ctx context.Context, alertID id.AlertID) ([]Entry, error)
	ListBySubject(ctx context.Context, subjectID id.SubjectID) ([]Entry, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
