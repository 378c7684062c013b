package service

import (
	"context"
	"time"

	"lifeline/internal/alert/models"
	"lifeline/internal/audit"
	subjectmodels "lifeline/internal/subject/models"
	id "lifeline/pkg/domain"
)

// SubjectDirectory resolves subjects by identifier. The pipeline only
// reads; subject records are owned by the upstream registry.
type SubjectDirectory interface {
	FindByID(ctx context.Context, subjectID id.SubjectID) (*subjectmodels.Subject, error)
}

// AlertStore persists alert records. Create assigns ID and CreatedAt.
type AlertStore interface {
	Create(ctx context.Context, alert *models.AlertRecord) error
	FindByID(ctx context.Context, alertID id.AlertID) (*models.AlertRecord, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.AlertRecord, error)
	Resolve(ctx context.Context, alertID id.AlertID, resolvedAt time.Time) (*models.AlertRecord, error)
}

// AuditRecorder captures the pipeline's processing trail. Recording
// failures are logged by the recorder itself and never fail a request.
type AuditRecorder interface {
	Record(ctx context.Context, entry audit.Entry) error
	ListByAlert(ctx context.Context, alertID id.AlertID) ([]audit.Entry, error)
}

// EventPublisher announces alert lifecycle transitions to downstream
// systems. Implementations must not block the request path.
type EventPublisher interface {
	AlertCreated(ctx context.Context, alert *models.AlertRecord, outcomes models.NotificationOutcomes)
	AlertResolved(ctx context.Context, alert *models.AlertRecord)
}

// RateLimiter bounds per-subject alert submission.
type RateLimiter interface {
	Allow(subjectID id.SubjectID) bool
}

// DeviceDescriber summarizes the reporting device from a User-Agent.
type DeviceDescriber interface {
	Summary(userAgent string) string
}

// ShareTokenIssuer mints time-limited read tokens for single alerts.
type ShareTokenIssuer interface {
	Enabled() bool
	Issue(ctx context.Context, alertID id.AlertID) (string, time.Time, error)
}
