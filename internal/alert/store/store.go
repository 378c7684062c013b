package store

import (
	"context"
	"time"

	"lifeline/internal/alert/models"
	id "lifeline/pkg/domain"
)

// Store persists alert records.
//
// Error Contract:
// - FindByID and Resolve return sentinel.ErrNotFound for unknown ids
// - Resolve returns sentinel.ErrInvalidState when the alert is already resolved
// - Create assigns ID and CreatedAt; CreatedAt never decreases within a store
type Store interface {
	Create(ctx context.Context, alert *models.AlertRecord) error
	FindByID(ctx context.Context, alertID id.AlertID) (*models.AlertRecord, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.AlertRecord, error)
	Resolve(ctx context.Context, alertID id.AlertID, resolvedAt time.Time) (*models.AlertRecord, error)
	DeleteResolvedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
