package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lifeline/internal/alert/models"
	"lifeline/internal/sentinel"
	id "lifeline/pkg/domain"
)

// PostgresStore persists alert records in PostgreSQL. The seq column is a
// bigserial used for stable newest-first ordering; created_at alone can
// collide within a transaction batch.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed alert store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, alert *models.AlertRecord) error {
	if alert == nil {
		return fmt.Errorf("alert record is required")
	}
	query := `
		INSERT INTO alerts (subject_id, subject_name, subject_email, subject_phone,
		                    latitude, longitude, status, resolved, device_summary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		RETURNING id, created_at
	`
	var alertID uuid.UUID
	err := s.db.QueryRowContext(ctx, query,
		string(alert.SubjectID),
		alert.SubjectName,
		alert.SubjectEmail,
		alert.SubjectPhone,
		alert.Latitude,
		alert.Longitude,
		string(alert.Status),
		alert.Resolved,
		alert.DeviceSummary,
	).Scan(&alertID, &alert.CreatedAt)
	if err != nil {
		return fmt.Errorf("create alert: %w", err)
	}
	alert.ID = id.AlertID(alertID)
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, alertID id.AlertID) (*models.AlertRecord, error) {
	query := `
		SELECT id, subject_id, subject_name, subject_email, subject_phone,
		       latitude, longitude, status, resolved, device_summary, created_at, resolved_at
		FROM alerts
		WHERE id = $1
	`
	alert, err := scanAlert(s.db.QueryRowContext(ctx, query, uuid.UUID(alertID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("alert %s: %w", alertID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find alert: %w", err)
	}
	return alert, nil
}

func (s *PostgresStore) List(ctx context.Context, filter models.ListFilter) ([]*models.AlertRecord, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = models.DefaultListLimit
	}

	query := `
		SELECT id, subject_id, subject_name, subject_email, subject_phone,
		       latitude, longitude, status, resolved, device_summary, created_at, resolved_at
		FROM alerts
	`
	args := []any{}
	if filter.SubjectID != "" {
		query += " WHERE subject_id = $1 ORDER BY seq DESC LIMIT $2"
		args = append(args, string(filter.SubjectID), limit)
	} else {
		query += " ORDER BY seq DESC LIMIT $1"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var alerts []*models.AlertRecord
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		alerts = append(alerts, alert)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alerts: %w", err)
	}
	return alerts, nil
}

// Resolve transitions an open alert to resolved. The WHERE clause makes the
// transition atomic; a second resolve distinguishes already-resolved from
// missing with a follow-up existence check.
func (s *PostgresStore) Resolve(ctx context.Context, alertID id.AlertID, resolvedAt time.Time) (*models.AlertRecord, error) {
	query := `
		UPDATE alerts
		SET status = $2, resolved = true, resolved_at = $3
		WHERE id = $1 AND resolved = false
		RETURNING id, subject_id, subject_name, subject_email, subject_phone,
		          latitude, longitude, status, resolved, device_summary, created_at, resolved_at
	`
	alert, err := scanAlert(s.db.QueryRowContext(ctx, query, uuid.UUID(alertID), string(models.StatusResolved), resolvedAt))
	if err == nil {
		return alert, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("resolve alert: %w", err)
	}

	var exists bool
	checkErr := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM alerts WHERE id = $1)`, uuid.UUID(alertID)).Scan(&exists)
	if checkErr != nil {
		return nil, fmt.Errorf("resolve alert existence check: %w", checkErr)
	}
	if exists {
		return nil, fmt.Errorf("alert %s: %w", alertID, sentinel.ErrInvalidState)
	}
	return nil, fmt.Errorf("alert %s: %w", alertID, sentinel.ErrNotFound)
}

func (s *PostgresStore) DeleteResolvedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM alerts WHERE resolved = true AND created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete resolved alerts: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete resolved alerts rows: %w", err)
	}
	return rows, nil
}

type alertRow interface {
	Scan(dest ...any) error
}

func scanAlert(row alertRow) (*models.AlertRecord, error) {
	var alert models.AlertRecord
	var alertID uuid.UUID
	var subjectID, status string
	var resolvedAt sql.NullTime
	if err := row.Scan(
		&alertID,
		&subjectID,
		&alert.SubjectName,
		&alert.SubjectEmail,
		&alert.SubjectPhone,
		&alert.Latitude,
		&alert.Longitude,
		&status,
		&alert.Resolved,
		&alert.DeviceSummary,
		&alert.CreatedAt,
		&resolvedAt,
	); err != nil {
		return nil, err
	}
	alert.ID = id.AlertID(alertID)
	alert.SubjectID = id.SubjectID(subjectID)
	alert.Status = models.Status(status)
	if resolvedAt.Valid {
		alert.ResolvedAt = &resolvedAt.Time
	}
	return &alert, nil
}
