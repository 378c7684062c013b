package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	id "lifeline/pkg/domain"
)

// PostgresStore persists audit entries in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed audit store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, entry Entry) error {
	query := `
		INSERT INTO audit_entries (ts, request_id, alert_id, subject_id, stage, outcome, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	var alertID any
	if !entry.AlertID.IsNil() {
		alertID = uuid.UUID(entry.AlertID)
	}
	_, err := s.db.ExecContext(ctx, query,
		entry.Timestamp,
		entry.RequestID,
		alertID,
		string(entry.SubjectID),
		string(entry.Stage),
		entry.Outcome,
		entry.Detail,
	)
	if err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByAlert(ctx context.Context, alertID id.AlertID) ([]Entry, error) {
	query := `
		SELECT id, ts, request_id, alert_id, subject_id, stage, outcome, detail
		FROM audit_entries
		WHERE alert_id = $1
		ORDER BY seq
	`
	return s.list(ctx, query, uuid.UUID(alertID))
}

func (s *PostgresStore) ListBySubject(ctx context.Context, subjectID id.SubjectID) ([]Entry, error) {
	query := `
		SELECT id, ts, request_id, alert_id, subject_id, stage, outcome, detail
		FROM audit_entries
		WHERE subject_id = $1
		ORDER BY seq
	`
	return s.list(ctx, query, string(subjectID))
}

func (s *PostgresStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM audit_entries WHERE ts < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete audit entries: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete audit entries rows: %w", err)
	}
	return rows, nil
}

func (s *PostgresStore) list(ctx context.Context, query string, arg any) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return entries, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var entry Entry
	var entryID uuid.UUID
	var alertID uuid.NullUUID
	var subjectID, stage string
	if err := rows.Scan(&entryID, &entry.Timestamp, &entry.RequestID, &alertID, &subjectID, &stage, &entry.Outcome, &entry.Detail); err != nil {
		return Entry{}, err
	}
	entry.ID = id.AuditEntryID(entryID)
	if alertID.Valid {
		entry.AlertID = id.AlertID(alertID.UUID)
	}
	entry.SubjectID = id.SubjectID(subjectID)
	entry.Stage = Stage(stage)
	return entry, nil
}
