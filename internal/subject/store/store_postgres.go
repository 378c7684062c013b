package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"lifeline/internal/sentinel"
	"lifeline/internal/subject/models"
	id "lifeline/pkg/domain"
)

// PostgresStore persists subject records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed subject store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindByID(ctx context.Context, subjectID id.SubjectID) (*models.Subject, error) {
	query := `
		SELECT id, name, email, phone, contacts, created_at, updated_at
		FROM subjects
		WHERE id = $1
	`
	subject, err := scanSubject(s.db.QueryRowContext(ctx, query, string(subjectID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("subject %s: %w", subjectID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find subject: %w", err)
	}
	return subject, nil
}

func (s *PostgresStore) Save(ctx context.Context, subject *models.Subject) error {
	if subject == nil {
		return fmt.Errorf("subject is required")
	}
	contacts, err := json.Marshal(subject.Contacts)
	if err != nil {
		return fmt.Errorf("marshal subject contacts: %w", err)
	}
	if subject.Contacts == nil {
		contacts = []byte("[]")
	}

	query := `
		INSERT INTO subjects (id, name, email, phone, contacts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    email = EXCLUDED.email,
		    phone = EXCLUDED.phone,
		    contacts = EXCLUDED.contacts,
		    updated_at = now()
		RETURNING created_at, updated_at
	`
	err = s.db.QueryRowContext(ctx, query,
		string(subject.ID),
		subject.Name,
		subject.Email,
		subject.Phone,
		contacts,
	).Scan(&subject.CreatedAt, &subject.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save subject: %w", err)
	}
	return nil
}

type subjectRow interface {
	Scan(dest ...any) error
}

func scanSubject(row subjectRow) (*models.Subject, error) {
	var subject models.Subject
	var subjectID string
	var contacts []byte
	if err := row.Scan(&subjectID, &subject.Name, &subject.Email, &subject.Phone, &contacts, &subject.CreatedAt, &subject.UpdatedAt); err != nil {
		return nil, err
	}
	subject.ID = id.SubjectID(subjectID)
	if len(contacts) > 0 {
		if err := json.Unmarshal(contacts, &subject.Contacts); err != nil {
			return nil, fmt.Errorf("unmarshal subject contacts: %w", err)
		}
	}
	return &subject, nil
}
