//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"lifeline/internal/sentinel"
	"lifeline/internal/subject/models"
	"lifeline/internal/subject/store"
	id "lifeline/pkg/domain"
	"lifeline/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	err := s.postgres.TruncateTables(ctx, "audit_entries", "alerts", "subjects")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestSaveAndFind() {
	ctx := context.Background()

	subject := &models.Subject{
		ID:    id.SubjectID("S123"),
		Name:  "Asha",
		Email: "asha@example.com",
		Phone: "+15550100",
		Contacts: []models.EmergencyContact{
			{Name: "Ravi", Email: "ravi@example.com"},
			{Name: "Mira", Email: "mira@example.com"},
		},
	}
	s.Require().NoError(s.store.Save(ctx, subject))
	s.False(subject.CreatedAt.IsZero())

	fetched, err := s.store.FindByID(ctx, id.SubjectID("S123"))
	s.Require().NoError(err)
	s.Equal("Asha", fetched.Name)
	s.Equal("asha@example.com", fetched.Email)
	s.Require().Len(fetched.Contacts, 2)
	s.Equal("ravi@example.com", fetched.Contacts[0].Email)
	s.Equal("Mira", fetched.Contacts[1].Name)
}

func (s *PostgresStoreSuite) TestUpsertPreservesCreatedAt() {
	ctx := context.Background()

	subject := &models.Subject{ID: id.SubjectID("S123"), Name: "Asha"}
	s.Require().NoError(s.store.Save(ctx, subject))
	created := subject.CreatedAt

	subject.Name = "Asha K"
	subject.Contacts = []models.EmergencyContact{{Name: "Ravi", Email: "ravi@example.com"}}
	s.Require().NoError(s.store.Save(ctx, subject))

	fetched, err := s.store.FindByID(ctx, id.SubjectID("S123"))
	s.Require().NoError(err)
	s.Equal("Asha K", fetched.Name)
	s.Require().Len(fetched.Contacts, 1)
	s.WithinDuration(created, fetched.CreatedAt, 0)
	s.True(fetched.UpdatedAt.After(fetched.CreatedAt) || fetched.UpdatedAt.Equal(fetched.CreatedAt))
}

func (s *PostgresStoreSuite) TestFindMissingSubject() {
	ctx := context.Background()

	fetched, err := s.store.FindByID(ctx, id.SubjectID("missing"))
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
	s.Nil(fetched)
}

func (s *PostgresStoreSuite) TestEmptyOptionalFieldsRoundTrip() {
	ctx := context.Background()

	subject := &models.Subject{ID: id.SubjectID("S456")}
	s.Require().NoError(s.store.Save(ctx, subject))

	fetched, err := s.store.FindByID(ctx, id.SubjectID("S456"))
	s.Require().NoError(err)
	s.Empty(fetched.Name)
	s.Empty(fetched.Email)
	s.Empty(fetched.Phone)
	s.Empty(fetched.Contacts)
}
