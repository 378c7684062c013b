//go:build integration

package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"lifeline/internal/alert/models"
	"lifeline/internal/alert/store"
	"lifeline/internal/sentinel"
	id "lifeline/pkg/domain"
	"lifeline/pkg/testutil/containers"
)

type PostgresAlertStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresAlertStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresAlertStoreSuite))
}

func (s *PostgresAlertStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresAlertStoreSuite) SetupTest() {
	ctx := context.Background()
	err := s.postgres.TruncateTables(ctx, "audit_entries", "alerts", "subjects")
	s.Require().NoError(err)
}

func (s *PostgresAlertStoreSuite) newAlert(subjectID string) *models.AlertRecord {
	return &models.AlertRecord{
		SubjectID:    id.SubjectID(subjectID),
		SubjectName:  "Asha",
		SubjectEmail: "asha@example.com",
		SubjectPhone: "+15550100",
		Latitude:     22.59,
		Longitude:    88.36,
		Status:       models.StatusActive,
	}
}

func (s *PostgresAlertStoreSuite) TestCreateAssignsIDAndTimestamp() {
	ctx := context.Background()

	alert := s.newAlert("S123")
	s.Require().NoError(s.store.Create(ctx, alert))
	s.False(alert.ID.IsNil())
	s.False(alert.CreatedAt.IsZero())

	fetched, err := s.store.FindByID(ctx, alert.ID)
	s.Require().NoError(err)
	s.Equal(alert.SubjectID, fetched.SubjectID)
	s.Equal("Asha", fetched.SubjectName)
	s.InDelta(22.59, fetched.Latitude, 1e-9)
	s.Equal(models.StatusActive, fetched.Status)
	s.False(fetched.Resolved)
	s.Nil(fetched.ResolvedAt)
}

// TestRepeatedCreatesAreDistinct verifies the no-idempotence contract at
// the persistence layer: identical payloads become independent rows.
func (s *PostgresAlertStoreSuite) TestRepeatedCreatesAreDistinct() {
	ctx := context.Background()

	first := s.newAlert("S123")
	second := s.newAlert("S123")
	s.Require().NoError(s.store.Create(ctx, first))
	s.Require().NoError(s.store.Create(ctx, second))

	s.NotEqual(first.ID, second.ID)

	alerts, err := s.store.List(ctx, models.ListFilter{SubjectID: id.SubjectID("S123")})
	s.Require().NoError(err)
	s.Len(alerts, 2)
}

func (s *PostgresAlertStoreSuite) TestListOrdersNewestFirst() {
	ctx := context.Background()

	var ids []id.AlertID
	for range 5 {
		alert := s.newAlert("S123")
		s.Require().NoError(s.store.Create(ctx, alert))
		ids = append(ids, alert.ID)
	}

	alerts, err := s.store.List(ctx, models.ListFilter{Limit: 3})
	s.Require().NoError(err)
	s.Require().Len(alerts, 3)
	s.Equal(ids[4], alerts[0].ID)
	s.Equal(ids[3], alerts[1].ID)
	s.Equal(ids[2], alerts[2].ID)
}

func (s *PostgresAlertStoreSuite) TestResolveTransitions() {
	ctx := context.Background()

	alert := s.newAlert("S123")
	s.Require().NoError(s.store.Create(ctx, alert))

	resolved, err := s.store.Resolve(ctx, alert.ID, time.Now().UTC())
	s.Require().NoError(err)
	s.True(resolved.Resolved)
	s.Equal(models.StatusResolved, resolved.Status)
	s.Require().NotNil(resolved.ResolvedAt)

	_, err = s.store.Resolve(ctx, alert.ID, time.Now().UTC())
	s.Require().ErrorIs(err, sentinel.ErrInvalidState)

	_, err = s.store.Resolve(ctx, id.NewAlertID(), time.Now().UTC())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

// TestConcurrentResolveSingleWinner exercises the atomic UPDATE guard:
// exactly one of many concurrent resolvers wins.
func (s *PostgresAlertStoreSuite) TestConcurrentResolveSingleWinner() {
	ctx := context.Background()

	alert := s.newAlert("S123")
	s.Require().NoError(s.store.Create(ctx, alert))

	const goroutines = 10
	var wg sync.WaitGroup
	results := make(chan error, goroutines)
	for range goroutines {
		wg.Go(func() {
			_, err := s.store.Resolve(ctx, alert.ID, time.Now().UTC())
			results <- err
		})
	}
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, sentinel.ErrInvalidState):
			conflicts++
		default:
			s.Failf("unexpected error", "%v", err)
		}
	}
	s.Equal(1, wins)
	s.Equal(goroutines-1, conflicts)
}

func (s *PostgresAlertStoreSuite) TestDeleteResolvedBefore() {
	ctx := context.Background()

	swept := s.newAlert("S1")
	open := s.newAlert("S2")
	s.Require().NoError(s.store.Create(ctx, swept))
	s.Require().NoError(s.store.Create(ctx, open))

	_, err := s.store.Resolve(ctx, swept.ID, time.Now().UTC())
	s.Require().NoError(err)

	removed, err := s.store.DeleteResolvedBefore(ctx, time.Now().UTC().Add(time.Minute))
	s.Require().NoError(err)
	s.Equal(int64(1), removed)

	_, err = s.store.FindByID(ctx, open.ID)
	s.Require().NoError(err)
	_, err = s.store.FindByID(ctx, swept.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
