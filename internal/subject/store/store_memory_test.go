package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifeline/internal/sentinel"
	"lifeline/internal/subject/models"
	id "lifeline/pkg/domain"
)

func TestInMemoryStoreOperations(t *testing.T) {
	store := New()
	ctx := context.Background()

	// Save and find
	subject := &models.Subject{
		ID:    id.SubjectID("S123"),
		Name:  "Asha",
		Email: "asha@example.com",
		Phone: "+15550100",
		Contacts: []models.EmergencyContact{
			{Name: "Ravi", Email: "ravi@example.com"},
		},
	}
	require.NoError(t, store.Save(ctx, subject))
	assert.False(t, subject.CreatedAt.IsZero())

	fetched, err := store.FindByID(ctx, id.SubjectID("S123"))
	require.NoError(t, err)
	assert.Equal(t, "Asha", fetched.Name)
	require.Len(t, fetched.Contacts, 1)
	assert.Equal(t, "ravi@example.com", fetched.Contacts[0].Email)

	// Copy integrity: mutating a fetched record must not affect the store
	fetched.Contacts[0].Email = "tampered@example.com"
	fetched.Name = "Tampered"
	again, err := store.FindByID(ctx, id.SubjectID("S123"))
	require.NoError(t, err)
	assert.Equal(t, "Asha", again.Name)
	assert.Equal(t, "ravi@example.com", again.Contacts[0].Email)

	// Upsert preserves CreatedAt
	created := subject.CreatedAt
	subject.Name = "Asha K"
	require.NoError(t, store.Save(ctx, subject))
	updated, err := store.FindByID(ctx, id.SubjectID("S123"))
	require.NoError(t, err)
	assert.Equal(t, "Asha K", updated.Name)
	assert.Equal(t, created, updated.CreatedAt)

	// Find non-existing
	missing, err := store.FindByID(ctx, id.SubjectID("nope"))
	require.ErrorIs(t, err, sentinel.ErrNotFound)
	assert.Nil(t, missing)
}

func TestInMemoryStoreOptionalFieldsAbsent(t *testing.T) {
	store := New()
	ctx := context.Background()

	subject := &models.Subject{ID: id.SubjectID("S456")}
	require.NoError(t, store.Save(ctx, subject))

	fetched, err := store.FindByID(ctx, id.SubjectID("S456"))
	require.NoError(t, err)
	assert.Empty(t, fetched.Name)
	assert.Empty(t, fetched.Email)
	assert.Empty(t, fetched.Phone)
	assert.Empty(t, fetched.Contacts)
	assert.Equal(t, models.UnknownName, fetched.DisplayName())
}
