package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "lifeline/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant:
// "IDs must be well-formed, non-empty UUIDs".
//
// Nil UUIDs parse successfully on purpose: IsNil() handles them at the
// service layer so store lookups can return proper not-found errors.
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseAlertID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseAlertID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts nil UUID and flags it via IsNil", func(t *testing.T) {
		id, err := ParseAlertID(uuid.Nil.String())
		require.NoError(t, err)
		assert.True(t, id.IsNil())
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		id, err := ParseAlertID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, AlertID(validUUID), id)
		assert.False(t, id.IsNil())
	})
}

func TestParseSubjectID(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseSubjectID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts any non-empty identifier", func(t *testing.T) {
		id, err := ParseSubjectID("subject-042")
		require.NoError(t, err)
		assert.Equal(t, SubjectID("subject-042"), id)
		assert.Equal(t, "subject-042", id.String())
	})
}

// TestTypeDistinction verifies the compiler enforces type safety.
// This is a compile-time check - if this compiles, the invariant holds.
func TestTypeDistinction(t *testing.T) {
	alertID := AlertID(uuid.New())
	entryID := AuditEntryID(uuid.New())

	// These would fail to compile if types were interchangeable:
	// var _ AlertID = entryID      // compile error
	// var _ AuditEntryID = alertID // compile error

	// Verify they're distinct at runtime too
	assert.NotEqual(t, uuid.UUID(alertID), uuid.UUID(entryID))
}

func TestNewAlertID(t *testing.T) {
	a := NewAlertID()
	b := NewAlertID()
	assert.False(t, a.IsNil())
	assert.NotEqual(t, a, b)
}
