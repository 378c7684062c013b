// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"github.com/google/uuid"

	dErrors "lifeline/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing AlertID where AuditEntryID is expected.
type (
	AlertID      uuid.UUID
	AuditEntryID uuid.UUID
)

// SubjectID is the caller-supplied identifier of a monitored person.
// It is opaque to this service: external systems mint it, we only look it up.
type SubjectID string

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParseAlertID(s string) (AlertID, error) {
	id, err := parseUUID(s, "alert ID")
	return AlertID(id), err
}

func ParseAuditEntryID(s string) (AuditEntryID, error) {
	id, err := parseUUID(s, "audit entry ID")
	return AuditEntryID(id), err
}

func ParseSubjectID(s string) (SubjectID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "subject ID cannot be empty")
	}
	return SubjectID(s), nil
}

// New functions - mint identifiers for server-assigned records.

func NewAlertID() AlertID           { return AlertID(uuid.New()) }
func NewAuditEntryID() AuditEntryID { return AuditEntryID(uuid.New()) }

// String methods - for logging and debugging.

func (id AlertID) String() string      { return uuid.UUID(id).String() }
func (id AuditEntryID) String() string { return uuid.UUID(id).String() }
func (id SubjectID) String() string    { return string(id) }

// IsNil checks - used for service-layer validation.

func (id AlertID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id AuditEntryID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id SubjectID) IsNil() bool    { return id == "" }

// parseUUID is the shared validation logic.
// Note: Nil UUIDs are allowed here. Use IsNil() at the service layer for
// business validation, which allows store lookups to return proper
// "not found" errors for consistency.
func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label+" format")
	}
	return id, nil
}
