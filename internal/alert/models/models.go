package models

import (
	"time"

	id "lifeline/pkg/domain"
)

// Status is the lifecycle state of an alert.
type Status string

const (
	// StatusActive is the state every alert is created in.
	StatusActive Status = "active"
	// StatusResolved is the terminal state set by an operator.
	StatusResolved Status = "resolved"
)

// AlertRecord is one persisted SOS alert.
//
// Subject name/email/phone are denormalized at write time so the record
// stays meaningful if the subject record changes later. ID and CreatedAt
// are store-assigned; CreatedAt is monotonically non-decreasing within a
// store. Coordinates are recorded as given, without range validation.
type AlertRecord struct {
	ID            id.AlertID
	SubjectID     id.SubjectID
	SubjectName   string
	SubjectEmail  string
	SubjectPhone  string
	Latitude      float64
	Longitude     float64
	Status        Status
	Resolved      bool
	DeviceSummary string
	CreatedAt     time.Time
	ResolvedAt    *time.Time
}

// CanResolve reports whether the alert is still open.
func (a *AlertRecord) CanResolve() bool {
	return !a.Resolved
}

// MarkResolved transitions the alert to its terminal state.
func (a *AlertRecord) MarkResolved(at time.Time) {
	a.Status = StatusResolved
	a.Resolved = true
	a.ResolvedAt = &at
}

// AlertResult carries the outcome of one processed SOS request: the stored
// alert plus the per-channel delivery outcomes. Channel failures are data
// here, never errors.
type AlertResult struct {
	Alert *AlertRecord
	Push  bool
	Email bool
}

// ListFilter narrows alert listings.
type ListFilter struct {
	SubjectID id.SubjectID
	Limit     int
}

// DefaultListLimit bounds listings when the caller does not set one.
const DefaultListLimit = 50

// MaxListLimit is the hard ceiling for a single listing.
const MaxListLimit = 500
