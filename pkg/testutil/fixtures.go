package testutil

import (
	"time"

	"github.com/google/uuid"

	alertmodels "lifeline/internal/alert/models"
	subjectmodels "lifeline/internal/subject/models"
	id "lifeline/pkg/domain"
)

// TestIDs provides convenient pre-generated IDs for tests.
// Use these for deterministic test data.
var TestIDs = struct {
	SubjectID1 id.SubjectID
	SubjectID2 id.SubjectID
	AlertID1   id.AlertID
	AlertID2   id.AlertID
}{
	SubjectID1: id.SubjectID("S-1111"),
	SubjectID2: id.SubjectID("S-2222"),
	AlertID1:   id.AlertID(uuid.MustParse("aaaa0000-0000-0000-0000-000000000001")),
	AlertID2:   id.AlertID(uuid.MustParse("aaaa0000-0000-0000-0000-000000000002")),
}

// SubjectBuilder provides a fluent interface for building test subjects.
type SubjectBuilder struct {
	subject *subjectmodels.Subject
}

// NewSubjectBuilder creates a new SubjectBuilder with sensible defaults.
func NewSubjectBuilder() *SubjectBuilder {
	return &SubjectBuilder{
		subject: &subjectmodels.Subject{
			ID:    TestIDs.SubjectID1,
			Name:  "Test Subject",
			Email: "subject@example.com",
			Phone: "+15550100",
		},
	}
}

func (b *SubjectBuilder) WithID(subjectID id.SubjectID) *SubjectBuilder {
	b.subject.ID = subjectID
	return b
}

func (b *SubjectBuilder) WithName(name string) *SubjectBuilder {
	b.subject.Name = name
	return b
}

func (b *SubjectBuilder) WithEmail(email string) *SubjectBuilder {
	b.subject.Email = email
	return b
}

func (b *SubjectBuilder) WithPhone(phone string) *SubjectBuilder {
	b.subject.Phone = phone
	return b
}

func (b *SubjectBuilder) WithContacts(contacts ...subjectmodels.EmergencyContact) *SubjectBuilder {
	b.subject.Contacts = contacts
	return b
}

// Bare strips every optional field, leaving only the identifier.
func (b *SubjectBuilder) Bare() *SubjectBuilder {
	b.subject.Name = ""
	b.subject.Email = ""
	b.subject.Phone = ""
	b.subject.Contacts = nil
	return b
}

func (b *SubjectBuilder) Build() *subjectmodels.Subject {
	return b.subject
}

// AlertBuilder provides a fluent interface for building test alert records.
type AlertBuilder struct {
	alert *alertmodels.AlertRecord
}

// NewAlertBuilder creates a new AlertBuilder with sensible defaults.
func NewAlertBuilder() *AlertBuilder {
	return &AlertBuilder{
		alert: &alertmodels.AlertRecord{
			ID:           id.NewAlertID(),
			SubjectID:    TestIDs.SubjectID1,
			SubjectName:  "Test Subject",
			SubjectEmail: "subject@example.com",
			SubjectPhone: "+15550100",
			Latitude:     22.5726,
			Longitude:    88.3639,
			Status:       alertmodels.StatusActive,
			CreatedAt:    time.Now().UTC(),
		},
	}
}

func (b *AlertBuilder) WithID(alertID id.AlertID) *AlertBuilder {
	b.alert.ID = alertID
	return b
}

func (b *AlertBuilder) WithSubject(subject *subjectmodels.Subject) *AlertBuilder {
	b.alert.SubjectID = subject.ID
	b.alert.SubjectName = subject.DisplayName()
	b.alert.SubjectEmail = subject.Email
	b.alert.SubjectPhone = subject.Phone
	return b
}

func (b *AlertBuilder) WithSubjectID(subjectID id.SubjectID) *AlertBuilder {
	b.alert.SubjectID = subjectID
	return b
}

func (b *AlertBuilder) WithCoordinates(lat, lon float64) *AlertBuilder {
	b.alert.Latitude = lat
	b.alert.Longitude = lon
	return b
}

func (b *AlertBuilder) WithDeviceSummary(summary string) *AlertBuilder {
	b.alert.DeviceSummary = summary
	return b
}

func (b *AlertBuilder) CreatedAt(t time.Time) *AlertBuilder {
	b.alert.CreatedAt = t
	return b
}

func (b *AlertBuilder) Resolved() *AlertBuilder {
	b.alert.MarkResolved(time.Now().UTC())
	return b
}

func (b *AlertBuilder) Build() *alertmodels.AlertRecord {
	return b.alert
}

// Quick helper functions for simple test cases

// NewTestSubject creates a test subject with the given ID.
func NewTestSubject(subjectID id.SubjectID) *subjectmodels.Subject {
	return NewSubjectBuilder().
		WithID(subjectID).
		Build()
}

// NewTestAlert creates an active test alert for the given subject.
func NewTestAlert(alertID id.AlertID, subjectID id.SubjectID) *alertmodels.AlertRecord {
	return NewAlertBuilder().
		WithID(alertID).
		WithSubjectID(subjectID).
		Build()
}
