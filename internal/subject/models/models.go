package models

import (
	"time"

	id "lifeline/pkg/domain"
)

// UnknownName is the placeholder denormalized into alert records when a
// subject has no display name on file.
const UnknownName = "Unknown"

// EmergencyContact is a person to notify when the subject raises an alert.
// The JSON tags fix the shape stored in the subjects.contacts column.
type EmergencyContact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Subject is the person an alert concerns. Records originate in an upstream
// registry; the alert pipeline reads them and never writes them. Absent
// optional fields (name, email, phone) are a normal state, not an error.
type Subject struct {
	ID        id.SubjectID
	Name      string
	Email     string
	Phone     string
	Contacts  []EmergencyContact
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName returns the subject's name, or UnknownName when absent.
func (s Subject) DisplayName() string {
	if s.Name == "" {
		return UnknownName
	}
	return s.Name
}

// Clone returns a deep copy so callers can hand out records without
// aliasing the contacts slice.
func (s Subject) Clone() *Subject {
	copySubject := s
	if s.Contacts != nil {
		copySubject.Contacts = make([]EmergencyContact, len(s.Contacts))
		copy(copySubject.Contacts, s.Contacts)
	}
	return &copySubject
}
