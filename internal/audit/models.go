package audit

import (
	"time"

	id "lifeline/pkg/domain"
)

// Stage marks where in the alert pipeline an entry was recorded.
type Stage string

const (
	StageReceived        Stage = "received"
	StageRejected        Stage = "rejected"
	StageSubjectResolved Stage = "subject_resolved"
	StagePersisted       Stage = "persisted"
	StagePushAttempted   Stage = "push_attempted"
	StageEmailAttempted  Stage = "email_attempted"
	StageResolved        Stage = "resolved"
)

// Outcome values. Notification stages use Delivered/NotDelivered; the rest
// use OK/Failed.
const (
	OutcomeOK           = "ok"
	OutcomeFailed       = "failed"
	OutcomeDelivered    = "delivered"
	OutcomeNotDelivered = "not_delivered"
)

// Entry is one step of an alert's processing trail. AlertID is empty for
// stages that run before persistence assigns one. Keep it transport-
// agnostic so stores and sinks can fan out.
type Entry struct {
	ID        id.AuditEntryID
	Timestamp time.Time
	RequestID string
	AlertID   id.AlertID
	SubjectID id.SubjectID
	Stage     Stage
	Outcome   string
	Detail    string
}
