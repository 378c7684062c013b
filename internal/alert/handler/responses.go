package handler

import (
	"time"

	"lifeline/internal/audit"
	id "lifeline/pkg/domain"
)

// AuditEntryResponse is one pipeline trail step on the wire.
type AuditEntryResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Stage     string    `json:"stage"`
	Outcome   string    `json:"outcome"`
	Detail    string    `json:"detail,omitempty"`
	RequestID string    `json:"requestId,omitempty"`
}

// AlertTrailResponse wraps the audit trail of one alert.
type AlertTrailResponse struct {
	AlertID string               `json:"alertId"`
	Entries []AuditEntryResponse `json:"entries"`
}

func newAlertTrailResponse(alertID id.AlertID, entries []audit.Entry) *AlertTrailResponse {
	resp := &AlertTrailResponse{
		AlertID: alertID.String(),
		Entries: make([]AuditEntryResponse, 0, len(entries)),
	}
	for _, entry := range entries {
		resp.Entries = append(resp.Entries, AuditEntryResponse{
			Timestamp: entry.Timestamp,
			Stage:     string(entry.Stage),
			Outcome:   entry.Outcome,
			Detail:    entry.Detail,
			RequestID: entry.RequestID,
		})
	}
	return resp
}
