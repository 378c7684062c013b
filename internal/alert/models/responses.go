package models

import "time"

// The alert API uses camelCase field names on the wire; the mobile clients
// that raise alerts already speak that shape.

// NotificationOutcomes reports per-channel delivery as data. A false means
// the channel did not confirm delivery, never that the request failed.
type NotificationOutcomes struct {
	PushNotification bool `json:"pushNotification"`
	Email            bool `json:"email"`
}

// ProcessSOSResponse is the success envelope for a processed alert.
type ProcessSOSResponse struct {
	Success       bool                 `json:"success"`
	Message       string               `json:"message"`
	AlertID       string               `json:"alertId"`
	Notifications NotificationOutcomes `json:"notifications"`
}

// AlertResponse is the read model returned by alert lookups.
type AlertResponse struct {
	ID            string     `json:"id"`
	SubjectID     string     `json:"subjectId"`
	SubjectName   string     `json:"subjectName"`
	SubjectEmail  string     `json:"subjectEmail,omitempty"`
	SubjectPhone  string     `json:"subjectPhone,omitempty"`
	Latitude      float64    `json:"lat"`
	Longitude     float64    `json:"lon"`
	Status        Status     `json:"status"`
	Resolved      bool       `json:"resolved"`
	DeviceSummary string     `json:"deviceSummary,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	ResolvedAt    *time.Time `json:"resolvedAt,omitempty"`
}

// NewAlertResponse maps a stored record to its API shape.
func NewAlertResponse(a *AlertRecord) *AlertResponse {
	return &AlertResponse{
		ID:            a.ID.String(),
		SubjectID:     a.SubjectID.String(),
		SubjectName:   a.SubjectName,
		SubjectEmail:  a.SubjectEmail,
		SubjectPhone:  a.SubjectPhone,
		Latitude:      a.Latitude,
		Longitude:     a.Longitude,
		Status:        a.Status,
		Resolved:      a.Resolved,
		DeviceSummary: a.DeviceSummary,
		CreatedAt:     a.CreatedAt,
		ResolvedAt:    a.ResolvedAt,
	}
}

// ListAlertsResponse wraps a bounded listing.
type ListAlertsResponse struct {
	Alerts []*AlertResponse `json:"alerts"`
	Count  int              `json:"count"`
}

// ResolveResponse confirms an alert's transition to resolved.
type ResolveResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Alert   *AlertResponse `json:"alert"`
}

// ShareLinkResponse carries a time-limited read token for one alert.
type ShareLinkResponse struct {
	AlertID   string    `json:"alertId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
