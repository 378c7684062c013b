// Package notify defines the side-channel contract for announcing alerts.
//
// Channels are best-effort by contract: Send never returns an error. A
// provider fault, timeout, or missing configuration becomes a Result with
// Delivered false and a Reason for the logs. The alert pipeline treats
// these outcomes as data and never fails a request because of them.
package notify

import (
	"context"

	alertmodels "lifeline/internal/alert/models"
	subjectmodels "lifeline/internal/subject/models"
)

// Payload carries everything a channel needs to announce one alert. The
// alert holds the denormalized snapshot; the subject carries the contact
// list, which is not denormalized into the record. ShareURL is a signed
// view link for the alert, empty when share links are not configured.
type Payload struct {
	Alert    *alertmodels.AlertRecord
	Subject  *subjectmodels.Subject
	ShareURL string
}

// Result is one channel's outcome. ProviderID is the provider-assigned
// notification id when the provider issues one.
type Result struct {
	Delivered  bool
	Reason     string
	ProviderID string
}

// Channel delivers an alert announcement through one side channel.
type Channel interface {
	Name() string
	Send(ctx context.Context, p Payload) Result
}

// disabledChannel satisfies Channel for deployments missing credentials.
type disabledChannel struct {
	name   string
	reason string
}

// Disabled returns a no-op channel that reports non-delivery with the
// given reason. Wiring logs the degraded state once at startup; per-send
// results carry it for the delivery report.
func Disabled(name, reason string) Channel {
	return disabledChannel{name: name, reason: reason}
}

func (d disabledChannel) Name() string { return d.name }

func (d disabledChannel) Send(context.Context, Payload) Result {
	return Result{Delivered: false, Reason: d.reason}
}
