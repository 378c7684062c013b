// Package tracer provides a lightweight tracing abstraction for alert processing.
//
// It defines an internal tracer interface that does not depend directly on
// OpenTelemetry APIs, so the alert service can emit distributed traces while
// staying decoupled from a specific tracing backend.
//
// Subject identifiers are hashed before they reach a span, and raw coordinates
// are never attached as attributes: trace backends are not a place for a
// person's location.
//
// Implementations:
//   - NoopTracer: for tests (zero overhead)
//   - OTelTracer: OpenTelemetry adapter for production
package tracer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span, recording any error that occurred.
	// End must be called exactly once, typically via defer.
	End(err error)

	// SetAttributes adds key-value pairs to the span.
	SetAttributes(attrs ...Attribute)

	// AddEvent records a timestamped event within the span.
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans for distributed tracing.
// Implementations must be safe for concurrent use.
type Tracer interface {
	// Start creates a new span with the given name and attributes.
	// The returned context carries the span and should flow to child operations.
	//
	// Example:
	//   ctx, span := tracer.Start(ctx, tracer.SpanProcess,
	//       tracer.String(tracer.AttrSubjectID, tracer.HashSubjectID(subjectID)),
	//   )
	//   defer span.End(nil)
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

// String creates a string attribute.
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute.
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int64 creates an int64 attribute.
func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Float64 creates a float64 attribute.
func Float64(key string, value float64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// HashSubjectID returns a short SHA-256 hash of the subject ID for safe use
// in traces. Spans stay correlatable per subject without exposing the raw
// identifier to the tracing backend.
func HashSubjectID(subjectID string) string {
	if subjectID == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(subjectID))
	return hex.EncodeToString(hash[:8])
}

// Span names used by the alert module.
const (
	SpanProcess     = "alert.process"
	SpanPersist     = "alert.persist"
	SpanNotify      = "alert.notify"
	SpanNotifyPush  = "alert.notify.push"
	SpanNotifyEmail = "alert.notify.email"
	SpanResolve     = "alert.resolve"
	SpanGet         = "alert.get"
	SpanList        = "alert.list"
)

// Attribute keys used by the alert module.
const (
	AttrSubjectID      = "subject_id"
	AttrAlertID        = "alert_id"
	AttrChannel        = "channel"
	AttrPushDelivered  = "push.delivered"
	AttrEmailDelivered = "email.delivered"
	AttrOutcome        = "outcome"
)

// Event names used by the alert module.
const (
	EventSubjectResolved = "subject.resolved"
	EventAlertPersisted  = "alert.persisted"
	EventEventPublished  = "event.published"
)
