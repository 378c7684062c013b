// Package requestcontext provides typed accessors for request-scoped values.
// Middleware injects values once at the edge; handlers and services read them
// through these helpers instead of touching context keys directly.
package requestcontext

import "context"

type contextKeyRequestID struct{}
type contextKeyClientIP struct{}
type contextKeyUserAgent struct{}
type contextKeyDeviceID struct{}
type contextKeyDeviceFingerprint struct{}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID{}, requestID)
}

// RequestID returns the request ID from the context, or "" when not set.
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(contextKeyRequestID{}).(string); ok {
		return v
	}
	return ""
}

// WithClientMetadata stores the client IP and User-Agent in the context.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, contextKeyClientIP{}, clientIP)
	return context.WithValue(ctx, contextKeyUserAgent{}, userAgent)
}

// ClientIP returns the client IP from the context, or "" when not set.
func ClientIP(ctx context.Context) string {
	if v, ok := ctx.Value(contextKeyClientIP{}).(string); ok {
		return v
	}
	return ""
}

// UserAgent returns the User-Agent from the context, or "" when not set.
func UserAgent(ctx context.Context) string {
	if v, ok := ctx.Value(contextKeyUserAgent{}).(string); ok {
		return v
	}
	return ""
}

// WithDeviceID stores the caller-supplied device ID in the context.
func WithDeviceID(ctx context.Context, deviceID string) context.Context {
	return context.WithValue(ctx, contextKeyDeviceID{}, deviceID)
}

// DeviceID returns the device ID from the context, or "" when not set.
func DeviceID(ctx context.Context) string {
	if v, ok := ctx.Value(contextKeyDeviceID{}).(string); ok {
		return v
	}
	return ""
}

// WithDeviceFingerprint stores the precomputed device fingerprint in the context.
func WithDeviceFingerprint(ctx context.Context, fingerprint string) context.Context {
	return context.WithValue(ctx, contextKeyDeviceFingerprint{}, fingerprint)
}

// DeviceFingerprint returns the device fingerprint from the context, or "" when not set.
func DeviceFingerprint(ctx context.Context) string {
	if v, ok := ctx.Value(contextKeyDeviceFingerprint{}).(string); ok {
		return v
	}
	return ""
}
