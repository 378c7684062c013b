package device

import (
	"net/http"

	"lifeline/pkg/requestcontext"
)

// DeviceConfig holds configuration for the Device middleware.
type DeviceConfig struct {
	// FingerprintFn computes a device fingerprint from the User-Agent string.
	// This is typically device.Service.ComputeFingerprint.
	FingerprintFn func(userAgent string) string

	// HeaderName is the name of the device ID header (e.g., "X-Device-ID").
	// Mobile SOS clients send a stable installation identifier here.
	HeaderName string
}

// Device extracts the caller's device ID and pre-computes a device fingerprint.
// It should be registered after ClientMetadata middleware (which extracts User-Agent).
//
// The middleware:
// 1. Extracts the device ID from the configured header and injects into context
// 2. Pre-computes a device fingerprint from User-Agent and injects into context
func Device(cfg *DeviceConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			// Extract device ID from header (if present)
			if cfg.HeaderName != "" {
				if deviceID := r.Header.Get(cfg.HeaderName); deviceID != "" {
					ctx = requestcontext.WithDeviceID(ctx, deviceID)
				}
			}

			// Pre-compute fingerprint from User-Agent (already in context from ClientMetadata)
			if cfg.FingerprintFn != nil {
				userAgent := requestcontext.UserAgent(ctx)
				if userAgent != "" {
					fingerprint := cfg.FingerprintFn(userAgent)
					ctx = requestcontext.WithDeviceFingerprint(ctx, fingerprint)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
