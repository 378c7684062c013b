package admin

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"lifeline/pkg/requestcontext"
	"lifeline/pkg/secrets"
)

// Context keys for admin request attribution.
type contextKeyAdminActorID struct{}
type contextKeyAdminAuthorized struct{}

// ContextKeyAdminActorID is exported for use in handlers and tests.
var ContextKeyAdminActorID = contextKeyAdminActorID{}

// GetAdminActorID retrieves the admin actor identifier from the context.
// Returns empty string if not set or if this is not an admin request.
func GetAdminActorID(ctx context.Context) string {
	if actorID, ok := ctx.Value(ContextKeyAdminActorID).(string); ok {
		return actorID
	}
	return ""
}

// IsAdminRequest reports whether the request passed admin authentication.
func IsAdminRequest(ctx context.Context) bool {
	authorized, ok := ctx.Value(contextKeyAdminAuthorized{}).(bool)
	return ok && authorized
}

// RequireAdminToken authenticates requests against a plaintext token using
// constant-time comparison. An empty expected token rejects every request.
func RequireAdminToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("X-Admin-Token")
			// Use constant-time comparison to prevent timing attacks
			if expectedToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
				rejectUnauthorized(w, r, logger)
				return
			}

			next.ServeHTTP(w, r.WithContext(authorize(r.Context(), r)))
		})
	}
}

// RequireAdminTokenHash authenticates requests against a bcrypt hash of the
// admin token, so the plaintext never has to live in the environment.
// An empty expected hash rejects every request.
func RequireAdminTokenHash(expectedHash string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("X-Admin-Token")
			if expectedHash == "" || token == "" || secrets.Verify(token, expectedHash) != nil {
				rejectUnauthorized(w, r, logger)
				return
			}

			next.ServeHTTP(w, r.WithContext(authorize(r.Context(), r)))
		})
	}
}

// MarkAdminToken marks the context as admin-authenticated when the request
// carries the expected token, but never rejects. Routes behind it can offer
// extra behavior to admins while staying reachable by everyone else.
func MarkAdminToken(expectedToken string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("X-Admin-Token")
			if expectedToken != "" && subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) == 1 {
				r = r.WithContext(authorize(r.Context(), r))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// MarkAdminTokenHash is MarkAdminToken for a bcrypt-hashed token.
func MarkAdminTokenHash(expectedHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("X-Admin-Token")
			if expectedHash != "" && token != "" && secrets.Verify(token, expectedHash) == nil {
				r = r.WithContext(authorize(r.Context(), r))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// authorize marks the context as admin-authenticated and captures the admin
// actor identifier for audit attribution.
func authorize(ctx context.Context, r *http.Request) context.Context {
	ctx = context.WithValue(ctx, contextKeyAdminAuthorized{}, true)
	if actorID := r.Header.Get("X-Admin-Actor-ID"); actorID != "" {
		ctx = context.WithValue(ctx, ContextKeyAdminActorID, actorID)
	}
	return ctx
}

func rejectUnauthorized(w http.ResponseWriter, r *http.Request, logger *slog.Logger) {
	ctx := r.Context()
	logger.WarnContext(ctx, "admin token mismatch",
		"request_id", requestcontext.RequestID(ctx),
	)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"success":false,"error":"unauthorized: admin token required"}`))
}
