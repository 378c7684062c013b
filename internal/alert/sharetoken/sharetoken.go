// Package sharetoken issues and verifies signed tokens that grant read
// access to a single alert. Responders receive the token in a share link
// and can fetch the alert without operator credentials; the token embeds
// the alert ID and expires after a configurable TTL.
package sharetoken

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
	"lifeline/pkg/platform/middleware/requesttime"
)

// DefaultTTL bounds how long a share link stays usable when no TTL is configured.
const DefaultTTL = 24 * time.Hour

const tokenIssuer = "lifeline"

// Claims carries the alert reference inside the signed token.
type Claims struct {
	AlertID string `json:"alert_id"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies share tokens with a symmetric key.
// An Issuer built with an empty key is disabled: Issue and Verify fail,
// and callers should not mount share routes at all.
type Issuer struct {
	signingKey []byte
	ttl        time.Duration
}

// New builds an Issuer. A non-positive ttl falls back to DefaultTTL.
func New(signingKey string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{
		signingKey: []byte(signingKey),
		ttl:        ttl,
	}
}

// Enabled reports whether a signing key was configured.
func (i *Issuer) Enabled() bool {
	return len(i.signingKey) > 0
}

// TTL returns the configured token lifetime.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue mints a share token for the given alert. The expiry anchors on the
// request-scoped clock so the token and the emitted share link agree.
func (i *Issuer) Issue(ctx context.Context, alertID id.AlertID) (string, time.Time, error) {
	if !i.Enabled() {
		return "", time.Time{}, dErrors.New(dErrors.CodeInternal, "share links are not configured")
	}
	if alertID.IsNil() {
		return "", time.Time{}, dErrors.New(dErrors.CodeInvalidInput, "alert ID is required")
	}

	now := requesttime.Now(ctx)
	expiresAt := now.Add(i.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		AlertID: alertID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(i.signingKey)
	if err != nil {
		return "", time.Time{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign share token")
	}
	return signed, expiresAt, nil
}

// Verify checks the signature and expiry of a share token and returns the
// alert it grants access to. Every failure maps to an unauthorized domain
// error so the transport layer never leaks why a token was rejected.
func (i *Issuer) Verify(tokenString string) (id.AlertID, error) {
	if !i.Enabled() {
		return id.AlertID{}, dErrors.New(dErrors.CodeUnauthorized, "share links are not configured")
	}
	if tokenString == "" {
		return id.AlertID{}, dErrors.New(dErrors.CodeUnauthorized, "missing share token")
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenUnverifiable
		}
		return i.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return id.AlertID{}, dErrors.New(dErrors.CodeUnauthorized, "share token expired")
		}
		return id.AlertID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid share token")
	}
	if !parsed.Valid {
		return id.AlertID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid share token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return id.AlertID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid share token claims")
	}
	if claims.Issuer != tokenIssuer {
		return id.AlertID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid share token issuer")
	}

	alertID, err := id.ParseAlertID(claims.AlertID)
	if err != nil || alertID.IsNil() {
		return id.AlertID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid share token claims")
	}
	return alertID, nil
}
