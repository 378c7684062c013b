// Package ratelimit bounds how often a single subject can raise alerts.
// A stuck or malicious device re-sending SOS requests must not drown the
// notification channels; one limiter per subject keeps unrelated subjects
// unaffected.
package ratelimit

import (
	"time"

	"golang.org/x/time/rate"

	id "lifeline/pkg/domain"
	pkgsync "lifeline/pkg/platform/sync"
)

// Limiter hands out per-subject token buckets. The zero interval disables
// limiting so deployments can opt out.
type Limiter struct {
	limit    rate.Limit
	burst    int
	limiters *pkgsync.Sharded[*rate.Limiter]
	enabled  bool
}

// New builds a limiter allowing one alert per `every` with the given
// burst. every <= 0 disables limiting; burst < 1 is clamped to 1.
func New(every time.Duration, burst int) *Limiter {
	if every <= 0 {
		return &Limiter{enabled: false}
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		limit:    rate.Every(every),
		burst:    burst,
		limiters: pkgsync.NewSharded[*rate.Limiter](),
		enabled:  true,
	}
}

// Enabled reports whether limiting is active.
func (l *Limiter) Enabled() bool {
	return l.enabled
}

// Allow reports whether the subject may raise another alert now. The
// subject's bucket is created on first sight.
func (l *Limiter) Allow(subjectID id.SubjectID) bool {
	if !l.enabled {
		return true
	}
	limiter := l.limiters.GetOrCreate(subjectID.String(), func() *rate.Limiter {
		return rate.NewLimiter(l.limit, l.burst)
	})
	return limiter.Allow()
}

// Reset drops the subject's bucket, restoring its full burst.
func (l *Limiter) Reset(subjectID id.SubjectID) {
	if !l.enabled {
		return
	}
	l.limiters.Delete(subjectID.String())
}

// Size returns the number of tracked subjects.
func (l *Limiter) Size() int {
	if !l.enabled {
		return 0
	}
	return l.limiters.Len()
}
