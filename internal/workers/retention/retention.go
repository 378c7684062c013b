// Package retention periodically deletes aged-out audit entries and
// resolved alerts so the stores do not grow without bound.
package retention

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// AlertStore exposes deletion of resolved alerts older than a cutoff.
type AlertStore interface {
	DeleteResolvedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// AuditStore exposes deletion of audit entries older than a cutoff.
type AuditStore interface {
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Result summarizes the deletions performed by one sweep.
type Result struct {
	DeletedAlerts       int64
	DeletedAuditEntries int64
}

// Sweeper runs the retention policy on a fixed interval. Active alerts are
// never touched regardless of age.
type Sweeper struct {
	alerts   AlertStore
	audits   AuditStore
	interval time.Duration
	maxAge   time.Duration
	logger   *slog.Logger
}

// Option configures the Sweeper.
type Option func(*Sweeper)

// WithInterval overrides the sweep interval when greater than zero.
func WithInterval(interval time.Duration) Option {
	return func(s *Sweeper) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithLogger overrides the logger used for sweep errors.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sweeper) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a Sweeper retaining records for maxAge. A non-positive
// maxAge means keep forever: the sweeper is constructed disabled and
// never deletes anything.
func New(alerts AlertStore, audits AuditStore, maxAge time.Duration, opts ...Option) (*Sweeper, error) {
	if alerts == nil || audits == nil {
		return nil, fmt.Errorf("alerts and audits stores are required")
	}
	s := &Sweeper{
		alerts:   alerts,
		audits:   audits,
		interval: time.Hour,
		maxAge:   maxAge,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Enabled reports whether a retention window is configured.
func (s *Sweeper) Enabled() bool {
	return s.maxAge > 0
}

// Start sweeps periodically until ctx is cancelled. A disabled sweeper
// returns immediately.
func (s *Sweeper) Start(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if res, err := s.RunOnce(ctx); err != nil {
				s.logger.ErrorContext(ctx, "retention sweep failed", "error", err)
			} else if res.DeletedAlerts > 0 || res.DeletedAuditEntries > 0 {
				s.logger.InfoContext(ctx, "retention sweep completed",
					"deleted_alerts", res.DeletedAlerts,
					"deleted_audit_entries", res.DeletedAuditEntries)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// RunOnce performs a single sweep against the cutoff derived from maxAge.
// Errors from the two stores are aggregated so one failing store does not
// stop the other's cleanup.
func (s *Sweeper) RunOnce(ctx context.Context) (Result, error) {
	if !s.Enabled() {
		return Result{}, nil
	}
	cutoff := time.Now().UTC().Add(-s.maxAge)
	var res Result
	var errs []error

	deletedAlerts, err := s.alerts.DeleteResolvedBefore(ctx, cutoff)
	if err != nil {
		errs = append(errs, fmt.Errorf("delete resolved alerts: %w", err))
	} else {
		res.DeletedAlerts = deletedAlerts
	}

	deletedEntries, err := s.audits.DeleteBefore(ctx, cutoff)
	if err != nil {
		errs = append(errs, fmt.Errorf("delete audit entries: %w", err))
	} else {
		res.DeletedAuditEntries = deletedEntries
	}

	if len(errs) > 0 {
		return res, errors.Join(errs...)
	}
	return res, nil
}
