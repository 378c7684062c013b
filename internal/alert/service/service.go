// Package service implements the alert pipeline: validate the request,
// resolve the subject, persist the alert, fan out to the notification
// channels, and aggregate the per-channel outcomes.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	alertmetrics "lifeline/internal/alert/metrics"
	"lifeline/internal/alert/models"
	"lifeline/internal/alert/tracer"
	"lifeline/internal/audit"
	"lifeline/internal/notify"
	"lifeline/internal/sentinel"
	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
	"lifeline/pkg/platform/middleware/requesttime"
	"lifeline/pkg/requestcontext"
)

// ShareLink is a time-limited read credential for one alert.
type ShareLink struct {
	AlertID   id.AlertID
	Token     string
	ExpiresAt time.Time
}

// Service coordinates the alert pipeline. All collaborators are injected;
// the optional ones (audit, events, limiter, devices, share tokens,
// metrics, tracer) may be left unset and are nil-checked at use.
type Service struct {
	subjects SubjectDirectory
	alerts   AlertStore
	push     notify.Channel
	email    notify.Channel

	auditRecorder AuditRecorder
	events        EventPublisher
	limiter       RateLimiter
	devices       DeviceDescriber
	shareTokens   ShareTokenIssuer
	shareBaseURL  string
	metrics       *alertmetrics.Metrics
	tracer        tracer.Tracer
	logger        *slog.Logger
}

// Option configures optional Service collaborators.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *alertmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

func WithAuditRecorder(r AuditRecorder) Option {
	return func(s *Service) { s.auditRecorder = r }
}

func WithEventPublisher(p EventPublisher) Option {
	return func(s *Service) { s.events = p }
}

func WithRateLimiter(l RateLimiter) Option {
	return func(s *Service) { s.limiter = l }
}

func WithDeviceDescriber(d DeviceDescriber) Option {
	return func(s *Service) { s.devices = d }
}

func WithShareTokens(i ShareTokenIssuer) Option {
	return func(s *Service) { s.shareTokens = i }
}

// WithShareBaseURL sets the public base for share links embedded in
// notifications. Without it share tokens stay an operator feature only.
func WithShareBaseURL(baseURL string) Option {
	return func(s *Service) { s.shareBaseURL = strings.TrimRight(baseURL, "/") }
}

// New constructs the alert service. Subjects, alerts, and both channels
// are required; a deployment without provider credentials passes a
// notify.Disabled channel rather than nil.
func New(subjects SubjectDirectory, alerts AlertStore, push, email notify.Channel, opts ...Option) *Service {
	s := &Service{
		subjects: subjects,
		alerts:   alerts,
		push:     push,
		email:    email,
		tracer:   tracer.NewNoop(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAlert returns one alert record.
func (s *Service) GetAlert(ctx context.Context, alertID id.AlertID) (*models.AlertRecord, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanGet,
		tracer.String(tracer.AttrAlertID, alertID.String()))

	alert, err := s.alerts.FindByID(ctx, alertID)
	if err != nil {
		err = translateAlertErr(err, "failed to load alert")
		span.End(err)
		return nil, err
	}
	span.End(nil)
	return alert, nil
}

// ListAlerts returns alerts newest first, optionally narrowed to one
// subject. The limit is clamped to the model ceiling.
func (s *Service) ListAlerts(ctx context.Context, filter models.ListFilter) ([]*models.AlertRecord, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanList)

	if filter.Limit <= 0 {
		filter.Limit = models.DefaultListLimit
	}
	if filter.Limit > models.MaxListLimit {
		filter.Limit = models.MaxListLimit
	}

	alerts, err := s.alerts.List(ctx, filter)
	if err != nil {
		err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to list alerts")
		span.End(err)
		return nil, err
	}
	span.End(nil)
	return alerts, nil
}

// ResolveAlert transitions an alert to its terminal state. The pipeline
// itself never updates records; this is the operator path.
func (s *Service) ResolveAlert(ctx context.Context, alertID id.AlertID) (*models.AlertRecord, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanResolve,
		tracer.String(tracer.AttrAlertID, alertID.String()))

	alert, err := s.alerts.Resolve(ctx, alertID, requesttime.Now(ctx))
	if err != nil {
		if errors.Is(err, sentinel.ErrInvalidState) {
			err = dErrors.New(dErrors.CodeConflict, "alert is already resolved")
		} else {
			err = translateAlertErr(err, "failed to resolve alert")
		}
		span.End(err)
		return nil, err
	}

	s.recordAudit(ctx, audit.Entry{
		AlertID:   alert.ID,
		SubjectID: alert.SubjectID,
		Stage:     audit.StageResolved,
		Outcome:   audit.OutcomeOK,
	})
	if s.metrics != nil {
		s.metrics.IncrementAlertsResolved()
		s.metrics.DecrementActiveAlerts()
	}
	if s.events != nil {
		s.events.AlertResolved(ctx, alert)
	}
	s.logger.InfoContext(ctx, "alert resolved",
		"alert_id", alert.ID.String(),
		"subject_id", alert.SubjectID.String())

	span.End(nil)
	return alert, nil
}

// ShareAlert issues a read token for one existing alert.
func (s *Service) ShareAlert(ctx context.Context, alertID id.AlertID) (*ShareLink, error) {
	if s.shareTokens == nil || !s.shareTokens.Enabled() {
		return nil, dErrors.New(dErrors.CodeConflict, "share links are not configured")
	}

	alert, err := s.alerts.FindByID(ctx, alertID)
	if err != nil {
		return nil, translateAlertErr(err, "failed to load alert")
	}

	token, expiresAt, err := s.shareTokens.Issue(ctx, alert.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue share token")
	}
	if s.metrics != nil {
		s.metrics.IncrementShareLinksIssued()
	}
	s.logger.InfoContext(ctx, "share link issued",
		"alert_id", alert.ID.String(),
		"expires_at", expiresAt,
		"request_id", requestcontext.RequestID(ctx))

	return &ShareLink{AlertID: alert.ID, Token: token, ExpiresAt: expiresAt}, nil
}

// AlertTrail returns the audit entries recorded for one alert. The alert
// must exist even when it has no trail, so unknown ids stay a 404.
func (s *Service) AlertTrail(ctx context.Context, alertID id.AlertID) ([]audit.Entry, error) {
	if s.auditRecorder == nil {
		return nil, dErrors.New(dErrors.CodeConflict, "audit trail is not configured")
	}
	if _, err := s.alerts.FindByID(ctx, alertID); err != nil {
		return nil, translateAlertErr(err, "failed to load alert")
	}
	entries, err := s.auditRecorder.ListByAlert(ctx, alertID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load audit trail")
	}
	return entries, nil
}

// recordAudit appends one trail entry, stamping the request id from the
// context. Audit failures are logged and swallowed; the trail is for
// operators, not a precondition of processing.
func (s *Service) recordAudit(ctx context.Context, entry audit.Entry) {
	if s.auditRecorder == nil {
		return
	}
	if entry.RequestID == "" {
		entry.RequestID = requestcontext.RequestID(ctx)
	}
	if err := s.auditRecorder.Record(ctx, entry); err != nil {
		s.logger.WarnContext(ctx, "failed to record audit entry",
			"error", err,
			"stage", entry.Stage,
			"subject_id", entry.SubjectID.String())
	}
}

// translateAlertErr maps store sentinels to domain errors exactly once.
func translateAlertErr(err error, internalMsg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "alert not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, internalMsg)
}
