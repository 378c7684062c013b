package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	alertmetrics "lifeline/internal/alert/metrics"
	"lifeline/internal/alert/models"
	"lifeline/internal/alert/tracer"
	"lifeline/internal/audit"
	"lifeline/internal/notify"
	"lifeline/internal/sentinel"
	subjectmodels "lifeline/internal/subject/models"
	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
)

// ProcessCommand carries one validated SOS request into the pipeline. The
// handler owns wire-level validation; coordinates arrive as plain floats
// because zero is a valid position.
type ProcessCommand struct {
	Latitude  float64
	Longitude float64
	SubjectID id.SubjectID
	UserAgent string
}

// ProcessAlert runs the pipeline for one SOS request.
//
// Stage order and failure policy:
//  1. rate limit (when configured) - limited requests write nothing
//  2. subject lookup - unknown subjects are reported, never retried
//  3. alert persistence - a write failure is fatal to the request
//  4. notification fan-out - channel failures become data, never errors
//
// The request succeeds once the alert is persisted, regardless of what the
// channels report.
func (s *Service) ProcessAlert(ctx context.Context, cmd ProcessCommand) (*models.AlertResult, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, tracer.SpanProcess,
		tracer.String(tracer.AttrSubjectID, tracer.HashSubjectID(cmd.SubjectID.String())))

	result, err := s.processAlert(ctx, span, cmd)
	if s.metrics != nil {
		s.metrics.ObserveProcessingLatency(time.Since(start).Seconds())
	}
	span.End(err)
	return result, err
}

func (s *Service) processAlert(ctx context.Context, span tracer.Span, cmd ProcessCommand) (*models.AlertResult, error) {
	if cmd.SubjectID.IsNil() {
		s.countOutcome(alertmetrics.OutcomeRejected)
		return nil, dErrors.New(dErrors.CodeValidation, "userId is required")
	}

	s.recordAudit(ctx, audit.Entry{
		SubjectID: cmd.SubjectID,
		Stage:     audit.StageReceived,
		Outcome:   audit.OutcomeOK,
	})

	if s.limiter != nil && !s.limiter.Allow(cmd.SubjectID) {
		s.recordAudit(ctx, audit.Entry{
			SubjectID: cmd.SubjectID,
			Stage:     audit.StageRejected,
			Outcome:   audit.OutcomeFailed,
			Detail:    "rate limited",
		})
		s.countOutcome(alertmetrics.OutcomeRateLimited)
		s.logger.WarnContext(ctx, "alert rejected: rate limited",
			"subject_id", cmd.SubjectID.String(),
			"stage", "rate_limit")
		return nil, dErrors.New(dErrors.CodeRateLimited, "too many alerts for this subject")
	}

	subject, err := s.subjects.FindByID(ctx, cmd.SubjectID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.recordAudit(ctx, audit.Entry{
				SubjectID: cmd.SubjectID,
				Stage:     audit.StageRejected,
				Outcome:   audit.OutcomeFailed,
				Detail:    "subject not found",
			})
			s.countOutcome(alertmetrics.OutcomeSubjectNotFound)
			s.logger.WarnContext(ctx, "alert rejected: unknown subject",
				"subject_id", cmd.SubjectID.String(),
				"stage", "subject_lookup")
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		s.countOutcome(alertmetrics.OutcomeError)
		s.logger.ErrorContext(ctx, "subject lookup failed",
			"error", err,
			"subject_id", cmd.SubjectID.String(),
			"stage", "subject_lookup")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up subject")
	}
	span.AddEvent(tracer.EventSubjectResolved)
	s.recordAudit(ctx, audit.Entry{
		SubjectID: subject.ID,
		Stage:     audit.StageSubjectResolved,
		Outcome:   audit.OutcomeOK,
	})

	alert := &models.AlertRecord{
		SubjectID:     subject.ID,
		SubjectName:   subject.DisplayName(),
		SubjectEmail:  subject.Email,
		SubjectPhone:  subject.Phone,
		Latitude:      cmd.Latitude,
		Longitude:     cmd.Longitude,
		Status:        models.StatusActive,
		DeviceSummary: s.describeDevice(cmd.UserAgent),
	}

	if err := s.persist(ctx, alert); err != nil {
		s.countOutcome(alertmetrics.OutcomeError)
		return nil, err
	}
	span.AddEvent(tracer.EventAlertPersisted)
	span.SetAttributes(tracer.String(tracer.AttrAlertID, alert.ID.String()))

	outcomes := s.fanOut(ctx, alert, subject, s.issueShareURL(ctx, alert.ID))
	span.SetAttributes(
		tracer.Bool(tracer.AttrPushDelivered, outcomes.PushNotification),
		tracer.Bool(tracer.AttrEmailDelivered, outcomes.Email),
	)

	if s.events != nil {
		s.events.AlertCreated(ctx, alert, outcomes)
		span.AddEvent(tracer.EventEventPublished)
	}

	s.countOutcome(alertmetrics.OutcomeCreated)
	if s.metrics != nil {
		s.metrics.IncrementActiveAlerts()
	}
	s.logger.InfoContext(ctx, "alert processed",
		"alert_id", alert.ID.String(),
		"subject_id", alert.SubjectID.String(),
		"push_delivered", outcomes.PushNotification,
		"email_delivered", outcomes.Email)

	return &models.AlertResult{
		Alert: alert,
		Push:  outcomes.PushNotification,
		Email: outcomes.Email,
	}, nil
}

func (s *Service) persist(ctx context.Context, alert *models.AlertRecord) error {
	ctx, span := s.tracer.Start(ctx, tracer.SpanPersist)

	if err := s.alerts.Create(ctx, alert); err != nil {
		s.recordAudit(ctx, audit.Entry{
			SubjectID: alert.SubjectID,
			Stage:     audit.StagePersisted,
			Outcome:   audit.OutcomeFailed,
			Detail:    err.Error(),
		})
		s.logger.ErrorContext(ctx, "alert persistence failed",
			"error", err,
			"subject_id", alert.SubjectID.String(),
			"stage", "persist")
		err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist alert")
		span.End(err)
		return err
	}

	s.recordAudit(ctx, audit.Entry{
		AlertID:   alert.ID,
		SubjectID: alert.SubjectID,
		Stage:     audit.StagePersisted,
		Outcome:   audit.OutcomeOK,
	})
	span.End(nil)
	return nil
}

// fanOut invokes both channels concurrently. The goroutines always return
// nil, so neither channel can cancel the other through the group; a
// panicking channel is contained by attempt. Each result lands in its own
// slot, so there is no shared mutable state between the two.
func (s *Service) fanOut(ctx context.Context, alert *models.AlertRecord, subject *subjectmodels.Subject, shareURL string) models.NotificationOutcomes {
	ctx, span := s.tracer.Start(ctx, tracer.SpanNotify)
	defer span.End(nil)

	payload := notify.Payload{Alert: alert, Subject: subject, ShareURL: shareURL}

	var pushResult, emailResult notify.Result
	var g errgroup.Group
	g.Go(func() error {
		pushResult = s.attempt(ctx, tracer.SpanNotifyPush, s.push, payload)
		return nil
	})
	g.Go(func() error {
		emailResult = s.attempt(ctx, tracer.SpanNotifyEmail, s.email, payload)
		return nil
	})
	_ = g.Wait()

	s.recordAttempt(ctx, alert, audit.StagePushAttempted, s.push.Name(), pushResult)
	s.recordAttempt(ctx, alert, audit.StageEmailAttempted, s.email.Name(), emailResult)

	return models.NotificationOutcomes{
		PushNotification: pushResult.Delivered,
		Email:            emailResult.Delivered,
	}
}

// attempt runs one channel send under its own span and converts a panic
// into a non-delivery result. Channels are contractually best-effort, but
// a faulty implementation must still not abort the request or its sibling.
func (s *Service) attempt(ctx context.Context, spanName string, channel notify.Channel, payload notify.Payload) (result notify.Result) {
	ctx, span := s.tracer.Start(ctx, spanName,
		tracer.String(tracer.AttrChannel, channel.Name()))
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "notification channel panicked",
				"channel", channel.Name(),
				"panic", r)
			result = notify.Result{Delivered: false, Reason: "channel panic"}
		}
		span.SetAttributes(tracer.Bool("delivered", result.Delivered))
		span.End(nil)
	}()
	return channel.Send(ctx, payload)
}

func (s *Service) recordAttempt(ctx context.Context, alert *models.AlertRecord, stage audit.Stage, channel string, result notify.Result) {
	if s.metrics != nil {
		s.metrics.IncrementNotificationAttempt(channel, result.Delivered)
	}
	outcome := audit.OutcomeDelivered
	if !result.Delivered {
		outcome = audit.OutcomeNotDelivered
	}
	s.recordAudit(ctx, audit.Entry{
		AlertID:   alert.ID,
		SubjectID: alert.SubjectID,
		Stage:     stage,
		Outcome:   outcome,
		Detail:    result.Reason,
	})
}

// issueShareURL mints a signed view link for the alert's notifications.
// Link issuance is best-effort: a failure drops the link, never the
// request.
func (s *Service) issueShareURL(ctx context.Context, alertID id.AlertID) string {
	if s.shareTokens == nil || !s.shareTokens.Enabled() || s.shareBaseURL == "" {
		return ""
	}
	token, _, err := s.shareTokens.Issue(ctx, alertID)
	if err != nil {
		s.logger.WarnContext(ctx, "share link omitted from notifications",
			"error", err,
			"alert_id", alertID.String())
		return ""
	}
	if s.metrics != nil {
		s.metrics.IncrementShareLinksIssued()
	}
	return fmt.Sprintf("%s/alerts/%s?token=%s", s.shareBaseURL, alertID.String(), url.QueryEscape(token))
}

func (s *Service) describeDevice(userAgent string) string {
	if s.devices == nil {
		return ""
	}
	return s.devices.Summary(userAgent)
}

func (s *Service) countOutcome(outcome string) {
	if s.metrics != nil {
		s.metrics.IncrementAlertsProcessed(outcome)
	}
}
