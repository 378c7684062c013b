// Package handler exposes the alert pipeline over HTTP.
package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"lifeline/internal/alert/models"
	"lifeline/internal/alert/service"
	"lifeline/internal/audit"
	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
	"lifeline/pkg/platform/httputil"
	"lifeline/pkg/platform/middleware/admin"
	"lifeline/pkg/requestcontext"
)

// Service is the alert pipeline surface the transport layer consumes.
// It returns domain objects, not HTTP response DTOs.
type Service interface {
	ProcessAlert(ctx context.Context, cmd service.ProcessCommand) (*models.AlertResult, error)
	GetAlert(ctx context.Context, alertID id.AlertID) (*models.AlertRecord, error)
	ListAlerts(ctx context.Context, filter models.ListFilter) ([]*models.AlertRecord, error)
	ResolveAlert(ctx context.Context, alertID id.AlertID) (*models.AlertRecord, error)
	ShareAlert(ctx context.Context, alertID id.AlertID) (*service.ShareLink, error)
	AlertTrail(ctx context.Context, alertID id.AlertID) ([]audit.Entry, error)
}

// ShareVerifier checks a share token and returns the alert it grants.
type ShareVerifier interface {
	Verify(token string) (id.AlertID, error)
}

type Handler struct {
	service Service
	shares  ShareVerifier
	logger  *slog.Logger
}

// Option configures optional Handler collaborators.
type Option func(*Handler)

// WithShareVerifier enables share-token access to single alerts.
func WithShareVerifier(v ShareVerifier) Option {
	return func(h *Handler) { h.shares = v }
}

func New(service Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{service: service, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the public routes. GET /alerts/{id} accepts either an
// admin-marked request or a valid share token for that alert.
func (h *Handler) Register(r chi.Router) {
	r.Post("/processSOS", h.HandleProcessSOS)
	r.Get("/alerts/{id}", h.HandleGetAlert)
}

// RegisterAdmin mounts the operator routes; the caller wraps them in the
// admin token middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/alerts", h.HandleListAlerts)
	r.Post("/alerts/{id}/resolve", h.HandleResolveAlert)
	r.Post("/alerts/{id}/share", h.HandleShareAlert)
	r.Get("/alerts/{id}/audit", h.HandleAlertTrail)
}

// HandleProcessSOS accepts an SOS request and drives the alert pipeline.
// Channel outcomes are reported as data; only validation, lookup, and
// persistence failures produce non-200 responses.
func (h *Handler) HandleProcessSOS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.ProcessSOSRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	subjectID, err := id.ParseSubjectID(req.SubjectID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.ProcessAlert(ctx, service.ProcessCommand{
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		SubjectID: subjectID,
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "process SOS failed",
			"error", err,
			"request_id", requestID,
			"subject_id", subjectID.String())
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, &models.ProcessSOSResponse{
		Success: true,
		Message: "SOS alert processed",
		AlertID: result.Alert.ID.String(),
		Notifications: models.NotificationOutcomes{
			PushNotification: result.Push,
			Email:            result.Email,
		},
	})
}

// HandleGetAlert returns one alert to an operator or a share-link holder.
func (h *Handler) HandleGetAlert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	alertID, err := id.ParseAlertID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid alert id"))
		return
	}

	if !h.authorizeRead(ctx, r, alertID) {
		h.logger.WarnContext(ctx, "alert read rejected",
			"alert_id", alertID.String(),
			"request_id", requestID)
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "admin token or share token required"))
		return
	}

	alert, err := h.service.GetAlert(ctx, alertID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get alert failed", "error", err, "request_id", requestID, "alert_id", alertID.String())
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.NewAlertResponse(alert))
}

// HandleListAlerts returns alerts newest first, optionally narrowed to a
// subject.
func (h *Handler) HandleListAlerts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	filter := models.ListFilter{
		SubjectID: id.SubjectID(strings.TrimSpace(r.URL.Query().Get("subject_id"))),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid limit"))
			return
		}
		filter.Limit = limit
	}

	alerts, err := h.service.ListAlerts(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "list alerts failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	resp := &models.ListAlertsResponse{
		Alerts: make([]*models.AlertResponse, 0, len(alerts)),
		Count:  len(alerts),
	}
	for _, alert := range alerts {
		resp.Alerts = append(resp.Alerts, models.NewAlertResponse(alert))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleResolveAlert marks an alert resolved. Resolving twice is a
// conflict, not an idempotent success, so operators notice double work.
func (h *Handler) HandleResolveAlert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	alertID, err := id.ParseAlertID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid alert id"))
		return
	}

	alert, err := h.service.ResolveAlert(ctx, alertID)
	if err != nil {
		h.logger.ErrorContext(ctx, "resolve alert failed", "error", err, "request_id", requestID, "alert_id", alertID.String())
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, &models.ResolveResponse{
		Success: true,
		Message: "alert resolved",
		Alert:   models.NewAlertResponse(alert),
	})
}

// HandleShareAlert issues a time-limited read token for one alert.
func (h *Handler) HandleShareAlert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	alertID, err := id.ParseAlertID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid alert id"))
		return
	}

	link, err := h.service.ShareAlert(ctx, alertID)
	if err != nil {
		h.logger.ErrorContext(ctx, "share alert failed", "error", err, "request_id", requestID, "alert_id", alertID.String())
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, &models.ShareLinkResponse{
		AlertID:   link.AlertID.String(),
		Token:     link.Token,
		ExpiresAt: link.ExpiresAt,
	})
}

// HandleAlertTrail returns the audit trail recorded for one alert.
func (h *Handler) HandleAlertTrail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	alertID, err := id.ParseAlertID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid alert id"))
		return
	}

	entries, err := h.service.AlertTrail(ctx, alertID)
	if err != nil {
		h.logger.ErrorContext(ctx, "alert trail failed", "error", err, "request_id", requestID, "alert_id", alertID.String())
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, newAlertTrailResponse(alertID, entries))
}

// authorizeRead grants alert reads to admin-marked requests and to share
// tokens bound to the requested alert. Token failures are logged but the
// response never says why access was denied.
func (h *Handler) authorizeRead(ctx context.Context, r *http.Request, alertID id.AlertID) bool {
	if admin.IsAdminRequest(ctx) {
		return true
	}
	token := r.URL.Query().Get("token")
	if token == "" || h.shares == nil {
		return false
	}
	granted, err := h.shares.Verify(token)
	if err != nil {
		h.logger.WarnContext(ctx, "share token rejected", "error", err, "alert_id", alertID.String())
		return false
	}
	return granted == alertID
}
