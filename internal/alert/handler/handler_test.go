package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"lifeline/internal/alert/handler"
	"lifeline/internal/alert/handler/mocks"
	"lifeline/internal/alert/models"
	"lifeline/internal/alert/service"
	"lifeline/internal/audit"
	"lifeline/internal/platform/logger"
	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
	"lifeline/pkg/platform/middleware/admin"
)

const adminToken = "test-admin-token"

type testRig struct {
	ctrl    *gomock.Controller
	service *mocks.MockService
	shares  *mocks.MockShareVerifier
	router  *chi.Mux
}

func newRig(t *testing.T) *testRig {
	t.Helper()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	shares := mocks.NewMockShareVerifier(ctrl)
	log := logger.New()

	h := handler.New(svc, log, handler.WithShareVerifier(shares))

	r := chi.NewRouter()
	r.Use(admin.MarkAdminToken(adminToken))
	h.Register(r)
	r.Group(func(r chi.Router) {
		r.Use(admin.RequireAdminToken(adminToken, log))
		h.RegisterAdmin(r)
	})

	return &testRig{ctrl: ctrl, service: svc, shares: shares, router: r}
}

func (rig *testRig) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	rig.router.ServeHTTP(rec, req)
	return rec
}

func postSOS(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/processSOS", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func sampleAlert(alertID id.AlertID) *models.AlertRecord {
	return &models.AlertRecord{
		ID:          alertID,
		SubjectID:   "S123",
		SubjectName: "Asha",
		Latitude:    22.59,
		Longitude:   88.36,
		Status:      models.StatusActive,
		CreatedAt:   time.Now().UTC(),
	}
}

func TestProcessSOSSuccess(t *testing.T) {
	rig := newRig(t)
	alertID := id.NewAlertID()

	rig.service.EXPECT().
		ProcessAlert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd service.ProcessCommand) (*models.AlertResult, error) {
			assert.Equal(t, 22.59, cmd.Latitude)
			assert.Equal(t, 88.36, cmd.Longitude)
			assert.Equal(t, id.SubjectID("S123"), cmd.SubjectID)
			return &models.AlertResult{Alert: sampleAlert(alertID), Push: true, Email: false}, nil
		})

	rec := rig.do(postSOS(`{"lat": 22.59, "lon": 88.36, "userId": "S123"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ProcessSOSResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, alertID.String(), resp.AlertID)
	assert.True(t, resp.Notifications.PushNotification)
	assert.False(t, resp.Notifications.Email)
}

func TestProcessSOSMissingFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing lat", `{"lon": 88.36, "userId": "S123"}`},
		{"missing lon", `{"lat": 22.59, "userId": "S123"}`},
		{"missing userId", `{"lat": 22.59, "lon": 88.36}`},
		{"blank userId", `{"lat": 22.59, "lon": 88.36, "userId": "   "}`},
		{"empty body", `{}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rig := newRig(t) // no expectations: the service must not be called
			rec := rig.do(postSOS(tc.body))
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, false, resp["success"])
			assert.NotEmpty(t, resp["error"])
		})
	}
}

func TestProcessSOSZeroCoordinatesAreValid(t *testing.T) {
	rig := newRig(t)
	alertID := id.NewAlertID()

	rig.service.EXPECT().
		ProcessAlert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd service.ProcessCommand) (*models.AlertResult, error) {
			assert.Zero(t, cmd.Latitude)
			assert.Zero(t, cmd.Longitude)
			return &models.AlertResult{Alert: sampleAlert(alertID)}, nil
		})

	rec := rig.do(postSOS(`{"lat": 0, "lon": 0, "userId": "S123"}`))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProcessSOSMalformedJSON(t *testing.T) {
	rig := newRig(t)
	rec := rig.do(postSOS(`{"lat": `))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProcessSOSSubjectNotFound(t *testing.T) {
	rig := newRig(t)
	rig.service.EXPECT().
		ProcessAlert(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeNotFound, "user not found"))

	rec := rig.do(postSOS(`{"lat": 22.59, "lon": 88.36, "userId": "nobody"}`))
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "user not found", resp["error"])
}

func TestProcessSOSInternalError(t *testing.T) {
	rig := newRig(t)
	rig.service.EXPECT().
		ProcessAlert(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.Wrap(errors.New("connection refused"), dErrors.CodeInternal, "failed to persist alert"))

	rec := rig.do(postSOS(`{"lat": 22.59, "lon": 88.36, "userId": "S123"}`))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "failed to persist alert", resp["error"])
	assert.Equal(t, "connection refused", resp["message"])
}

func TestProcessSOSRateLimited(t *testing.T) {
	rig := newRig(t)
	rig.service.EXPECT().
		ProcessAlert(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeRateLimited, "too many alerts for this subject"))

	rec := rig.do(postSOS(`{"lat": 22.59, "lon": 88.36, "userId": "S123"}`))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestGetAlertWithAdminToken(t *testing.T) {
	rig := newRig(t)
	alertID := id.NewAlertID()
	rig.service.EXPECT().GetAlert(gomock.Any(), alertID).Return(sampleAlert(alertID), nil)

	req := httptest.NewRequest(http.MethodGet, "/alerts/"+alertID.String(), nil)
	req.Header.Set("X-Admin-Token", adminToken)
	rec := rig.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.AlertResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, alertID.String(), resp.ID)
}

func TestGetAlertWithShareToken(t *testing.T) {
	rig := newRig(t)
	alertID := id.NewAlertID()
	rig.shares.EXPECT().Verify("tok-1").Return(alertID, nil)
	rig.service.EXPECT().GetAlert(gomock.Any(), alertID).Return(sampleAlert(alertID), nil)

	req := httptest.NewRequest(http.MethodGet, "/alerts/"+alertID.String()+"?token=tok-1", nil)
	rec := rig.do(req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetAlertShareTokenForOtherAlert(t *testing.T) {
	rig := newRig(t)
	alertID := id.NewAlertID()
	rig.shares.EXPECT().Verify("tok-1").Return(id.NewAlertID(), nil)

	req := httptest.NewRequest(http.MethodGet, "/alerts/"+alertID.String()+"?token=tok-1", nil)
	rec := rig.do(req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetAlertUnauthenticated(t *testing.T) {
	rig := newRig(t)
	req := httptest.NewRequest(http.MethodGet, "/alerts/"+id.NewAlertID().String(), nil)
	rec := rig.do(req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetAlertInvalidID(t *testing.T) {
	rig := newRig(t)
	req := httptest.NewRequest(http.MethodGet, "/alerts/not-a-uuid", nil)
	req.Header.Set("X-Admin-Token", adminToken)
	rec := rig.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListAlertsRequiresAdmin(t *testing.T) {
	rig := newRig(t)
	req := httptest.NewRequest(http.MethodGet, "/alerts", nil)
	rec := rig.do(req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListAlerts(t *testing.T) {
	rig := newRig(t)
	alertID := id.NewAlertID()
	rig.service.EXPECT().
		ListAlerts(gomock.Any(), models.ListFilter{SubjectID: "S123", Limit: 10}).
		Return([]*models.AlertRecord{sampleAlert(alertID)}, nil)

	req := httptest.NewRequest(http.MethodGet, "/alerts?subject_id=S123&limit=10", nil)
	req.Header.Set("X-Admin-Token", adminToken)
	rec := rig.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ListAlertsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Alerts, 1)
	assert.Equal(t, alertID.String(), resp.Alerts[0].ID)
}

func TestListAlertsInvalidLimit(t *testing.T) {
	rig := newRig(t)
	req := httptest.NewRequest(http.MethodGet, "/alerts?limit=zero", nil)
	req.Header.Set("X-Admin-Token", adminToken)
	rec := rig.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResolveAlert(t *testing.T) {
	rig := newRig(t)
	alertID := id.NewAlertID()
	resolved := sampleAlert(alertID)
	now := time.Now().UTC()
	resolved.MarkResolved(now)

	rig.service.EXPECT().ResolveAlert(gomock.Any(), alertID).Return(resolved, nil)

	req := httptest.NewRequest(http.MethodPost, "/alerts/"+alertID.String()+"/resolve", nil)
	req.Header.Set("X-Admin-Token", adminToken)
	rec := rig.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ResolveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Alert)
	assert.True(t, resp.Alert.Resolved)
}

func TestResolveAlertConflict(t *testing.T) {
	rig := newRig(t)
	alertID := id.NewAlertID()
	rig.service.EXPECT().
		ResolveAlert(gomock.Any(), alertID).
		Return(nil, dErrors.New(dErrors.CodeConflict, "alert is already resolved"))

	req := httptest.NewRequest(http.MethodPost, "/alerts/"+alertID.String()+"/resolve", nil)
	req.Header.Set("X-Admin-Token", adminToken)
	rec := rig.do(req)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestShareAlert(t *testing.T) {
	rig := newRig(t)
	alertID := id.NewAlertID()
	expires := time.Now().Add(time.Hour).UTC()
	rig.service.EXPECT().
		ShareAlert(gomock.Any(), alertID).
		Return(&service.ShareLink{AlertID: alertID, Token: "signed-token", ExpiresAt: expires}, nil)

	req := httptest.NewRequest(http.MethodPost, "/alerts/"+alertID.String()+"/share", nil)
	req.Header.Set("X-Admin-Token", adminToken)
	rec := rig.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ShareLinkResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "signed-token", resp.Token)
	assert.Equal(t, alertID.String(), resp.AlertID)
}

func TestAlertTrail(t *testing.T) {
	rig := newRig(t)
	alertID := id.NewAlertID()
	rig.service.EXPECT().
		AlertTrail(gomock.Any(), alertID).
		Return([]audit.Entry{
			{Stage: audit.StagePersisted, Outcome: audit.OutcomeOK},
			{Stage: audit.StagePushAttempted, Outcome: audit.OutcomeDelivered},
		}, nil)

	req := httptest.NewRequest(http.MethodGet, "/alerts/"+alertID.String()+"/audit", nil)
	req.Header.Set("X-Admin-Token", adminToken)
	rec := rig.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handler.AlertTrailResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, "persisted", resp.Entries[0].Stage)
}
