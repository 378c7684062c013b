package email

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	alertmodels "lifeline/internal/alert/models"
	"lifeline/internal/notify"
	subjectmodels "lifeline/internal/subject/models"
	id "lifeline/pkg/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testAlert() *alertmodels.AlertRecord {
	return &alertmodels.AlertRecord{
		ID:           id.NewAlertID(),
		SubjectID:    id.SubjectID("S123"),
		SubjectName:  "Asha",
		SubjectEmail: "asha@example.com",
		SubjectPhone: "+15550100",
		Latitude:     22.59,
		Longitude:    88.36,
		Status:       alertmodels.StatusActive,
		CreatedAt:    time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
	}
}

func testSubject() *subjectmodels.Subject {
	return &subjectmodels.Subject{
		ID:    id.SubjectID("S123"),
		Name:  "Asha",
		Email: "asha@example.com",
		Phone: "+15550100",
		Contacts: []subjectmodels.EmergencyContact{
			{Name: "Ravi", Email: "Ravi@Example.com"},
			{Name: "Mira", Email: "mira@example.com"},
			{Name: "NoEmail", Email: ""},
			{Name: "Dup", Email: "ravi@example.com"},
		},
	}
}

func TestSendDeliversToContacts(t *testing.T) {
	var captured sendRequest
	var gotKey string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("api-key")
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"messageId": "<msg-1@provider>"})
	}))
	defer server.Close()

	channel := New(Config{
		Endpoint:    server.URL,
		APIKey:      "email-key",
		SenderName:  "Lifeline Alerts",
		SenderEmail: "alerts@lifeline.example",
		Timeout:     2 * time.Second,
	}, testLogger())

	alert := testAlert()
	result := channel.Send(context.Background(), notify.Payload{Alert: alert, Subject: testSubject()})

	assert.True(t, result.Delivered)
	assert.Equal(t, "<msg-1@provider>", result.ProviderID)

	assert.Equal(t, "email-key", gotKey)
	assert.Equal(t, "alerts@lifeline.example", captured.Sender.Email)
	assert.Equal(t, "Lifeline Alerts", captured.Sender.Name)

	// Contacts win over the subject's own address; duplicates and empty
	// entries are dropped.
	require.Len(t, captured.To, 2)
	assert.Equal(t, "ravi@example.com", captured.To[0].Email)
	assert.Equal(t, "mira@example.com", captured.To[1].Email)

	assert.Contains(t, captured.Subject, "Asha")
	assert.Contains(t, captured.TextContent, "S123")
	assert.Contains(t, captured.TextContent, "https://maps.google.com/?q=22.59,88.36")
	assert.Contains(t, captured.TextContent, "+15550100")
	assert.Contains(t, captured.HTMLContent, "<strong>Asha</strong>")
	assert.Contains(t, captured.HTMLContent, "maps.google.com")
}

// TestSendEmbedsShareLink: a share URL on the payload lands in both
// bodies, HTML-escaped in the anchor; an empty one leaves no trace.
func TestSendEmbedsShareLink(t *testing.T) {
	var captured sendRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	channel := New(Config{Endpoint: server.URL, APIKey: "k", SenderEmail: "alerts@lifeline.example"}, testLogger())

	shareURL := "https://lifeline.example/alerts/abc?token=t&v=1"
	result := channel.Send(context.Background(), notify.Payload{
		Alert:    testAlert(),
		Subject:  testSubject(),
		ShareURL: shareURL,
	})
	assert.True(t, result.Delivered)
	assert.Contains(t, captured.TextContent, "View alert: "+shareURL)
	assert.Contains(t, captured.HTMLContent,
		`<a href="https://lifeline.example/alerts/abc?token=t&amp;v=1">View this alert</a>`)

	result = channel.Send(context.Background(), notify.Payload{Alert: testAlert(), Subject: testSubject()})
	assert.True(t, result.Delivered)
	assert.NotContains(t, captured.TextContent, "View alert:")
	assert.NotContains(t, captured.HTMLContent, "View this alert")
}

// TestSendFallsBackToSubjectEmail covers the policy's second tier: no
// usable contact addresses, but the subject has one of their own.
func TestSendFallsBackToSubjectEmail(t *testing.T) {
	var captured sendRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	channel := New(Config{Endpoint: server.URL, APIKey: "k", SenderEmail: "alerts@lifeline.example"}, testLogger())

	subject := &subjectmodels.Subject{
		ID:    id.SubjectID("S123"),
		Name:  "Asha",
		Email: "asha@example.com",
	}
	result := channel.Send(context.Background(), notify.Payload{Alert: testAlert(), Subject: subject})

	assert.True(t, result.Delivered)
	require.Len(t, captured.To, 1)
	assert.Equal(t, "asha@example.com", captured.To[0].Email)
	assert.Equal(t, "Asha", captured.To[0].Name)
}

// TestSendSkipsWithoutRecipients: neither contacts nor a subject address —
// no provider call is made and the outcome is false, not an error.
func TestSendSkipsWithoutRecipients(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	channel := New(Config{Endpoint: server.URL, APIKey: "k", SenderEmail: "alerts@lifeline.example"}, testLogger())

	subject := &subjectmodels.Subject{ID: id.SubjectID("S123"), Name: "Asha"}
	result := channel.Send(context.Background(), notify.Payload{Alert: testAlert(), Subject: subject})

	assert.False(t, result.Delivered)
	assert.Equal(t, "no usable recipients", result.Reason)
	assert.Zero(t, calls, "no provider call without recipients")
}

func TestSendContainsProviderFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"unauthorized"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	channel := New(Config{Endpoint: server.URL, APIKey: "bad", SenderEmail: "alerts@lifeline.example"}, testLogger())
	result := channel.Send(context.Background(), notify.Payload{Alert: testAlert(), Subject: testSubject()})

	assert.False(t, result.Delivered)
	assert.Contains(t, result.Reason, "provider status 401")
}

func TestRecipientsPolicy(t *testing.T) {
	t.Run("invalid contact addresses are filtered", func(t *testing.T) {
		subject := &subjectmodels.Subject{
			Email: "own@example.com",
			Contacts: []subjectmodels.EmergencyContact{
				{Name: "Bad", Email: "not-an-email"},
				{Name: "AlsoBad", Email: "missing@domain"},
			},
		}
		to := recipients(subject)
		require.Len(t, to, 1)
		assert.Equal(t, "own@example.com", to[0].Email)
	})

	t.Run("nothing usable yields empty set", func(t *testing.T) {
		subject := &subjectmodels.Subject{Email: "broken@"}
		assert.Empty(t, recipients(subject))
	})

	t.Run("nil subject yields empty set", func(t *testing.T) {
		assert.Empty(t, recipients(nil))
	})
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"a@x.com", "first.last@sub.domain.org"}
	invalid := []string{"", "plain", "@x.com", "a@", "a@nodot", "a@b@c.com"}

	for _, email := range valid {
		assert.True(t, IsValidEmail(email), email)
	}
	for _, email := range invalid {
		assert.False(t, IsValidEmail(email), email)
	}
}
