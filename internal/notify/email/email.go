// Package email announces alerts to a subject's emergency contacts through
// a Brevo-style transactional email API.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"time"

	alertmodels "lifeline/internal/alert/models"
	"lifeline/internal/notify"
	subjectmodels "lifeline/internal/subject/models"
	pkgstrings "lifeline/pkg/platform/strings"
	"lifeline/pkg/platform/validation"
)

// Config holds provider settings. Endpoint is the full send URL; APIKey is
// sent in the provider's custom api-key header.
type Config struct {
	Endpoint    string
	APIKey      string
	SenderName  string
	SenderEmail string
	Timeout     time.Duration
}

// Channel sends alert emails.
type Channel struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

var _ notify.Channel = (*Channel)(nil)

// Option configures the Channel.
type Option func(*Channel)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Channel) {
		c.httpClient = client
	}
}

// New creates an email channel for the given provider credentials.
func New(cfg Config, logger *slog.Logger, opts ...Option) *Channel {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	c := &Channel{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Channel) Name() string { return "email" }

type address struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type sendRequest struct {
	Sender      address   `json:"sender"`
	To          []address `json:"to"`
	Subject     string    `json:"subject"`
	HTMLContent string    `json:"htmlContent"`
	TextContent string    `json:"textContent"`
}

type sendResponse struct {
	MessageID string `json:"messageId"`
}

// Send emails the alert to the selected recipients. An empty recipient set
// is a non-delivery outcome, not an error, and makes no provider call.
func (c *Channel) Send(ctx context.Context, p notify.Payload) notify.Result {
	alert := p.Alert

	to := recipients(p.Subject)
	if len(to) == 0 {
		c.logger.WarnContext(ctx, "email notification skipped: no usable recipients",
			"alert_id", alert.ID.String(),
			"subject_id", alert.SubjectID.String())
		return notify.Result{Delivered: false, Reason: "no usable recipients"}
	}

	body := sendRequest{
		Sender:      address{Name: c.cfg.SenderName, Email: c.cfg.SenderEmail},
		To:          to,
		Subject:     fmt.Sprintf("SOS Alert: %s needs help", alert.SubjectName),
		HTMLContent: buildHTMLBody(alert, p.ShareURL),
		TextContent: buildTextBody(alert, p.ShareURL),
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return c.fail(ctx, alert.ID.String(), "marshal email", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return c.fail(ctx, alert.ID.String(), "create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return c.fail(ctx, alert.ID.String(), "provider timeout", err)
		}
		return c.fail(ctx, alert.ID.String(), "provider unreachable", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.fail(ctx, alert.ID.String(), "read provider response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.fail(ctx, alert.ID.String(), fmt.Sprintf("provider status %d", resp.StatusCode), nil)
	}

	var parsed sendResponse
	_ = json.Unmarshal(respBody, &parsed)

	c.logger.InfoContext(ctx, "alert email sent",
		"alert_id", alert.ID.String(),
		"recipients", len(to),
		"message_id", parsed.MessageID)
	return notify.Result{Delivered: true, ProviderID: parsed.MessageID}
}

// recipients applies the selection policy: the emergency contacts' usable
// addresses first; the subject's own address when no contact has one;
// empty when neither yields anything.
func recipients(subject *subjectmodels.Subject) []address {
	if subject == nil {
		return nil
	}

	emails := make([]string, 0, len(subject.Contacts))
	for _, contact := range subject.Contacts {
		emails = append(emails, contact.Email)
	}

	var to []address
	for _, email := range pkgstrings.DedupeAndTrimLower(emails) {
		if !IsValidEmail(email) {
			continue
		}
		to = append(to, address{Email: email})
		if len(to) == validation.MaxRecipients {
			break
		}
	}
	if len(to) > 0 {
		return to
	}

	own := pkgstrings.DedupeAndTrimLower([]string{subject.Email})
	if len(own) == 1 && IsValidEmail(own[0]) {
		return []address{{Name: subject.DisplayName(), Email: own[0]}}
	}
	return nil
}

func mapLink(alert *alertmodels.AlertRecord) string {
	return fmt.Sprintf("https://maps.google.com/?q=%v,%v", alert.Latitude, alert.Longitude)
}

func phoneOrPlaceholder(alert *alertmodels.AlertRecord) string {
	if alert.SubjectPhone == "" {
		return "not provided"
	}
	return alert.SubjectPhone
}

func buildTextBody(alert *alertmodels.AlertRecord, shareURL string) string {
	body := fmt.Sprintf(
		"SOS ALERT\n\n"+
			"%s (id %s) triggered an SOS alert.\n\n"+
			"Time: %s\n"+
			"Location: %v, %v\n"+
			"Map: %s\n"+
			"Phone: %s\n",
		alert.SubjectName,
		alert.SubjectID.String(),
		alert.CreatedAt.Format(time.RFC1123),
		alert.Latitude,
		alert.Longitude,
		mapLink(alert),
		phoneOrPlaceholder(alert),
	)
	if shareURL != "" {
		body += fmt.Sprintf("View alert: %s\n", shareURL)
	}
	return body
}

func buildHTMLBody(alert *alertmodels.AlertRecord, shareURL string) string {
	name := html.EscapeString(alert.SubjectName)
	body := fmt.Sprintf(
		"<h2>SOS Alert</h2>"+
			"<p><strong>%s</strong> (id %s) triggered an SOS alert.</p>"+
			"<ul>"+
			"<li>Time: %s</li>"+
			"<li>Location: %v, %v</li>"+
			"<li>Phone: %s</li>"+
			"</ul>"+
			`<p><a href="%s">Open location in maps</a></p>`,
		name,
		html.EscapeString(alert.SubjectID.String()),
		alert.CreatedAt.Format(time.RFC1123),
		alert.Latitude,
		alert.Longitude,
		html.EscapeString(phoneOrPlaceholder(alert)),
		mapLink(alert),
	)
	if shareURL != "" {
		body += fmt.Sprintf(`<p><a href="%s">View this alert</a></p>`, html.EscapeString(shareURL))
	}
	return body
}

func (c *Channel) fail(ctx context.Context, alertID, reason string, err error) notify.Result {
	attrs := []any{"alert_id", alertID, "reason", reason}
	if err != nil {
		attrs = append(attrs, "error", err)
	}
	c.logger.WarnContext(ctx, "email notification failed", attrs...)
	return notify.Result{Delivered: false, Reason: reason}
}
