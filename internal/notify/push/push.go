// Package push announces alerts through a OneSignal-style broadcast
// notification API.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"lifeline/internal/notify"
)

// Config holds provider settings. APIKey is the provider's REST key, sent
// Basic-style in the Authorization header.
type Config struct {
	Endpoint string
	AppID    string
	APIKey   string
	Timeout  time.Duration
}

// Channel sends broadcast push notifications.
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

// New creates a push channel for the given provider credentials.
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

func (c *Channel) Name() string { return "push" }

// notificationRequest is the provider wire format for one broadcast.
type notificationRequest struct {
	AppID            string            `json:"app_id"`
	IncludedSegments []string          `json:"included_segments"`
	Headings         map[string]string `json:"headings"`
	Contents         map[string]string `json:"contents"`
	Data             map[string]any    `json:"data"`
}

// notificationResponse is the provider's reply. The provider signals
// delivery by assigning a non-empty notification id; a 200 with an empty
// id means nothing was queued.
type notificationResponse struct {
	ID     string   `json:"id"`
	Errors []string `json:"errors"`
}

// Send broadcasts one alert. Failures are contained: the result reports
// non-delivery and the reason is logged, never returned as an error.
func (c *Channel) Send(ctx context.Context, p notify.Payload) notify.Result {
	alert := p.Alert

	body := notificationRequest{
		AppID:            c.cfg.AppID,
		IncludedSegments: []string{"All"},
		Headings:         map[string]string{"en": "SOS Alert"},
		Contents: map[string]string{
			"en": fmt.Sprintf("%s needs help at (%.5f, %.5f)", alert.SubjectName, alert.Latitude, alert.Longitude),
		},
		Data: map[string]any{
			"subjectId": alert.SubjectID.String(),
			"lat":       alert.Latitude,
			"lon":       alert.Longitude,
			"alertId":   alert.ID.String(),
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return c.fail(ctx, alert.ID.String(), "marshal notification", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	url := c.cfg.Endpoint + "/notifications"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return c.fail(ctx, alert.ID.String(), "create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+c.cfg.APIKey)

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

	var parsed notificationResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return c.fail(ctx, alert.ID.String(), "parse provider response", err)
	}
	if parsed.ID == "" {
		reason := "provider returned no notification id"
		if len(parsed.Errors) > 0 {
			reason = parsed.Errors[0]
		}
		return c.fail(ctx, alert.ID.String(), reason, nil)
	}

	c.logger.InfoContext(ctx, "push notification sent",
		"alert_id", alert.ID.String(),
		"notification_id", parsed.ID)
	return notify.Result{Delivered: true, ProviderID: parsed.ID}
}

func (c *Channel) fail(ctx context.Context, alertID, reason string, err error) notify.Result {
	attrs := []any{"alert_id", alertID, "reason", reason}
	if err != nil {
		attrs = append(attrs, "error", err)
	}
	c.logger.WarnContext(ctx, "push notification failed", attrs...)
	return notify.Result{Delivered: false, Reason: reason}
}
