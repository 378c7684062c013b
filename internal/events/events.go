// Package events publishes alert lifecycle events to Kafka for downstream
// responder systems. Publishing is fire-and-forget: the SOS request path
// never waits on a broker.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	alertmodels "lifeline/internal/alert/models"
	"lifeline/internal/platform/kafka/producer"
)

// Event types carried in the payload and the event_type header.
const (
	TypeAlertCreated  = "alert.created"
	TypeAlertResolved = "alert.resolved"
)

// AlertEvent is the wire shape published for every lifecycle transition.
type AlertEvent struct {
	Type        string    `json:"type"`
	AlertID     string    `json:"alert_id"`
	SubjectID   string    `json:"subject_id"`
	SubjectName string    `json:"subject_name"`
	Latitude    float64   `json:"lat"`
	Longitude   float64   `json:"lon"`
	Status      string    `json:"status"`
	Push        bool      `json:"push_delivered"`
	Email       bool      `json:"email_delivered"`
	Timestamp   time.Time `json:"timestamp"`
}

// Producer is the producing surface the publisher needs. The Kafka-backed
// implementation and the no-op one both satisfy it.
type Producer interface {
	ProduceAsync(ctx context.Context, msg producer.Message)
}

// Publisher emits alert events on one topic, keyed by subject so each
// subject's events stay ordered.
type Publisher struct {
	producer Producer
	topic    string
	logger   *slog.Logger
}

func NewPublisher(p Producer, topic string, logger *slog.Logger) *Publisher {
	return &Publisher{producer: p, topic: topic, logger: logger}
}

// AlertCreated publishes the creation event with the channel outcomes.
func (p *Publisher) AlertCreated(ctx context.Context, alert *alertmodels.AlertRecord, outcomes alertmodels.NotificationOutcomes) {
	p.publish(ctx, AlertEvent{
		Type:        TypeAlertCreated,
		AlertID:     alert.ID.String(),
		SubjectID:   alert.SubjectID.String(),
		SubjectName: alert.SubjectName,
		Latitude:    alert.Latitude,
		Longitude:   alert.Longitude,
		Status:      string(alert.Status),
		Push:        outcomes.PushNotification,
		Email:       outcomes.Email,
		Timestamp:   alert.CreatedAt,
	})
}

// AlertResolved publishes the terminal transition.
func (p *Publisher) AlertResolved(ctx context.Context, alert *alertmodels.AlertRecord) {
	ts := time.Now()
	if alert.ResolvedAt != nil {
		ts = *alert.ResolvedAt
	}
	p.publish(ctx, AlertEvent{
		Type:        TypeAlertResolved,
		AlertID:     alert.ID.String(),
		SubjectID:   alert.SubjectID.String(),
		SubjectName: alert.SubjectName,
		Latitude:    alert.Latitude,
		Longitude:   alert.Longitude,
		Status:      string(alert.Status),
		Timestamp:   ts,
	})
}

func (p *Publisher) publish(ctx context.Context, event AlertEvent) {
	value, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("marshal alert event", "error", err, "alert_id", event.AlertID)
		return
	}
	p.producer.ProduceAsync(ctx, producer.Message{
		Topic: p.topic,
		Key:   []byte(event.SubjectID),
		Value: value,
		Headers: map[string]string{
			"event_type": event.Type,
			"schema":     "v1",
		},
	})
}
