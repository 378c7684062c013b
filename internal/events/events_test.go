package events

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	alertmodels "lifeline/internal/alert/models"
	"lifeline/internal/platform/kafka/producer"
	id "lifeline/pkg/domain"
)

// capturingProducer records async messages for assertions.
type capturingProducer struct {
	messages []producer.Message
}

func (c *capturingProducer) ProduceAsync(_ context.Context, msg producer.Message) {
	c.messages = append(c.messages, msg)
}

func testAlert() *alertmodels.AlertRecord {
	return &alertmodels.AlertRecord{
		ID:          id.NewAlertID(),
		SubjectID:   id.SubjectID("S123"),
		SubjectName: "Asha",
		Latitude:    22.59,
		Longitude:   88.36,
		Status:      alertmodels.StatusActive,
		CreatedAt:   time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
	}
}

func TestAlertCreatedEvent(t *testing.T) {
	captured := &capturingProducer{}
	publisher := NewPublisher(captured, "lifeline.alerts", slog.New(slog.NewTextHandler(io.Discard, nil)))

	alert := testAlert()
	publisher.AlertCreated(context.Background(), alert, alertmodels.NotificationOutcomes{PushNotification: true, Email: false})

	require.Len(t, captured.messages, 1)
	msg := captured.messages[0]
	assert.Equal(t, "lifeline.alerts", msg.Topic)
	assert.Equal(t, "S123", string(msg.Key), "events are keyed by subject for per-subject ordering")
	assert.Equal(t, TypeAlertCreated, msg.Headers["event_type"])
	assert.Equal(t, "v1", msg.Headers["schema"])

	var event AlertEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, TypeAlertCreated, event.Type)
	assert.Equal(t, alert.ID.String(), event.AlertID)
	assert.Equal(t, "Asha", event.SubjectName)
	assert.True(t, event.Push)
	assert.False(t, event.Email)
	assert.Equal(t, alert.CreatedAt, event.Timestamp)
}

func TestAlertResolvedEvent(t *testing.T) {
	captured := &capturingProducer{}
	publisher := NewPublisher(captured, "lifeline.alerts", slog.New(slog.NewTextHandler(io.Discard, nil)))

	alert := testAlert()
	resolvedAt := time.Date(2026, 3, 14, 11, 0, 0, 0, time.UTC)
	alert.MarkResolved(resolvedAt)
	publisher.AlertResolved(context.Background(), alert)

	require.Len(t, captured.messages, 1)
	msg := captured.messages[0]
	assert.Equal(t, TypeAlertResolved, msg.Headers["event_type"])

	var event AlertEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, string(alertmodels.StatusResolved), event.Status)
	assert.Equal(t, resolvedAt, event.Timestamp)
}

func TestNoopProducerSatisfiesInterface(t *testing.T) {
	publisher := NewPublisher(producer.NoopProducer{}, "lifeline.alerts", slog.New(slog.NewTextHandler(io.Discard, nil)))
	publisher.AlertCreated(context.Background(), testAlert(), alertmodels.NotificationOutcomes{})
}
