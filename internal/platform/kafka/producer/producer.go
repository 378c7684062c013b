// Package producer wraps franz-go with the small producing surface the
// alert pipeline needs: synchronous sends for tests and tooling, fire-and-
// forget async sends for the request path, and a no-op implementation for
// deployments that run without Kafka.
package producer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Config holds producer settings.
type Config struct {
	Brokers         []string
	Acks            string // "0", "1", or "all"
	Retries         int
	DeliveryTimeout time.Duration
}

// DefaultConfig returns a production-safe starting point.
func DefaultConfig(brokers []string) Config {
	return Config{
		Brokers:         brokers,
		Acks:            "all",
		Retries:         3,
		DeliveryTimeout: 30 * time.Second,
	}
}

// Message is a single record to publish.
type Message struct {
	Topic   string
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// Producer publishes messages to Kafka.
type Producer struct {
	client *kgo.Client
	logger *slog.Logger
}

// New creates a producer connected to the configured brokers.
func New(cfg Config, logger *slog.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka producer: no brokers configured")
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ProduceRequestTimeout(cfg.DeliveryTimeout),
		kgo.RecordRetries(cfg.Retries),
	}

	switch cfg.Acks {
	case "0":
		opts = append(opts, kgo.RequiredAcks(kgo.NoAck()), kgo.DisableIdempotentWrite())
	case "1":
		opts = append(opts, kgo.RequiredAcks(kgo.LeaderAck()), kgo.DisableIdempotentWrite())
	default:
		opts = append(opts, kgo.RequiredAcks(kgo.AllISRAcks()))
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: create client: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}
	return &Producer{client: client, logger: logger}, nil
}

// Produce sends a message and waits for broker acknowledgement.
func (p *Producer) Produce(ctx context.Context, msg Message) error {
	record := toRecord(msg)
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("kafka producer: produce to %s: %w", msg.Topic, err)
	}
	return nil
}

// ProduceAsync sends a message without blocking the caller. Delivery
// failures are logged, never surfaced; callers on the request path must
// not stall on broker availability.
func (p *Producer) ProduceAsync(ctx context.Context, msg Message) {
	record := toRecord(msg)
	p.client.Produce(ctx, record, func(r *kgo.Record, err error) {
		if err != nil {
			p.logger.Error("kafka produce failed",
				"topic", r.Topic,
				"error", err)
		}
	})
}

// Flush blocks until all buffered records are sent or ctx expires.
func (p *Producer) Flush(ctx context.Context) error {
	return p.client.Flush(ctx)
}

// Close flushes outstanding records and releases the client.
func (p *Producer) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := p.client.Flush(ctx); err != nil {
		p.logger.Warn("kafka producer close: flush incomplete", "error", err)
	}
	p.client.Close()
}

// Healthy reports whether the client can reach the cluster.
func (p *Producer) Healthy(ctx context.Context) error {
	return p.client.Ping(ctx)
}

// Len returns the number of buffered, unsent records.
func (p *Producer) Len() int {
	return int(p.client.BufferedProduceRecords())
}

func toRecord(msg Message) *kgo.Record {
	record := &kgo.Record{
		Topic: msg.Topic,
		Key:   msg.Key,
		Value: msg.Value,
	}
	for k, v := range msg.Headers {
		record.Headers = append(record.Headers, kgo.RecordHeader{Key: k, Value: []byte(v)})
	}
	return record
}

// NoopProducer discards all messages. It stands in for the real producer
// when event publishing is disabled so callers need no nil checks.
type NoopProducer struct{}

func (NoopProducer) Produce(context.Context, Message) error  { return nil }
func (NoopProducer) ProduceAsync(context.Context, Message)   {}
func (NoopProducer) Flush(context.Context) error             { return nil }
func (NoopProducer) Close()                                  {}
func (NoopProducer) Healthy(context.Context) error           { return nil }
func (NoopProducer) Len() int                                { return 0 }
