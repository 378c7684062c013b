package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	id "lifeline/pkg/domain"
)

// Recorder captures the alert pipeline's audit trail. It is append-only
// and uses the storage layer for persistence so tests can swap sinks.
type Recorder struct {
	store   Store
	entries chan Entry
	wg      sync.WaitGroup
	logger  *slog.Logger
	async   bool
}

// RecorderOption configures the Recorder.
type RecorderOption func(*Recorder)

// WithAsyncBuffer enables async persistence with the given buffer size.
// Entries are queued and written by a background goroutine; a full buffer
// drops the entry with a warning rather than blocking the request path.
func WithAsyncBuffer(size int) RecorderOption {
	return func(r *Recorder) {
		if size > 0 {
			r.entries = make(chan Entry, size)
			r.async = true
		}
	}
}

// WithRecorderLogger sets a logger for async error reporting.
func WithRecorderLogger(logger *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		r.logger = logger
	}
}

func NewRecorder(store Store, opts ...RecorderOption) *Recorder {
	r := &Recorder{store: store}
	for _, opt := range opts {
		opt(r)
	}
	if r.async {
		r.wg.Add(1)
		go r.processEntries()
	}
	return r
}

func (r *Recorder) processEntries() {
	defer r.wg.Done()
	for entry := range r.entries {
		if err := r.store.Append(context.Background(), entry); err != nil {
			if r.logger != nil {
				r.logger.Error("failed to persist audit entry",
					"error", err,
					"stage", entry.Stage,
					"subject_id", entry.SubjectID)
			}
		}
	}
}

// Close shuts down the async recorder and waits for pending entries to drain.
func (r *Recorder) Close() {
	if r.async && r.entries != nil {
		close(r.entries)
		r.wg.Wait()
	}
}

// Record captures one entry. In async mode the send never blocks.
func (r *Recorder) Record(ctx context.Context, entry Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if r.async {
		select {
		case r.entries <- entry:
			return nil
		default:
			if r.logger != nil {
				r.logger.Warn("audit buffer full, entry dropped",
					"stage", entry.Stage,
					"subject_id", entry.SubjectID)
			}
			return nil
		}
	}
	return r.store.Append(ctx, entry)
}

// ListByAlert returns the trail recorded for one alert.
func (r *Recorder) ListByAlert(ctx context.Context, alertID id.AlertID) ([]Entry, error) {
	return r.store.ListByAlert(ctx, alertID)
}
