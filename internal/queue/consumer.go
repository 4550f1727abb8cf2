package queue

import (
	"context"
	"encoding/json"
	"log/slog"

	"registration/internal/metrics"
)

// Run drains q until ctx is done, recording every message with Record. The
// worker runs it against redis; the API runs it in process for the memory
// backend.
func Run(ctx context.Context, q Queue, log *slog.Logger) error {
	messages, err := q.Consume(ctx)
	if err != nil {
		return err
	}
	for msg := range messages {
		Record(log, msg)
	}
	return nil
}

// Record counts one change event and writes it to the operator log.
func Record(log *slog.Logger, msg Message) {
	metrics.EventsConsumed.WithLabelValues(msg.Type).Inc()

	attrs := []any{
		slog.String("event_id", msg.ID),
		slog.String("type", msg.Type),
		slog.Int64("student_id", msg.StudentID),
		slog.Time("at", msg.At),
	}
	if len(msg.Body) > 0 {
		var body map[string]any
		if err := json.Unmarshal(msg.Body, &body); err != nil {
			log.Warn("undecodable event body", append(attrs, slog.Any("error", err))...)
			return
		}
		attrs = append(attrs, slog.Any("fields", body))
	}

	switch msg.Type {
	case TypeRegistered, TypeUpdated, TypeDeleted:
		log.Info("student event", attrs...)
	default:
		log.Warn("unknown event type", attrs...)
	}
}
