package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/wilfredeveloper/barka-sub001/internal/domain"
)

// OperationEvent is the telemetry record emitted after each engine
// operation that mutates documents (create, delete, reopen, recover,
// purge, import). Fields carries operation-specific attributes;
// entityFields supplies the common ones.
type OperationEvent struct {
	Name      string
	StartedAt time.Time
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
}

// OperationObserver consumes operation events. Observers run inside
// the operation's defer and must not block.
type OperationObserver interface {
	ObserveOperation(ctx context.Context, event OperationEvent)
}

// NoopObserver discards every event.
type NoopObserver struct{}

func (NoopObserver) ObserveOperation(context.Context, OperationEvent) {}

// entityFields is the attribute set shared by events touching a single
// document, so log lines filter the same way across operations.
func entityFields(kind domain.EntityKind, id, actor string) map[string]any {
	return map[string]any{
		"entity_kind": string(kind),
		"entity_id":   id,
		"actor":       actor,
	}
}

type logObserver struct {
	logger *slog.Logger
}

// NewLogObserver returns an observer writing one slog line per
// operation to w. A nil writer yields the noop observer.
func NewLogObserver(w io.Writer) OperationObserver {
	if w == nil {
		return NoopObserver{}
	}
	return &logObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logObserver) ObserveOperation(ctx context.Context, event OperationEvent) {
	attrs := make([]any, 0, 6+len(event.Fields)*2)
	attrs = append(attrs,
		"operation", event.Name,
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Success,
	)
	for k, v := range event.Fields {
		attrs = append(attrs, k, v)
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.ErrorContext(ctx, "lifecycle_operation", attrs...)
		return
	}
	o.logger.InfoContext(ctx, "lifecycle_operation", attrs...)
}

// observerOrNoop picks the first non-nil observer so emit sites never
// nil-check.
func observerOrNoop(observers []OperationObserver) OperationObserver {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopObserver{}
}
