package audit

import (
	"context"
	"log/slog"
)

// Queue is a Store that hands events to a Worker without blocking the
// caller. When the buffer is full the event is dropped and logged.
type Queue struct {
	ch     chan Event
	logger *slog.Logger
}

func NewQueue(size int, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{ch: make(chan Event, size), logger: logger}
}

func (q *Queue) Append(ctx context.Context, event Event) error {
	select {
	case q.ch <- event:
	default:
		q.logger.WarnContext(ctx, "audit queue full, dropping event",
			"action", event.Action,
			"draft_id", event.DraftID.String(),
		)
	}
	return nil
}

// Worker drains a Queue into a downstream Store.
type Worker struct {
	store  Store
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(store Store, queue *Queue) *Worker {
	return &Worker{store: store, inbox: queue.ch, logger: queue.logger}
}

// Run appends events until ctx is done. A failed append is logged and the
// worker moves on; audit delivery never blocks registration.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "failed to append audit event",
					"action", event.Action,
					"draft_id", event.DraftID.String(),
					"error", err,
				)
			}
		}
	}
}
