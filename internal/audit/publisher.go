package audit

import (
	"context"
	"time"

	"agora/pkg/requestcontext"
)

// Store is an append-only sink for events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Publisher stamps events with request metadata and hands them to a Store.
type Publisher struct {
	store Store
	now   func() time.Time
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store, now: time.Now}
}

// Emit fills the timestamp, request id and client from ctx when unset.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.Client == (Client{}) {
		event.Client = ParseClient(requestcontext.UserAgent(ctx))
	}
	return p.store.Append(ctx, event)
}
