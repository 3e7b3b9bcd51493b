package realtime

import (
	"context"
	"log/slog"
	"sync"

	"syncflow.app/server/internal/model"
)

// Publisher is the narrow capability handed to mutation services.
// Publishing is fire-and-forget: it never blocks the caller and never fails
// the mutation that triggered it.
type Publisher interface {
	Publish(ctx context.Context, event model.ChangeEvent)
}

// Hub fans change events out to every subscribed session.
//
// Delivery is best-effort and at-most-once per session: a session subscribed
// at publish time receives events in publication order, a session that
// subscribes later never sees earlier events, and a session whose buffer is
// full has the event dropped rather than blocking the publisher.
type Hub struct {
	mu   sync.RWMutex
	subs map[chan model.ChangeEvent]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan model.ChangeEvent]struct{})}
}

func (h *Hub) Publish(ctx context.Context, event model.ChangeEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs {
		select {
		case ch <- event:
		default:
			slog.WarnContext(ctx, "subscriber buffer full, dropping event",
				"component", "syncflow.realtime.hub",
				"event_kind", string(event.Kind),
				"issue_id", event.IssueID,
			)
		}
	}
}

// Subscribe registers a listener channel. The returned channel is owned by
// the hub and closed on Unsubscribe.
func (h *Hub) Subscribe() chan model.ChangeEvent {
	ch := make(chan model.ChangeEvent, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) Unsubscribe(ch chan model.ChangeEvent) {
	h.mu.Lock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// Sessions reports the number of currently subscribed sessions.
func (h *Hub) Sessions() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

const subscriberBuffer = 32
