package client

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// StreamState is the connection state of the event stream.
type StreamState int

const (
	// Disconnected: not currently receiving events.
	Disconnected StreamState = iota
	// Connected: receiving events with no known gap.
	Connected
	// Stale: reconnected after a drop. Events pushed during the gap were
	// never buffered server-side, so the caller must re-fetch a snapshot
	// and then call MarkFresh.
	Stale
)

func (s StreamState) String() string {
	switch s {
	case Connected:
		return "connected"
	case Stale:
		return "stale"
	default:
		return "disconnected"
	}
}

const (
	reconnectBaseDelay = 500 * time.Millisecond
	reconnectMaxDelay  = 10 * time.Second
	streamReadWait     = 90 * time.Second
)

// Stream subscribes to the server's event channel and reconnects on drops.
// The server keeps no per-client buffer, so a reconnect never replays missed
// events; the stream surfaces that as the Stale state instead.
type Stream struct {
	url    string
	dialer *websocket.Dialer
	events chan Event

	mu        sync.RWMutex
	state     StreamState
	everAlive bool
}

// NewStream prepares a subscriber for the given websocket URL (see
// Client.EventsURL). Run must be called to start receiving.
func NewStream(url string) *Stream {
	return &Stream{
		url:    url,
		dialer: websocket.DefaultDialer,
		events: make(chan Event, 64),
	}
}

// Events is the stream of decoded change events. Closed when Run returns.
func (s *Stream) Events() <-chan Event {
	return s.events
}

func (s *Stream) State() StreamState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// MarkFresh clears the Stale flag once the caller has re-fetched a snapshot.
func (s *Stream) MarkFresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Stale {
		s.state = Connected
	}
}

func (s *Stream) setState(state StreamState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// Run connects and reads until ctx is canceled, redialing with backoff after
// every drop. It returns ctx.Err() and closes Events.
func (s *Stream) Run(ctx context.Context) error {
	defer close(s.events)
	defer s.setState(Disconnected)

	delay := reconnectBaseDelay
	for {
		conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.DebugContext(ctx, "event stream dial failed", "error", err, "retry_in", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			if delay *= 2; delay > reconnectMaxDelay {
				delay = reconnectMaxDelay
			}
			continue
		}
		delay = reconnectBaseDelay

		s.mu.Lock()
		if s.everAlive {
			s.state = Stale
		} else {
			s.state = Connected
			s.everAlive = true
		}
		s.mu.Unlock()

		s.readLoop(ctx, conn)
		s.setState(Disconnected)
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (s *Stream) readLoop(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	conn.SetReadDeadline(time.Now().Add(streamReadWait))
	conn.SetPingHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(streamReadWait))
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(10*time.Second))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				slog.DebugContext(ctx, "event stream dropped", "error", err)
			}
			return
		}
		event, err := decodeEvent(data)
		if err != nil {
			slog.WarnContext(ctx, "discarding malformed event frame", "error", err)
			continue
		}
		select {
		case s.events <- event:
		case <-ctx.Done():
			return
		}
	}
}
