package realtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"syncflow.app/server/internal/model"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Session pumps hub events to one websocket connection until the peer
// disconnects. The channel is server-push only: client frames beyond
// connect/disconnect and pong control messages are discarded.
//
// Transport errors end the session silently; the mutation that produced an
// undelivered event is unaffected.
func Serve(ctx context.Context, hub *Hub, conn *websocket.Conn) {
	events := hub.Subscribe()
	done := make(chan struct{})

	go readPump(conn, done)
	writePump(ctx, conn, events, done)

	hub.Unsubscribe(events)
	_ = conn.Close()
}

// readPump drains and discards inbound frames so control messages are
// processed, and signals when the peer goes away.
func readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	conn.SetReadLimit(512)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writePump(ctx context.Context, conn *websocket.Conn, events <-chan model.ChangeEvent, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := Encode(event)
			if err != nil {
				slog.ErrorContext(ctx, "failed to encode event",
					"component", "syncflow.realtime.session",
					"error", err,
					"event_kind", string(event.Kind),
				)
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		case <-ctx.Done():
			return
		}
	}
}
