package realtime

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"syncflow.app/server/internal/model"
)

// Bridge extends a Hub across server instances over a redis pub/sub channel.
// Each published event is delivered to local sessions directly and relayed to
// peer instances; the origin instance ID prevents re-delivering our own
// events when they come back off the channel.
//
// Redis failures are logged and swallowed: fan-out never affects the mutation
// that produced the event.
type Bridge struct {
	hub        *Hub
	client     *redis.Client
	channel    string
	instanceID string
}

type envelope struct {
	Origin string          `json:"origin"`
	Frame  json.RawMessage `json:"frame"`
}

func NewBridge(hub *Hub, client *redis.Client, channel, instanceID string) *Bridge {
	return &Bridge{
		hub:        hub,
		client:     client,
		channel:    channel,
		instanceID: instanceID,
	}
}

func (b *Bridge) Publish(ctx context.Context, event model.ChangeEvent) {
	b.hub.Publish(ctx, event)

	frame, err := Encode(event)
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode event for relay",
			"component", "syncflow.realtime.bridge",
			"error", err,
		)
		return
	}

	data, err := json.Marshal(envelope{Origin: b.instanceID, Frame: frame})
	if err != nil {
		slog.ErrorContext(ctx, "failed to marshal relay envelope",
			"component", "syncflow.realtime.bridge",
			"error", err,
		)
		return
	}

	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		slog.WarnContext(ctx, "failed to relay event to peers",
			"component", "syncflow.realtime.bridge",
			"error", err,
			"event_kind", string(event.Kind),
		)
	}
}

// Run subscribes to the relay channel and re-broadcasts peer events to local
// sessions. It blocks until the context is canceled.
func (b *Bridge) Run(ctx context.Context) error {
	pubsub := b.client.Subscribe(ctx, b.channel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			b.handle(ctx, []byte(msg.Payload))
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (b *Bridge) handle(ctx context.Context, payload []byte) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		slog.WarnContext(ctx, "discarding malformed relay envelope",
			"component", "syncflow.realtime.bridge",
			"error", err,
		)
		return
	}
	if env.Origin == b.instanceID {
		return
	}

	event, err := Decode(env.Frame)
	if err != nil {
		slog.WarnContext(ctx, "discarding undecodable relay frame",
			"component", "syncflow.realtime.bridge",
			"error", err,
		)
		return
	}

	b.hub.Publish(ctx, event)
}
