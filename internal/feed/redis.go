package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/lifedash/questlog/internal/model"
)

const DefaultChannel = "questlog:activities"

// envelope carries the owner separately because Activity does not encode
// its user id.
type envelope struct {
	Origin   string         `json:"origin"`
	UserID   int64          `json:"userId"`
	Activity model.Activity `json:"activity"`
}

// RedisBridge shares a hub's activities with other server instances over
// Redis pub/sub. Local subscribers are served straight from the hub; Redis
// only carries activities between instances.
type RedisBridge struct {
	client  *redis.Client
	hub     *Hub
	channel string
	origin  string
}

func NewRedisBridge(client *redis.Client, hub *Hub, channel string) *RedisBridge {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisBridge{
		client:  client,
		hub:     hub,
		channel: channel,
		origin:  uuid.NewString(),
	}
}

// Publish delivers a locally published activity to this instance's hub
// and forwards it to the other instances. A Redis failure only costs the
// remote delivery.
func (b *RedisBridge) Publish(a model.Activity) {
	b.hub.Publish(a)

	payload, err := json.Marshal(envelope{Origin: b.origin, UserID: a.UserID, Activity: a})
	if err != nil {
		slog.Error("failed to encode activity for redis", "error", err, "activity_id", a.ID)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		slog.Warn("failed to forward activity to redis", "error", err, "channel", b.channel)
	}
}

// Run relays activities published by other instances into the local hub
// until ctx is done.
func (b *RedisBridge) Run(ctx context.Context) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("subscribe to %s: %w", b.channel, err)
	}
	slog.Info("activity feed bridged over redis", "channel", b.channel)

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				slog.Warn("skipping malformed activity from redis", "error", err)
				continue
			}
			if env.Origin == b.origin {
				continue
			}
			a := env.Activity
			a.UserID = env.UserID
			b.hub.Publish(a)
		}
	}
}
