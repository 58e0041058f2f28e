package feed

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifedash/questlog/internal/model"
)

func newRedisClient(t *testing.T, mr *miniredis.Miniredis) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisBridge_RelaysBetweenInstances(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hubA, hubB := NewHub(), NewHub()
	bridgeA := NewRedisBridge(newRedisClient(t, mr), hubA, "")
	bridgeB := NewRedisBridge(newRedisClient(t, mr), hubB, "")

	go func() { _ = bridgeA.Run(ctx) }()
	go func() { _ = bridgeB.Run(ctx) }()
	require.Eventually(t, func() bool {
		return mr.PubSubNumSub(DefaultChannel)[DefaultChannel] == 2
	}, 2*time.Second, 10*time.Millisecond)

	localA := hubA.Subscribe(ctx, 4)
	remoteB := hubB.Subscribe(ctx, 4)

	bridgeA.Publish(model.Activity{ID: 9, UserID: 3, Type: model.ActivityGym, Description: "Leg day"})

	select {
	case a := <-localA:
		assert.Equal(t, int64(9), a.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("local subscriber missed the activity")
	}

	select {
	case a := <-remoteB:
		assert.Equal(t, int64(9), a.ID)
		assert.Equal(t, int64(3), a.UserID)
		assert.Equal(t, "Leg day", a.Description)
	case <-time.After(2 * time.Second):
		t.Fatal("remote subscriber missed the activity")
	}

	// the origin ignores its own echo
	select {
	case a := <-localA:
		t.Fatalf("activity %d delivered twice", a.ID)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRedisBridge_PublishSurvivesRedisOutage(t *testing.T) {
	mr := miniredis.RunT(t)
	hub := NewHub()
	bridge := NewRedisBridge(newRedisClient(t, mr), hub, "custom")
	mr.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := hub.Subscribe(ctx, 1)

	bridge.Publish(model.Activity{ID: 1, UserID: 1, Type: model.ActivityDSA})

	select {
	case a := <-events:
		assert.Equal(t, int64(1), a.ID)
	case <-time.After(3 * time.Second):
		t.Fatal("local delivery should not depend on redis")
	}
}
