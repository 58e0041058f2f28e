package app

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifedash/questlog/internal/config"
	"github.com/lifedash/questlog/internal/model"
)

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:         "development",
		DBDriver:       "sqlite",
		DBConnection:   ":memory:?_pragma=foreign_keys(1)&_time_format=sqlite",
		MigrateOnStart: true,
		JWTSecret:      "secret",
		JWTExpiry:      time.Hour,
		RateLimitRPS:   1,
		RateLimitBurst: 1,
	}
}

func TestNew(t *testing.T) {
	a, err := New(testConfig())
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.FeedBridge)

	user, err := a.UserService.Ensure(3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), user.ID)

	goals, err := a.GoalService.Goals(user.ID)
	require.NoError(t, err)
	assert.Empty(t, goals)
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(&config.Config{DBDriver: "oracle", DBConnection: "x"})
	assert.Error(t, err)
}

func TestNew_InvalidRedisURL(t *testing.T) {
	cfg := testConfig()
	cfg.RedisURL = "mysql://nope"

	_, err := New(cfg)
	assert.ErrorContains(t, err, "REDIS_URL")
}

func TestNew_RecordedActivityReachesBridgedHub(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.RedisURL = "redis://" + mr.Addr()
	cfg.FeedChannel = "test:activities"

	a, err := New(cfg)
	require.NoError(t, err)
	defer a.Close()
	require.NotNil(t, a.FeedBridge)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := a.Hub.Subscribe(ctx, 2)

	_, err = a.UserService.Ensure(1)
	require.NoError(t, err)
	_, err = a.ActivityService.Record(1, model.Activity{Type: model.ActivityStudy, Description: "Chapter 4"})
	require.NoError(t, err)

	select {
	case got := <-events:
		assert.Equal(t, "Chapter 4", got.Description)
	case <-time.After(2 * time.Second):
		t.Fatal("activity not delivered")
	}
}
