package cache_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/gamesmith/internal/cache"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedis spins up a Redis container and returns a connected RedisCache
// plus the raw URL for out-of-band assertions.
func setupRedis(t *testing.T) (*cache.RedisCache, string) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, container.Terminate(ctx)) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	redisURL := "redis://" + host + ":" + port.Port()
	rc, err := cache.NewRedisCache(redisURL)
	require.NoError(t, err)
	t.Cleanup(func() { rc.Close() })

	return rc, redisURL
}

func TestPing(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	rc, _ := setupRedis(t)
	assert.NoError(t, rc.Ping(context.Background()))
}

func TestNewRedisCache_BadURL(t *testing.T) {
	_, err := cache.NewRedisCache("not-a-redis-url")
	require.Error(t, err)
}

// --- IncrWithExpiry ---

func TestIncrWithExpiry_Counts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	rc, _ := setupRedis(t)
	ctx := context.Background()

	key := cache.RateLimitKey("player-1")
	for want := int64(1); want <= 3; want++ {
		got, err := rc.IncrWithExpiry(ctx, key, 10*time.Second)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestIncrWithExpiry_IndependentKeys(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	rc, _ := setupRedis(t)
	ctx := context.Background()

	_, err := rc.IncrWithExpiry(ctx, cache.RateLimitKey("player-1"), 10*time.Second)
	require.NoError(t, err)
	got, err := rc.IncrWithExpiry(ctx, cache.RateLimitKey("player-2"), 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestIncrWithExpiry_Expires(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	rc, _ := setupRedis(t)
	ctx := context.Background()

	key := cache.RateLimitKey("player-1")
	_, err := rc.IncrWithExpiry(ctx, key, 1*time.Second)
	require.NoError(t, err)

	time.Sleep(1500 * time.Millisecond)

	// The counter restarted after the window elapsed.
	got, err := rc.IncrWithExpiry(ctx, key, 1*time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

// --- PublishTaskEvent ---

func TestPublishTaskEvent_Roundtrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	rc, redisURL := setupRedis(t)
	ctx := context.Background()

	opts, err := goredis.ParseURL(redisURL)
	require.NoError(t, err)
	sub := goredis.NewClient(opts)
	t.Cleanup(func() { sub.Close() })

	pubsub := sub.Subscribe(ctx, cache.TaskEventChannel())
	t.Cleanup(func() { pubsub.Close() })
	_, err = pubsub.Receive(ctx) // wait for the subscription to be live
	require.NoError(t, err)

	event := cache.TaskEvent{TaskID: uuid.New(), Status: "completed"}
	require.NoError(t, rc.PublishTaskEvent(ctx, event))

	select {
	case msg := <-pubsub.Channel():
		var got cache.TaskEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, event, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no event received")
	}
}
