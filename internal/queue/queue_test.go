package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/digitalpro/contact-gateway/internal/model"
	"github.com/digitalpro/contact-gateway/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, redis.RedisAdapter) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	// Use unique connection name per test to avoid global adapter caching issues
	connName := t.Name() + "-" + mr.Addr()
	adapter, err := redis.NewRedisAdapter(connName, "", &goredis.UniversalOptions{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)

	return mr, adapter
}

func TestQueue_PublishAndConsume(t *testing.T) {
	mr, adapter := setupTestRedis(t)
	defer mr.Close()

	config := Config{
		Name:              "submissions:accepted",
		ConsumerGroup:     "notifier",
		ConsumerName:      "test-consumer",
		MaxRetries:        3,
		VisibilityTimeout: 5 * time.Second,
		PollInterval:      100 * time.Millisecond,
		BatchSize:         10,
		MaxLen:            1000,
		EnableDLQ:         true,
	}

	q, err := New(adapter, config)
	require.NoError(t, err)

	ctx := context.Background()
	event := &model.SubmissionEvent{
		SubmissionID: 42,
		Name:         "Jane Doe",
		Email:        "jane@example.com",
		ReceivedAt:   time.Now(),
	}

	_, err = q.PublishJSON(ctx, event, map[string]string{"source": "api"})
	require.NoError(t, err)

	received := make(chan *Message, 1)
	handler := func(ctx context.Context, msg *Message) error {
		received <- msg
		return nil
	}

	require.NoError(t, q.Consume(handler))

	select {
	case msg := <-received:
		var got model.SubmissionEvent
		require.NoError(t, json.Unmarshal(msg.Data, &got))
		assert.Equal(t, int64(42), got.SubmissionID)
		assert.Equal(t, "jane@example.com", got.Email)
		assert.Equal(t, "api", msg.Metadata["source"])
	case <-time.After(2 * time.Second):
		t.Fatal("message not received")
	}

	q.Stop(time.Second)
}

func TestQueue_RequiresName(t *testing.T) {
	mr, adapter := setupTestRedis(t)
	defer mr.Close()

	_, err := New(adapter, Config{})
	assert.Error(t, err)
}

func TestQueue_ConsumeRequiresHandler(t *testing.T) {
	mr, adapter := setupTestRedis(t)
	defer mr.Close()

	q, err := New(adapter, Config{Name: "submissions:test"})
	require.NoError(t, err)
	defer q.Stop(time.Second)

	assert.Error(t, q.Consume(nil))
}

func TestQueue_FailedHandlerLeavesMessagePending(t *testing.T) {
	mr, adapter := setupTestRedis(t)
	defer mr.Close()

	config := Config{
		Name:              "submissions:pending",
		ConsumerGroup:     "notifier",
		ConsumerName:      "test-consumer",
		MaxRetries:        5,
		VisibilityTimeout: 10 * time.Second,
		PollInterval:      100 * time.Millisecond,
		BatchSize:         10,
	}

	q, err := New(adapter, config)
	require.NoError(t, err)
	defer q.Stop(time.Second)

	ctx := context.Background()
	_, err = q.PublishJSON(ctx, map[string]string{"test": "fail"}, nil)
	require.NoError(t, err)

	handled := make(chan struct{}, 1)
	handler := func(ctx context.Context, msg *Message) error {
		select {
		case handled <- struct{}{}:
		default:
		}
		return assert.AnError
	}

	require.NoError(t, q.Consume(handler))

	select {
	case <-handled:
	case <-time.After(2 * time.Second):
		t.Fatal("handler never invoked")
	}

	// the delivery was not acked, so it stays pending for reclaim
	assert.Eventually(t, func() bool {
		stats, err := q.GetStats()
		return err == nil && stats.PendingMessages == 1
	}, 2*time.Second, 100*time.Millisecond)
}

func TestQueue_GetStats(t *testing.T) {
	mr, adapter := setupTestRedis(t)
	defer mr.Close()

	config := Config{
		Name:          "submissions:stats",
		ConsumerGroup: "notifier",
		ConsumerName:  "test-consumer",
	}

	q, err := New(adapter, config)
	require.NoError(t, err)
	defer q.Stop(time.Second)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := q.PublishJSON(ctx, map[string]int{"n": i}, nil)
		require.NoError(t, err)
	}

	stats, err := q.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalMessages)
}
