package notifier

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/digitalpro/contact-gateway/internal/model"
	"github.com/digitalpro/contact-gateway/internal/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDeliverer struct {
	mock.Mock
}

func (m *MockDeliverer) Deliver(ctx context.Context, event *model.SubmissionEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func queueMessage(t *testing.T, event *model.SubmissionEvent) *queue.Message {
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return &queue.Message{
		ID:        "1-0",
		Data:      data,
		Timestamp: time.Now(),
	}
}

func TestSubmissionEventProcessor_Process(t *testing.T) {
	ctx := context.Background()

	t.Run("successful delivery acks", func(t *testing.T) {
		client := new(MockDeliverer)
		p := NewSubmissionEventProcessor(client, nil)

		event := &model.SubmissionEvent{SubmissionID: 42, Email: "jane@example.com"}
		client.On("Deliver", ctx, mock.MatchedBy(func(e *model.SubmissionEvent) bool {
			return e.SubmissionID == 42 && e.Email == "jane@example.com"
		})).Return(nil)

		err := p.Process(ctx, queueMessage(t, event))
		assert.NoError(t, err)
		client.AssertExpectations(t)
	})

	t.Run("delivery failure propagates for retry", func(t *testing.T) {
		client := new(MockDeliverer)
		p := NewSubmissionEventProcessor(client, nil)

		client.On("Deliver", ctx, mock.Anything).Return(assert.AnError)

		err := p.Process(ctx, queueMessage(t, &model.SubmissionEvent{SubmissionID: 7}))
		assert.Error(t, err)
	})

	t.Run("malformed payload is acked, not retried", func(t *testing.T) {
		client := new(MockDeliverer)
		p := NewSubmissionEventProcessor(client, nil)

		msg := &queue.Message{ID: "2-0", Data: []byte("not json")}
		err := p.Process(ctx, msg)
		assert.NoError(t, err)
		client.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything)
	})

	t.Run("redelivered event posts to the webhook only once", func(t *testing.T) {
		client := new(MockDeliverer)
		guard := NewDeliveryGuard(newMemoryStore(), DefaultGuardConfig())
		p := NewSubmissionEventProcessor(client, guard)

		event := &model.SubmissionEvent{SubmissionID: 42, Email: "jane@example.com"}
		client.On("Deliver", ctx, mock.Anything).Return(nil).Once()

		require.NoError(t, p.Process(ctx, queueMessage(t, event)))

		// the stream claims the same event back after a consumer crash
		err := p.Process(ctx, queueMessage(t, event))
		assert.NoError(t, err)
		client.AssertNumberOfCalls(t, "Deliver", 1)
	})

	t.Run("failed delivery is not marked delivered", func(t *testing.T) {
		client := new(MockDeliverer)
		guard := NewDeliveryGuard(newMemoryStore(), DefaultGuardConfig())
		p := NewSubmissionEventProcessor(client, guard)

		event := &model.SubmissionEvent{SubmissionID: 7}
		client.On("Deliver", ctx, mock.Anything).Return(assert.AnError).Once()
		client.On("Deliver", ctx, mock.Anything).Return(nil).Once()

		require.Error(t, p.Process(ctx, queueMessage(t, event)))

		// the lock was released, so the retry goes through
		require.NoError(t, p.Process(ctx, queueMessage(t, event)))
		client.AssertNumberOfCalls(t, "Deliver", 2)
	})
}
