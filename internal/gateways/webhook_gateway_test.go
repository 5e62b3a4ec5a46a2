package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/digitalpro/contact-gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvent() *model.SubmissionEvent {
	return &model.SubmissionEvent{
		SubmissionID: 42,
		Name:         "Jane Doe",
		Email:        "jane@example.com",
		ReceivedAt:   time.Now(),
	}
}

func TestNewClient_Validation(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := NewClient(nil)
		assert.Error(t, err)
	})

	t.Run("missing primary url", func(t *testing.T) {
		_, err := NewClient(&Config{})
		assert.ErrorIs(t, err, ErrNoTargetsConfigured)
	})

	t.Run("primary only", func(t *testing.T) {
		c, err := NewClient(&Config{PrimaryURL: "http://primary.local/hook"})
		require.NoError(t, err)
		assert.Len(t, c.targets, 1)
	})

	t.Run("primary and backup", func(t *testing.T) {
		c, err := NewClient(&Config{
			PrimaryURL: "http://primary.local/hook",
			BackupURL:  "http://backup.local/hook",
		})
		require.NoError(t, err)
		require.Len(t, c.targets, 2)
		assert.Equal(t, TargetPrimary, c.targets[0].name)
		assert.Equal(t, TargetBackup, c.targets[1].name)
	})
}

func TestClient_Deliver(t *testing.T) {
	t.Run("delivers to primary", func(t *testing.T) {
		var received model.SubmissionEvent
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		c, err := NewClient(&Config{PrimaryURL: srv.URL, Timeout: 2 * time.Second})
		require.NoError(t, err)

		require.NoError(t, c.Deliver(context.Background(), testEvent()))
		assert.Equal(t, int64(42), received.SubmissionID)
		assert.Equal(t, "jane@example.com", received.Email)
	})

	t.Run("falls back to backup when primary fails", func(t *testing.T) {
		primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer primary.Close()

		var backupHits atomic.Int64
		backup := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			backupHits.Add(1)
			w.WriteHeader(http.StatusAccepted)
		}))
		defer backup.Close()

		c, err := NewClient(&Config{
			PrimaryURL: primary.URL,
			BackupURL:  backup.URL,
			Timeout:    2 * time.Second,
		})
		require.NoError(t, err)

		require.NoError(t, c.Deliver(context.Background(), testEvent()))
		assert.Equal(t, int64(1), backupHits.Load())
	})

	t.Run("fails when every target rejects", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		c, err := NewClient(&Config{
			PrimaryURL: srv.URL,
			Timeout:    2 * time.Second,
			MaxRetries: 1,
			RetryDelay: 10 * time.Millisecond,
		})
		require.NoError(t, err)

		assert.Error(t, c.Deliver(context.Background(), testEvent()))
	})
}
