package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The service relies on these defaults when the env is bare; a fresh
// deployment with no SPAM_*/QUEUE_* vars must still classify correctly
// and publish to a named stream.
func TestLoad_Defaults(t *testing.T) {
	unset := []string{
		"SPAM_RATE_LIMIT_MAX", "SPAM_RATE_LIMIT_WINDOW",
		"SPAM_MESSAGE_MIN_LEN", "SPAM_MESSAGE_MAX_LEN",
		"QUEUE_NAME", "QUEUE_CONSUMER_GROUP", "QUEUE_CONSUMER_NAME",
		"QUEUE_MAX_RETRIES", "QUEUE_VISIBILITY_TIMEOUT", "QUEUE_POLL_INTERVAL",
		"QUEUE_BATCH_SIZE", "QUEUE_MAX_LEN", "QUEUE_ENABLE_DLQ",
		"WEBHOOK_TIMEOUT", "WEBHOOK_MAX_RETRIES", "WEBHOOK_RETRY_DELAY",
		"APP_ENV", "APP_NAME",
	}
	for _, v := range unset {
		require.NoError(t, os.Unsetenv(v))
	}

	require.NoError(t, Load(""))
	c := Get()

	assert.Equal(t, 3, c.SpamRateLimitMax)
	assert.Equal(t, time.Hour, c.SpamRateLimitWindow)
	assert.Equal(t, 10, c.SpamMessageMinLen)
	assert.Equal(t, 2000, c.SpamMessageMaxLen)

	assert.Equal(t, "submissions:accepted", c.QueueName)
	assert.Equal(t, "notifier", c.QueueConsumerGroup)
	assert.Equal(t, "notifier-0", c.QueueConsumerName)
	assert.Equal(t, 3, c.QueueMaxRetries)
	assert.Equal(t, 30*time.Second, c.QueueVisibilityTimeout)
	assert.Equal(t, time.Second, c.QueuePollInterval)
	assert.Equal(t, int64(10), c.QueueBatchSize)
	assert.Equal(t, int64(100000), c.QueueMaxLen)
	assert.True(t, c.QueueEnableDLQ)

	assert.Equal(t, 10*time.Second, c.WebhookTimeout)
	assert.Equal(t, 2, c.WebhookMaxRetries)
	assert.Equal(t, time.Second, c.WebhookRetryDelay)

	assert.Equal(t, "dev", c.AppEnv)
	assert.Equal(t, "contact_gateway", c.AppName)
}

func TestLoad_EnvOverridesDefault(t *testing.T) {
	t.Setenv("SPAM_MESSAGE_MAX_LEN", "500")
	t.Setenv("SPAM_RATE_LIMIT_WINDOW", "15m")
	t.Setenv("QUEUE_NAME", "submissions:test")

	require.NoError(t, Load(""))
	c := Get()

	assert.Equal(t, 500, c.SpamMessageMaxLen)
	assert.Equal(t, 15*time.Minute, c.SpamRateLimitWindow)
	assert.Equal(t, "submissions:test", c.QueueName)

	// untouched knobs keep their defaults
	assert.Equal(t, 3, c.SpamRateLimitMax)
	assert.Equal(t, 10, c.SpamMessageMinLen)
}
