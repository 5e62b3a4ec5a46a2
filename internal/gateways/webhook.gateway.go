package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/digitalpro/contact-gateway/internal/model"
	"github.com/digitalpro/contact-gateway/pkg/logger"
	"github.com/digitalpro/contact-gateway/pkg/prom"
	"github.com/valyala/fasthttp"
)

var (
	ErrNoTargetsConfigured = errors.New("no webhook targets configured")
)

const (
	TargetPrimary = "primary"
	TargetBackup  = "backup"
)

type Config struct {
	PrimaryURL      string
	BackupURL       string
	Timeout         time.Duration
	MaxRetries      int
	RetryDelay      time.Duration
	MaxConns        int
	ReadBufferSize  int
	WriteBufferSize int
}

type target struct {
	name string
	url  string
}

// Client delivers submission notifications to a webhook endpoint. The
// primary target is tried first on every attempt; the backup only when
// the primary fails.
type Client struct {
	config  *Config
	targets []target
	client  *fasthttp.Client
}

func NewClient(config *Config) (*Client, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}
	if config.PrimaryURL == "" {
		return nil, ErrNoTargetsConfigured
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.RetryDelay == 0 {
		config.RetryDelay = time.Second
	}

	targets := []target{{name: TargetPrimary, url: config.PrimaryURL}}
	if config.BackupURL != "" {
		targets = append(targets, target{name: TargetBackup, url: config.BackupURL})
	}

	c := &Client{
		config:  config,
		targets: targets,
		client: &fasthttp.Client{
			MaxConnsPerHost:     config.MaxConns,
			ReadTimeout:         config.Timeout,
			WriteTimeout:        config.Timeout,
			MaxIdleConnDuration: 60 * time.Second,
			ReadBufferSize:      config.ReadBufferSize,
			WriteBufferSize:     config.WriteBufferSize,
		},
	}

	logger.Info("webhook client initialized",
		"targets", len(c.targets),
		"timeout", config.Timeout)

	return c, nil
}

// Deliver posts the event. Each round walks the targets in order; a
// round succeeds as soon as one target accepts the payload.
func (c *Client) Deliver(ctx context.Context, event *model.SubmissionEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.config.RetryDelay):
			}
		}

		for _, tgt := range c.targets {
			start := time.Now()
			err := c.post(ctx, tgt.url, body)
			prom.ObserveHistogram(prom.SystemNotifications, prom.MetricNotificationDeliveryTime,
				time.Since(start).Seconds(), tgt.name)

			if err == nil {
				logger.Info("notification delivered",
					"submission_id", event.SubmissionID,
					"target", tgt.name,
					"attempt", attempt+1)
				return nil
			}

			logger.Warn("notification delivery failed",
				"submission_id", event.SubmissionID,
				"target", tgt.name,
				"attempt", attempt+1,
				"error", err)
			lastErr = err
		}
	}

	return fmt.Errorf("delivery failed after %d attempts: %w", c.config.MaxRetries+1, lastErr)
}

func (c *Client) post(ctx context.Context, url string, body []byte) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.config.Timeout)
	}

	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	statusCode := resp.StatusCode()
	if statusCode != fasthttp.StatusOK && statusCode != fasthttp.StatusAccepted {
		return fmt.Errorf("unexpected status code: %d, body: %s", statusCode, resp.Body())
	}

	return nil
}
