package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	gateway "github.com/digitalpro/contact-gateway/internal/gateways"
	"github.com/digitalpro/contact-gateway/internal/model"
	"github.com/digitalpro/contact-gateway/internal/queue"
	"github.com/digitalpro/contact-gateway/pkg/logger"
	"github.com/digitalpro/contact-gateway/pkg/prom"
)

var _ WebhookDeliverer = (*gateway.Client)(nil)

// WebhookDeliverer abstracts the gateway client so the processor can be
// tested without a network.
type WebhookDeliverer interface {
	Deliver(ctx context.Context, event *model.SubmissionEvent) error
}

// SubmissionEventProcessor forwards accepted-submission events to the
// configured webhook. A nil guard disables duplicate suppression.
type SubmissionEventProcessor struct {
	client WebhookDeliverer
	guard  *DeliveryGuard
}

func NewSubmissionEventProcessor(client WebhookDeliverer, guard *DeliveryGuard) *SubmissionEventProcessor {
	return &SubmissionEventProcessor{
		client: client,
		guard:  guard,
	}
}

func (p *SubmissionEventProcessor) GetType() string {
	return "submission-event"
}

// Process parses and delivers one queue message. An undecodable payload
// is acked so it cannot poison the stream; delivery failures return the
// error so the queue retries.
func (p *SubmissionEventProcessor) Process(ctx context.Context, queueMessage *queue.Message) error {
	var event model.SubmissionEvent
	if err := json.Unmarshal(queueMessage.Data, &event); err != nil {
		logger.Error("failed to unmarshal submission event",
			"message_id", queueMessage.ID,
			"error", err)
		prom.IncCounter(prom.SystemNotifications, prom.MetricNotificationDeliveries, prom.OutcomeFailed)
		return nil
	}

	var claim *DeliveryClaim
	if p.guard != nil {
		eventID := strconv.FormatInt(event.SubmissionID, 10)
		var err error
		claim, err = p.guard.Begin(ctx, eventID)
		if err != nil {
			if errors.Is(err, ErrAlreadyDelivered) {
				logger.Info("submission event already delivered, skipping",
					"submission_id", event.SubmissionID,
					"message_id", queueMessage.ID)
				return nil
			}
			if errors.Is(err, ErrDeliveryInFlight) {
				return err
			}
			prom.IncCounter(prom.SystemNotifications, prom.MetricNotificationDeliveries, prom.OutcomeFailed)
			return err
		}
		defer p.guard.Release(ctx, claim)
	}

	logger.Info("delivering submission event",
		"submission_id", event.SubmissionID,
		"message_id", queueMessage.ID,
		"attempts", queueMessage.Attempts)

	if err := p.client.Deliver(ctx, &event); err != nil {
		prom.IncCounter(prom.SystemNotifications, prom.MetricNotificationDeliveries, prom.OutcomeFailed)
		return err
	}

	if p.guard != nil && claim != nil {
		if err := p.guard.MarkDelivered(ctx, claim); err != nil {
			logger.Warn("failed to mark event delivered",
				"submission_id", event.SubmissionID,
				"error", err)
		}
	}

	prom.IncCounter(prom.SystemNotifications, prom.MetricNotificationDeliveries, prom.OutcomeDelivered)
	return nil
}
