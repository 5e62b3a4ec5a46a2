package notifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/digitalpro/contact-gateway/pkg/logger"
)

var (
	// ErrAlreadyDelivered means the event reached the webhook on an
	// earlier attempt; the message should be acked without redelivery.
	ErrAlreadyDelivered = errors.New("event already delivered")

	// ErrDeliveryInFlight means another consumer instance holds the
	// delivery lock right now; the message should be retried later.
	ErrDeliveryInFlight = errors.New("delivery in flight on another consumer")
)

type GuardConfig struct {
	// LockTTL bounds how long a crashed consumer can block redelivery.
	LockTTL time.Duration

	// DeliveredTTL is how long the delivered marker suppresses
	// duplicates claimed back from the stream.
	DeliveredTTL time.Duration

	LockKeyPrefix      string
	DeliveredKeyPrefix string
}

func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		LockTTL:            30 * time.Second,
		DeliveredTTL:       24 * time.Hour,
		LockKeyPrefix:      "notify:lock:",
		DeliveredKeyPrefix: "notify:delivered:",
	}
}

// guardStore is the slice of the redis adapter the guard needs.
type guardStore interface {
	Set(key string, value []byte, ttl time.Duration) error
	SetNX(key string, value []byte, ttl time.Duration) (bool, error)
	Del(key string) error
	Exist(key string) (int64, error)
}

// DeliveryGuard keeps webhook delivery effectively-once across consumer
// instances: a short-lived lock serializes concurrent claims of the same
// event and a delivered marker absorbs stream redeliveries. Retry
// counting stays with the queue, which already caps attempts and dead-
// letters the rest.
type DeliveryGuard struct {
	store  guardStore
	config GuardConfig
}

func NewDeliveryGuard(store guardStore, config GuardConfig) *DeliveryGuard {
	return &DeliveryGuard{
		store:  store,
		config: config,
	}
}

// DeliveryClaim is a held lock for one event; it must be settled with
// MarkDelivered or Release.
type DeliveryClaim struct {
	EventID string
	held    bool
}

func (g *DeliveryGuard) Begin(ctx context.Context, eventID string) (*DeliveryClaim, error) {
	deliveredKey := g.config.DeliveredKeyPrefix + eventID
	exists, err := g.store.Exist(deliveredKey)
	if err != nil {
		// a failed lookup must not block delivery; a duplicate POST is
		// cheaper than a dropped lead
		logger.Warn("failed to check delivered marker", "event_id", eventID, "error", err)
	} else if exists > 0 {
		return nil, ErrAlreadyDelivered
	}

	lockKey := g.config.LockKeyPrefix + eventID
	lockValue := []byte(fmt.Sprintf("%d", time.Now().UnixNano()))

	acquired, err := g.store.SetNX(lockKey, lockValue, g.config.LockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire delivery lock: %w", err)
	}
	if !acquired {
		return nil, ErrDeliveryInFlight
	}

	return &DeliveryClaim{EventID: eventID, held: true}, nil
}

func (g *DeliveryGuard) MarkDelivered(ctx context.Context, claim *DeliveryClaim) error {
	deliveredKey := g.config.DeliveredKeyPrefix + claim.EventID
	if err := g.store.Set(deliveredKey, []byte("1"), g.config.DeliveredTTL); err != nil {
		return fmt.Errorf("mark delivered: %w", err)
	}
	g.release(claim)
	return nil
}

// Release drops the lock without a delivered marker so the event can be
// retried. Safe to call after MarkDelivered.
func (g *DeliveryGuard) Release(ctx context.Context, claim *DeliveryClaim) {
	if claim == nil || !claim.held {
		return
	}
	g.release(claim)
}

func (g *DeliveryGuard) release(claim *DeliveryClaim) {
	lockKey := g.config.LockKeyPrefix + claim.EventID
	if err := g.store.Del(lockKey); err != nil {
		logger.Warn("failed to release delivery lock", "event_id", claim.EventID, "error", err)
	}
	claim.held = false
}

func (g *DeliveryGuard) IsDelivered(ctx context.Context, eventID string) (bool, error) {
	exists, err := g.store.Exist(g.config.DeliveredKeyPrefix + eventID)
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}
