package services

import (
	"context"
	"errors"
	"strings"

	"github.com/digitalpro/contact-gateway/internal/model"
	"github.com/digitalpro/contact-gateway/internal/repository"
	"github.com/digitalpro/contact-gateway/pkg/prom"
)

var (
	ErrNotSubscribed = errors.New("email is not subscribed")
)

type NewsletterRepository interface {
	Create(ctx context.Context, sub *model.NewsletterSubscription) (*model.NewsletterSubscription, error)
	GetByEmail(ctx context.Context, email string) (*model.NewsletterSubscription, error)
	Reactivate(ctx context.Context, id int64) error
	Deactivate(ctx context.Context, email string) error
}

type NewsletterService struct {
	repo NewsletterRepository
}

func NewNewsletterService(repo NewsletterRepository) *NewsletterService {
	return &NewsletterService{
		repo: repo,
	}
}

// Subscribe is idempotent: an already-active address succeeds without a
// new row, an unsubscribed one is reactivated.
func (s *NewsletterService) Subscribe(ctx context.Context, email string) (*model.NewsletterSubscription, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrMissingFields
	}
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrSubscriptionNotFound) {
		return nil, err
	}

	if existing != nil {
		if existing.IsActive {
			return existing, nil
		}
		if err := s.repo.Reactivate(ctx, existing.ID); err != nil {
			return nil, err
		}
		prom.IncCounter(prom.SystemNewsletter, prom.MetricNewsletterEvents, "resubscribed")
		return s.repo.GetByEmail(ctx, email)
	}

	created, err := s.repo.Create(ctx, &model.NewsletterSubscription{
		Email:    email,
		IsActive: true,
	})
	if err != nil {
		return nil, err
	}
	prom.IncCounter(prom.SystemNewsletter, prom.MetricNewsletterEvents, "subscribed")
	return created, nil
}

func (s *NewsletterService) Unsubscribe(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ErrMissingFields
	}

	if err := s.repo.Deactivate(ctx, email); err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			return ErrNotSubscribed
		}
		return err
	}
	prom.IncCounter(prom.SystemNewsletter, prom.MetricNewsletterEvents, "unsubscribed")
	return nil
}
