package repository

import (
	"context"
	"errors"
	"time"

	"github.com/digitalpro/contact-gateway/internal/model"
	"github.com/digitalpro/contact-gateway/pkg/pg"
	"gorm.io/gorm"
)

var (
	// ErrSubscriptionNotFound is returned when no subscription exists
	// for the given email.
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

type NewsletterRepository struct {
	*pg.DB
}

func NewNewsletterRepository(db *pg.DB) *NewsletterRepository {
	return &NewsletterRepository{
		db,
	}
}

func (r *NewsletterRepository) Create(ctx context.Context, sub *model.NewsletterSubscription) (*model.NewsletterSubscription, error) {
	entity := toNewsletterEntity(sub)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toNewsletterModel(entity), nil
}

func (r *NewsletterRepository) GetByEmail(ctx context.Context, email string) (*model.NewsletterSubscription, error) {
	var entity NewsletterEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("email = ?", email).
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return toNewsletterModel(&entity), nil
}

// Reactivate flips an unsubscribed address back to active and clears the
// unsubscription timestamp.
func (r *NewsletterRepository) Reactivate(ctx context.Context, id int64) error {
	res := r.Write(ctx).WithContext(ctx).
		Model(&NewsletterEntity{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":       true,
			"unsubscribed_at": nil,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

func (r *NewsletterRepository) Deactivate(ctx context.Context, email string) error {
	res := r.Write(ctx).WithContext(ctx).
		Model(&NewsletterEntity{}).
		Where("email = ? AND is_active = ?", email, true).
		Updates(map[string]interface{}{
			"is_active":       false,
			"unsubscribed_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}
