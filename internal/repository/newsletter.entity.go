package repository

import (
	"time"

	"github.com/digitalpro/contact-gateway/internal/model"
)

type NewsletterEntity struct {
	ID             int64      `db:"id"              gorm:"primaryKey;autoIncrement;column:id"`
	Email          string     `db:"email"           gorm:"column:email;not null;uniqueIndex"`
	IsActive       bool       `db:"is_active"       gorm:"column:is_active;not null;default:true"`
	SubscribedAt   time.Time  `db:"subscribed_at"   gorm:"column:subscribed_at;autoCreateTime"`
	UnsubscribedAt *time.Time `db:"unsubscribed_at" gorm:"column:unsubscribed_at"`
}

func (NewsletterEntity) TableName() string {
	return "newsletter_subscriptions"
}

func toNewsletterEntity(m *model.NewsletterSubscription) *NewsletterEntity {
	if m == nil {
		return nil
	}
	return &NewsletterEntity{
		ID:             m.ID,
		Email:          m.Email,
		IsActive:       m.IsActive,
		SubscribedAt:   m.SubscribedAt,
		UnsubscribedAt: m.UnsubscribedAt,
	}
}

func toNewsletterModel(e *NewsletterEntity) *model.NewsletterSubscription {
	if e == nil {
		return nil
	}
	return &model.NewsletterSubscription{
		ID:             e.ID,
		Email:          e.Email,
		IsActive:       e.IsActive,
		SubscribedAt:   e.SubscribedAt,
		UnsubscribedAt: e.UnsubscribedAt,
	}
}
