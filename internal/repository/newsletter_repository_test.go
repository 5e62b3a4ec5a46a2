package repository

import (
	"context"
	"testing"

	"github.com/digitalpro/contact-gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewsletterRepository_Create(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewNewsletterRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, &model.NewsletterSubscription{
		Email:    "subscriber@example.com",
		IsActive: true,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "subscriber@example.com", created.Email)
	assert.True(t, created.IsActive)
	assert.NotZero(t, created.SubscribedAt)

	t.Run("duplicate email is rejected", func(t *testing.T) {
		_, err := repo.Create(ctx, &model.NewsletterSubscription{
			Email:    "subscriber@example.com",
			IsActive: true,
		})
		assert.Error(t, err)
	})
}

func TestNewsletterRepository_GetByEmail(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewNewsletterRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, &model.NewsletterSubscription{
		Email:    "known@example.com",
		IsActive: true,
	})
	require.NoError(t, err)

	t.Run("existing email", func(t *testing.T) {
		sub, err := repo.GetByEmail(ctx, "known@example.com")
		require.NoError(t, err)
		assert.Equal(t, "known@example.com", sub.Email)
	})

	t.Run("missing email", func(t *testing.T) {
		_, err := repo.GetByEmail(ctx, "missing@example.com")
		assert.ErrorIs(t, err, ErrSubscriptionNotFound)
	})
}

func TestNewsletterRepository_DeactivateAndReactivate(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewNewsletterRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, &model.NewsletterSubscription{
		Email:    "cycle@example.com",
		IsActive: true,
	})
	require.NoError(t, err)

	t.Run("deactivate active subscription", func(t *testing.T) {
		err := repo.Deactivate(ctx, "cycle@example.com")
		require.NoError(t, err)

		sub, err := repo.GetByEmail(ctx, "cycle@example.com")
		require.NoError(t, err)
		assert.False(t, sub.IsActive)
		require.NotNil(t, sub.UnsubscribedAt)
	})

	t.Run("deactivate twice reports not found", func(t *testing.T) {
		err := repo.Deactivate(ctx, "cycle@example.com")
		assert.ErrorIs(t, err, ErrSubscriptionNotFound)
	})

	t.Run("reactivate clears unsubscription", func(t *testing.T) {
		err := repo.Reactivate(ctx, created.ID)
		require.NoError(t, err)

		sub, err := repo.GetByEmail(ctx, "cycle@example.com")
		require.NoError(t, err)
		assert.True(t, sub.IsActive)
		assert.Nil(t, sub.UnsubscribedAt)
	})

	t.Run("reactivate missing id", func(t *testing.T) {
		err := repo.Reactivate(ctx, 99999)
		assert.ErrorIs(t, err, ErrSubscriptionNotFound)
	})
}
