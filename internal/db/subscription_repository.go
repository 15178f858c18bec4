package db

import (
	"context"
	"time"

	"gorm.io/gorm"

	"diabeater-backend/internal/apperror"
	"diabeater-backend/internal/domain/billing"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *billing.Subscription) error {
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		return apperror.QueryFailed("could not create subscription", err)
	}
	return nil
}

// ActiveForUser returns unexpired active subscriptions for the user.
func (r *SubscriptionRepository) ActiveForUser(ctx context.Context, userID uint) ([]billing.Subscription, error) {
	var out []billing.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("status = ?", billing.SubscriptionStatusActive).
		Where("end_date > ?", time.Now()).
		Find(&out).Error
	if err != nil {
		return nil, apperror.QueryFailed("could not load subscriptions", err)
	}
	return out, nil
}
