package billing

import (
	"time"

	"diabeater-backend/internal/domain/plans"
	"diabeater-backend/internal/domain/users"
)

const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusExpired   = "expired"
	SubscriptionStatusCancelled = "cancelled"
)

// Subscription is a fixed one-month premium term. EndDate is always exactly
// one calendar month after StartDate at creation; there is no proration.
type Subscription struct {
	ID             uint   `gorm:"primaryKey"`
	SubscriptionID string `gorm:"not null;uniqueIndex:idx_subscriptions_subscription_id"`
	UserID         uint   `gorm:"not null;index"`
	User           users.User
	PlanID         *uint
	Plan           *plans.Plan

	Type          string  `gorm:"not null"`
	PlanName      string  `gorm:"column:plan_name;not null"`
	Price         float64 `gorm:"not null"`
	PaymentMethod string  `gorm:"not null;default:'simulated'"`
	Status        string  `gorm:"not null;default:'active';index"`

	StartDate time.Time `gorm:"not null"`
	EndDate   time.Time `gorm:"not null"`

	CreatedAt time.Time
}

// ActiveAt reports whether the term still covers the given instant.
func (s Subscription) ActiveAt(now time.Time) bool {
	return s.Status == SubscriptionStatusActive && s.EndDate.After(now)
}
