package plans

import "time"

type Plan struct {
	ID       uint    `gorm:"primaryKey"`
	Name     string  `gorm:"not null"`
	Type     string  `gorm:"not null;default:'monthly'"`
	Price    float64 `gorm:"not null"`
	Tier     string  `gorm:"not null;uniqueIndex:idx_plans_tier"` // "basic" | "premium"
	Interval string  `gorm:"not null;default:'month'"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
