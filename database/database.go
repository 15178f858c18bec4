package database

import (
	"errors"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"diabeater-backend/internal/domain/billing"
	"diabeater-backend/internal/domain/content"
	"diabeater-backend/internal/domain/feedback"
	"diabeater-backend/internal/domain/plans"
	"diabeater-backend/internal/domain/users"
)

func InitDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Required for UUID generation
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Fatal("Failed to enable pgcrypto extension:", err)
	}

	if err := db.AutoMigrate(
		&users.User{},
		&users.VerificationToken{},

		&content.Document{},
		&feedback.Feedback{},

		&plans.Plan{},
		&billing.Subscription{},
		&billing.PartnerCode{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	seedPlans(db)
	return db
}

// seedPlans guarantees the two purchasable tiers exist so a fresh install
// can sell premium without a manual insert.
func seedPlans(db *gorm.DB) {
	defaults := []plans.Plan{
		{Name: "Basic", Type: "monthly", Price: 0, Tier: plans.TierBasic, Interval: "month"},
		{Name: "Premium", Type: "monthly", Price: 9.99, Tier: plans.TierPremium, Interval: "month"},
	}
	for _, p := range defaults {
		var existing plans.Plan
		err := db.Where("tier = ?", p.Tier).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&p).Error; err != nil {
				log.Printf("Failed to seed %s plan: %v", p.Tier, err)
			}
			continue
		}
		if err != nil {
			log.Printf("Failed to check %s plan: %v", p.Tier, err)
		}
	}
}
