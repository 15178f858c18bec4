package billing

import "time"

const PartnerCodeStatusActive = "active"

// PartnerCode is the 4-digit referral code issued to a new premium
// subscriber. The code string is the primary key, so uniqueness holds
// against both active and historical codes.
type PartnerCode struct {
	Code        string `gorm:"primaryKey"`
	OwnerUserID uint   `gorm:"not null;uniqueIndex:idx_partner_codes_owner"`
	Status      string `gorm:"not null;default:'active'"`

	CreatedAt time.Time
}
