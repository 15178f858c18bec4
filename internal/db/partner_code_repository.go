package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"diabeater-backend/internal/apperror"
	"diabeater-backend/internal/domain/billing"
)

type PartnerCodeRepository struct {
	db *gorm.DB
}

func NewPartnerCodeRepository(db *gorm.DB) *PartnerCodeRepository {
	return &PartnerCodeRepository{db: db}
}

func (r *PartnerCodeRepository) Exists(ctx context.Context, code string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&billing.PartnerCode{}).
		Where("code = ?", code).
		Count(&n).Error
	if err != nil {
		return false, apperror.QueryFailed("could not check partner code", err)
	}
	return n > 0, nil
}

func (r *PartnerCodeRepository) Create(ctx context.Context, pc *billing.PartnerCode) error {
	// The code column is the primary key, so a concurrent draw of the same
	// code fails here and the caller redraws.
	if err := r.db.WithContext(ctx).Create(pc).Error; err != nil {
		return apperror.QueryFailed("could not create partner code", err)
	}
	return nil
}

// ForOwner returns the user's code, or (nil, nil) when none was issued.
func (r *PartnerCodeRepository) ForOwner(ctx context.Context, userID uint) (*billing.PartnerCode, error) {
	var pc billing.PartnerCode
	err := r.db.WithContext(ctx).Where("owner_user_id = ?", userID).First(&pc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.QueryFailed("could not load partner code", err)
	}
	return &pc, nil
}
