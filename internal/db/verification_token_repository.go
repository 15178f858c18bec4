package db

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"diabeater-backend/internal/apperror"
	"diabeater-backend/internal/domain/users"
)

type VerificationTokenRepository struct {
	db *gorm.DB
}

func NewVerificationTokenRepository(db *gorm.DB) *VerificationTokenRepository {
	return &VerificationTokenRepository{db: db}
}

// Upsert stores the token for the user, replacing any previous one so only
// the most recently emailed link works.
func (r *VerificationTokenRepository) Upsert(ctx context.Context, t *users.VerificationToken) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "expires_at", "created_at"}),
	}).Create(t).Error
	if err != nil {
		return apperror.QueryFailed("could not store verification token", err)
	}
	return nil
}

func (r *VerificationTokenRepository) GetByToken(ctx context.Context, token string) (*users.VerificationToken, error) {
	var t users.VerificationToken
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("verification token")
	}
	if err != nil {
		return nil, apperror.QueryFailed("could not load verification token", err)
	}
	return &t, nil
}

func (r *VerificationTokenRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&users.VerificationToken{}, id).Error; err != nil {
		return apperror.QueryFailed("could not delete verification token", err)
	}
	return nil
}
