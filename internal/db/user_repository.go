package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"diabeater-backend/internal/apperror"
	"diabeater-backend/internal/domain/users"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*users.User, error) {
	var u users.User
	err := r.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("user")
	}
	if err != nil {
		return nil, apperror.QueryFailed("could not load user", err)
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	var u users.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("user")
	}
	if err != nil {
		return nil, apperror.QueryFailed("could not load user", err)
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *users.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return apperror.QueryFailed("could not create user", err)
	}
	return nil
}

// UpdateNames fills in the profile names collected on the sign-up form.
func (r *UserRepository) UpdateNames(ctx context.Context, id uint, firstName, lastName string) error {
	res := r.db.WithContext(ctx).Model(&users.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"first_name": firstName,
			"last_name":  lastName,
		})
	if res.Error != nil {
		return apperror.QueryFailed("could not update user profile", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("user")
	}
	return nil
}

// CompleteRegistration finalizes the account record after email
// verification.
func (r *UserRepository) CompleteRegistration(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&users.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"registration_completed": true,
			"profile_completed":      true,
		})
	if res.Error != nil {
		return apperror.QueryFailed("could not complete registration", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("user")
	}
	return nil
}

// SetPremium flips the account to the premium role. Called only after a
// successful charge.
func (r *UserRepository) SetPremium(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&users.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"role":       users.RolePremium,
			"is_premium": true,
		})
	if res.Error != nil {
		return apperror.QueryFailed("could not update user role", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("user")
	}
	return nil
}

// MarkEmailVerified records a clicked verification link.
func (r *UserRepository) MarkEmailVerified(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&users.User{}).
		Where("id = ?", id).
		Update("email_verified", true)
	if res.Error != nil {
		return apperror.QueryFailed("could not mark email verified", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("user")
	}
	return nil
}
