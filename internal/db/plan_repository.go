package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"diabeater-backend/internal/apperror"
	"diabeater-backend/internal/domain/plans"
)

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) GetByTier(ctx context.Context, tier string) (*plans.Plan, error) {
	var p plans.Plan
	err := r.db.WithContext(ctx).Where("tier = ?", tier).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("plan")
	}
	if err != nil {
		return nil, apperror.QueryFailed("could not load plan", err)
	}
	return &p, nil
}

func (r *PlanRepository) List(ctx context.Context) ([]plans.Plan, error) {
	var out []plans.Plan
	if err := r.db.WithContext(ctx).Order("price ASC").Find(&out).Error; err != nil {
		return nil, apperror.QueryFailed("could not list plans", err)
	}
	return out, nil
}
