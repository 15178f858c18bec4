package db

import (
	"context"

	"gorm.io/gorm"

	"diabeater-backend/internal/apperror"
	"diabeater-backend/internal/domain/feedback"
)

// featuredLimit caps how many testimonials the landing page shows.
const featuredLimit = 3

type FeedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// FetchFeatured returns the landing-page testimonials: approved five-star
// entries flagged for marketing, newest first, at most three. The fixed
// ordering keeps the selection stable when more than three qualify.
func (r *FeedbackRepository) FetchFeatured(ctx context.Context) ([]feedback.Testimonial, error) {
	var rows []feedback.Feedback
	err := r.db.WithContext(ctx).
		Where("display_on_marketing = ?", true).
		Where("rating = ?", 5).
		Where("status = ?", feedback.StatusApproved).
		Order("created_at DESC").
		Limit(featuredLimit).
		Find(&rows).Error
	if err != nil {
		return nil, apperror.QueryFailed("could not load featured feedback", err)
	}

	out := make([]feedback.Testimonial, 0, len(rows))
	for _, row := range rows {
		if !row.Displayable() {
			continue
		}
		out = append(out, row.Testimonial())
	}
	return out, nil
}
