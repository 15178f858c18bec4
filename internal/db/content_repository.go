package db

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"diabeater-backend/internal/apperror"
	"diabeater-backend/internal/domain/content"
)

type ContentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// GetDocument loads the single live content document. A missing row is
// (nil, false, nil) so the caller can fall back to defaults without
// treating it as a failure.
func (r *ContentRepository) GetDocument(ctx context.Context) (map[string]any, bool, error) {
	var row content.Document
	err := r.db.WithContext(ctx).
		Where("id = ?", content.CurrentDocumentID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperror.QueryFailed("could not load content document", err)
	}
	return row.Decode(), true, nil
}

// SaveDocument merges the partial document into the stored one, so an admin
// edit of a handful of fields never wipes the rest.
func (r *ContentRepository) SaveDocument(ctx context.Context, partial map[string]any) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		merged := map[string]any{}

		var row content.Document
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", content.CurrentDocumentID).
			First(&row).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
		case err != nil:
			return apperror.QueryFailed("could not load content document", err)
		default:
			if existing := row.Decode(); existing != nil {
				merged = existing
			}
		}

		for k, v := range partial {
			merged[k] = v
		}

		raw, err := json.Marshal(merged)
		if err != nil {
			return apperror.QueryFailed("could not encode content document", err)
		}

		row.ID = content.CurrentDocumentID
		row.Doc = raw
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"doc", "updated_at"}),
		}).Create(&row).Error; err != nil {
			return apperror.QueryFailed("could not save content document", err)
		}
		return nil
	})
}
