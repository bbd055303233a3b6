package repository

import (
	"context"

	"cookbook/internal/model"

	"gorm.io/gorm"
)

// PictureRepository defines the data access surface for uploaded pictures.
type PictureRepository interface {
	Create(ctx context.Context, picture *model.Picture) error
	GetByID(ctx context.Context, id string) (*model.Picture, error)
	// MarkUsed sets the used flag. Idempotent; the flag is never cleared.
	MarkUsed(ctx context.Context, id string) error
}

type pictureRepository struct {
	db *gorm.DB
}

func NewPictureRepository(db *gorm.DB) PictureRepository {
	return &pictureRepository{db: db}
}

func (r *pictureRepository) Create(ctx context.Context, picture *model.Picture) error {
	return GetDB(ctx, r.db).Create(picture).Error
}

func (r *pictureRepository) GetByID(ctx context.Context, id string) (*model.Picture, error) {
	var picture model.Picture
	if err := GetDB(ctx, r.db).First(&picture, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &picture, nil
}

func (r *pictureRepository) MarkUsed(ctx context.Context, id string) error {
	return GetDB(ctx, r.db).Model(&model.Picture{}).Where("id = ?", id).Update("used", true).Error
}
