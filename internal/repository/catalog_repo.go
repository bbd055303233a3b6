package repository

import (
	"context"
	"errors"

	"cookbook/internal/model"

	"gorm.io/gorm"
)

// CatalogRepository backs the de-duplicated ingredient and tool registries.
// FindOrCreate never updates an existing row: the first writer of a name
// fixes its defaults. Two transactions racing on the same new name are not
// defended against here; the loser fails on the primary-key conflict and
// the client retries.
type CatalogRepository interface {
	FindOrCreateIngredient(ctx context.Context, name string, unit model.IngredientUnit) (*model.Ingredient, error)
	FindOrCreateTool(ctx context.Context, name string) (*model.Tool, error)
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) FindOrCreateIngredient(ctx context.Context, name string, unit model.IngredientUnit) (*model.Ingredient, error) {
	db := GetDB(ctx, r.db)

	var ingredient model.Ingredient
	err := db.First(&ingredient, "name = ?", name).Error
	if err == nil {
		return &ingredient, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	ingredient = model.Ingredient{Name: name, DefaultUnit: unit}
	if err := db.Create(&ingredient).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *catalogRepository) FindOrCreateTool(ctx context.Context, name string) (*model.Tool, error) {
	db := GetDB(ctx, r.db)

	var tool model.Tool
	err := db.First(&tool, "name = ?", name).Error
	if err == nil {
		return &tool, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tool = model.Tool{Name: name}
	if err := db.Create(&tool).Error; err != nil {
		return nil, err
	}
	return &tool, nil
}
