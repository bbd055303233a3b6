package database

import (
	"cookbook/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM and migrates
// the schema.
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the tables for all models. Split out from
// NewConnection so tests can run it against an in-memory sqlite database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Picture{},
		&model.Ingredient{},
		&model.Tool{},
		&model.Recipe{},
		&model.RecipeComponent{},
		&model.ComponentIngredient{},
		&model.RecipeStep{},
		&model.StepIngredient{},
		&model.RecipeTool{},
		&model.RecipePicture{},
		&model.RecipeAssessment{},
		&model.RecipeBook{},
		&model.RecipeBookRecipe{},
	)
}
