package repository

import (
	"context"
	"database/sql"
	"time"

	"cookbook/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeRepository loads and saves the full recipe aggregate. Child rows
// (components, steps, their ingredient lines, tools, picture links) are
// managed with explicit statements scoped to the surrounding transaction
// instead of ORM-level cascades, so a shrunken child list leaves no
// orphaned rows behind.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *model.Recipe) error
	// Save updates the recipe row and replaces every child collection
	// with the aggregate's current content.
	Save(ctx context.Context, recipe *model.Recipe) error
	GetByID(ctx context.Context, id uint) (*model.Recipe, error)
	// GetItem fetches the recipe row with author and cover only, without
	// the nested collections.
	GetItem(ctx context.Context, id uint) (*model.Recipe, error)
	List(ctx context.Context, page, limit int) ([]model.Recipe, int64, error)
	// SetPublishedAt stamps the publish timestamp without touching the
	// child collections.
	SetPublishedAt(ctx context.Context, id uint, at time.Time) error
	Delete(ctx context.Context, id uint) error

	UpsertAssessment(ctx context.Context, assessment *model.RecipeAssessment) error
	AverageRating(ctx context.Context, recipeID uint) (float64, error)
	UpdateRating(ctx context.Context, recipeID uint, rating int) error
}

type recipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func orderByIndex(name string) clause.OrderByColumn {
	return clause.OrderByColumn{Column: clause.Column{Name: name}}
}

func (r *recipeRepository) Create(ctx context.Context, recipe *model.Recipe) error {
	db := GetDB(ctx, r.db)
	if err := db.Create(recipe).Error; err != nil {
		return err
	}
	return r.insertChildren(ctx, recipe)
}

func (r *recipeRepository) Save(ctx context.Context, recipe *model.Recipe) error {
	db := GetDB(ctx, r.db)
	if err := db.Save(recipe).Error; err != nil {
		return err
	}
	if err := r.deleteChildren(ctx, recipe.ID); err != nil {
		return err
	}
	return r.insertChildren(ctx, recipe)
}

func (r *recipeRepository) GetByID(ctx context.Context, id uint) (*model.Recipe, error) {
	recipe, err := r.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.loadChildren(ctx, recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

func (r *recipeRepository) GetItem(ctx context.Context, id uint) (*model.Recipe, error) {
	db := GetDB(ctx, r.db)

	var recipe model.Recipe
	if err := db.First(&recipe, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := r.loadItem(ctx, &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) List(ctx context.Context, page, limit int) ([]model.Recipe, int64, error) {
	db := GetDB(ctx, r.db)

	var total int64
	if err := db.Model(&model.Recipe{}).Where("published_at IS NOT NULL").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []model.Recipe
	offset := (page - 1) * limit
	if err := db.Where("published_at IS NOT NULL").Order("id").Offset(offset).Limit(limit).Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	for i := range recipes {
		if err := r.loadItem(ctx, &recipes[i]); err != nil {
			return nil, 0, err
		}
	}

	return recipes, total, nil
}

func (r *recipeRepository) SetPublishedAt(ctx context.Context, id uint, at time.Time) error {
	return GetDB(ctx, r.db).Model(&model.Recipe{}).Where("id = ?", id).Update("published_at", at).Error
}

// Delete removes the recipe, all of its child rows and any book membership.
func (r *recipeRepository) Delete(ctx context.Context, id uint) error {
	if err := r.deleteChildren(ctx, id); err != nil {
		return err
	}

	db := GetDB(ctx, r.db)
	if err := db.Where("recipe_id = ?", id).Delete(&model.RecipeBookRecipe{}).Error; err != nil {
		return err
	}
	if err := db.Where("recipe_id = ?", id).Delete(&model.RecipeAssessment{}).Error; err != nil {
		return err
	}
	return db.Delete(&model.Recipe{}, "id = ?", id).Error
}

func (r *recipeRepository) UpsertAssessment(ctx context.Context, assessment *model.RecipeAssessment) error {
	return GetDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "recipe_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating"}),
	}).Create(assessment).Error
}

func (r *recipeRepository) AverageRating(ctx context.Context, recipeID uint) (float64, error) {
	var avg sql.NullFloat64
	err := GetDB(ctx, r.db).Model(&model.RecipeAssessment{}).
		Where("recipe_id = ?", recipeID).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	return avg.Float64, nil
}

func (r *recipeRepository) UpdateRating(ctx context.Context, recipeID uint, rating int) error {
	return GetDB(ctx, r.db).Model(&model.Recipe{}).Where("id = ?", recipeID).Update("rating", rating).Error
}

// loadItem resolves the author and cover of an already fetched recipe row.
func (r *recipeRepository) loadItem(ctx context.Context, recipe *model.Recipe) error {
	db := GetDB(ctx, r.db)

	var author model.User
	if err := db.First(&author, "id = ?", recipe.UserID).Error; err != nil {
		return err
	}
	recipe.CreatedBy = author.Ref()

	if recipe.CoverID != nil {
		var cover model.Picture
		if err := db.First(&cover, "id = ?", *recipe.CoverID).Error; err != nil {
			return err
		}
		recipe.Cover = &cover
	}

	return nil
}

func (r *recipeRepository) loadChildren(ctx context.Context, recipe *model.Recipe) error {
	db := GetDB(ctx, r.db)

	// attached pictures
	var links []model.RecipePicture
	if err := db.Where("recipe_id = ?", recipe.ID).Order("picture_id").Find(&links).Error; err != nil {
		return err
	}
	recipe.Pictures = make([]model.Picture, 0, len(links))
	for _, link := range links {
		var picture model.Picture
		if err := db.First(&picture, "id = ?", link.PictureID).Error; err != nil {
			return err
		}
		recipe.Pictures = append(recipe.Pictures, picture)
	}

	// components and their ingredient lines
	recipe.Components = []model.RecipeComponent{}
	if err := db.Where("recipe_id = ?", recipe.ID).Order(orderByIndex("index")).Find(&recipe.Components).Error; err != nil {
		return err
	}

	var componentIngredients []model.ComponentIngredient
	if err := db.Where("recipe_id = ?", recipe.ID).
		Order(orderByIndex("component_index")).Order(orderByIndex("index")).
		Find(&componentIngredients).Error; err != nil {
		return err
	}
	byComponent := make(map[int][]model.ComponentIngredient)
	for _, ingredient := range componentIngredients {
		byComponent[ingredient.ComponentIndex] = append(byComponent[ingredient.ComponentIndex], ingredient)
	}
	for i := range recipe.Components {
		component := &recipe.Components[i]
		component.Ingredients = byComponent[component.Index]
		if component.Ingredients == nil {
			component.Ingredients = []model.ComponentIngredient{}
		}
	}

	// steps, their pictures and ingredient lines
	recipe.Steps = []model.RecipeStep{}
	if err := db.Where("recipe_id = ?", recipe.ID).Order(orderByIndex("index")).Find(&recipe.Steps).Error; err != nil {
		return err
	}

	var stepIngredients []model.StepIngredient
	if err := db.Where("recipe_id = ?", recipe.ID).
		Order(orderByIndex("step_index")).Order(orderByIndex("index")).
		Find(&stepIngredients).Error; err != nil {
		return err
	}
	byStep := make(map[int][]model.StepIngredient)
	for _, ingredient := range stepIngredients {
		byStep[ingredient.StepIndex] = append(byStep[ingredient.StepIndex], ingredient)
	}
	for i := range recipe.Steps {
		step := &recipe.Steps[i]
		step.Ingredients = byStep[step.Index]
		if step.Ingredients == nil {
			step.Ingredients = []model.StepIngredient{}
		}
		if step.PictureID != nil {
			var picture model.Picture
			if err := db.First(&picture, "id = ?", *step.PictureID).Error; err != nil {
				return err
			}
			step.Picture = &picture
		}
	}

	// tools
	recipe.Tools = []model.RecipeTool{}
	if err := db.Where("recipe_id = ?", recipe.ID).Order("tool_name").Find(&recipe.Tools).Error; err != nil {
		return err
	}

	return nil
}

func (r *recipeRepository) deleteChildren(ctx context.Context, id uint) error {
	db := GetDB(ctx, r.db)

	for _, child := range []interface{}{
		&model.ComponentIngredient{},
		&model.StepIngredient{},
		&model.RecipeComponent{},
		&model.RecipeStep{},
		&model.RecipeTool{},
		&model.RecipePicture{},
	} {
		if err := db.Where("recipe_id = ?", id).Delete(child).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *recipeRepository) insertChildren(ctx context.Context, recipe *model.Recipe) error {
	db := GetDB(ctx, r.db)

	for _, picture := range recipe.Pictures {
		link := model.RecipePicture{RecipeID: recipe.ID, PictureID: picture.ID}
		if err := db.Create(&link).Error; err != nil {
			return err
		}
	}

	for i := range recipe.Components {
		component := &recipe.Components[i]
		component.RecipeID = recipe.ID
		row := model.RecipeComponent{
			RecipeID:    component.RecipeID,
			Index:       component.Index,
			Name:        component.Name,
			Description: component.Description,
		}
		if err := db.Create(&row).Error; err != nil {
			return err
		}
		for j := range component.Ingredients {
			ingredient := &component.Ingredients[j]
			ingredient.RecipeID = recipe.ID
			ingredient.ComponentIndex = component.Index
			if err := db.Create(ingredient).Error; err != nil {
				return err
			}
		}
	}

	for i := range recipe.Steps {
		step := &recipe.Steps[i]
		step.RecipeID = recipe.ID
		row := model.RecipeStep{
			RecipeID:    step.RecipeID,
			Index:       step.Index,
			Description: step.Description,
			PictureID:   step.PictureID,
		}
		if err := db.Create(&row).Error; err != nil {
			return err
		}
		for j := range step.Ingredients {
			ingredient := &step.Ingredients[j]
			ingredient.RecipeID = recipe.ID
			ingredient.StepIndex = step.Index
			if err := db.Create(ingredient).Error; err != nil {
				return err
			}
		}
	}

	for i := range recipe.Tools {
		tool := &recipe.Tools[i]
		tool.RecipeID = recipe.ID
		if err := db.Create(tool).Error; err != nil {
			return err
		}
	}

	return nil
}
