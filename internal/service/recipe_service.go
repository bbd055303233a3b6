package service

import (
	"context"
	"math"
	"time"

	"cookbook/internal/model"
	"cookbook/internal/repository"
)

// IngredientInput is one submitted ingredient line of a component or step.
type IngredientInput struct {
	Name  string               `json:"name" binding:"required"`
	Value float64              `json:"value"`
	Unit  model.IngredientUnit `json:"unit" binding:"required"`
	Hint  string               `json:"hint"`
}

// ComponentInput is one submitted component; its position in the list
// becomes the component's index.
type ComponentInput struct {
	Name        string            `json:"name" binding:"required"`
	Description string            `json:"description"`
	Ingredients []IngredientInput `json:"ingredients"`
}

// StepInput is one submitted preparation step.
type StepInput struct {
	Description string            `json:"description" binding:"required"`
	PictureID   string            `json:"picture_id"`
	Ingredients []IngredientInput `json:"ingredients"`
}

// ToolInput references a catalog tool by name.
type ToolInput struct {
	Name string `json:"name" binding:"required"`
	Hint string `json:"hint"`
}

// RecipeInput is the full nested payload of a create or patch request.
type RecipeInput struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	Tags        []string         `json:"tags"`
	Number      int              `json:"number" binding:"required"`
	Unit        model.RecipeUnit `json:"unit" binding:"required"`
	CoverID     string           `json:"cover_id"`
	PictureIDs  []string         `json:"picture_ids"`
	Components  []ComponentInput `json:"components"`
	Steps       []StepInput      `json:"steps"`
	Tools       []ToolInput      `json:"tools"`
}

// RecipeService implements the recipe aggregate's operations. Every
// mutation runs inside one transaction: all referenced pictures,
// ingredients and tools are resolved or created there and the aggregate
// commits atomically.
type RecipeService interface {
	Create(ctx context.Context, userID string, input RecipeInput) (*model.Recipe, error)
	Get(ctx context.Context, id uint, userID string) (*model.Recipe, error)
	List(ctx context.Context, page, limit int) ([]model.Recipe, int64, error)
	Patch(ctx context.Context, id uint, userID string, input RecipeInput) (*model.Recipe, error)
	Publish(ctx context.Context, id uint, userID string) (*model.Recipe, error)
	Rate(ctx context.Context, id uint, userID string, rating int) (*model.Recipe, error)
}

type recipeService struct {
	txm      repository.TransactionManager
	recipes  repository.RecipeRepository
	catalog  repository.CatalogRepository
	pictures PictureService
}

func NewRecipeService(txm repository.TransactionManager, recipes repository.RecipeRepository, catalog repository.CatalogRepository, pictures PictureService) RecipeService {
	return &recipeService{txm: txm, recipes: recipes, catalog: catalog, pictures: pictures}
}

func validateRecipeInput(input RecipeInput) error {
	if !input.Unit.Valid() {
		return errorOf(ErrValidation, "unknown recipe unit %q", input.Unit)
	}
	for _, component := range input.Components {
		for _, ingredient := range component.Ingredients {
			if !ingredient.Unit.Valid() {
				return errorOf(ErrValidation, "unknown ingredient unit %q", ingredient.Unit)
			}
		}
	}
	for _, step := range input.Steps {
		for _, ingredient := range step.Ingredients {
			if !ingredient.Unit.Valid() {
				return errorOf(ErrValidation, "unknown ingredient unit %q", ingredient.Unit)
			}
		}
	}
	return nil
}

func (s *recipeService) Create(ctx context.Context, userID string, input RecipeInput) (*model.Recipe, error) {
	if err := validateRecipeInput(input); err != nil {
		return nil, err
	}

	var recipe *model.Recipe
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		r := &model.Recipe{
			Name:        input.Name,
			Description: input.Description,
			UserID:      userID,
			Tags:        tagList(input.Tags),
			Number:      input.Number,
			Unit:        input.Unit,
		}

		if err := s.resolveCover(txCtx, r, input.CoverID, userID); err != nil {
			return err
		}

		pictures, err := s.mergePictures(txCtx, nil, input.PictureIDs, userID)
		if err != nil {
			return err
		}
		r.Pictures = pictures

		components, err := s.mergeComponents(txCtx, nil, input.Components)
		if err != nil {
			return err
		}
		r.Components = components

		steps, err := s.mergeSteps(txCtx, nil, input.Steps, userID)
		if err != nil {
			return err
		}
		r.Steps = steps

		tools, err := s.buildTools(txCtx, input.Tools)
		if err != nil {
			return err
		}
		r.Tools = tools

		if err := s.recipes.Create(txCtx, r); err != nil {
			return err
		}

		recipe, err = s.recipes.GetByID(txCtx, r.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

// Get applies the uniform visibility rule: published recipes are visible
// to everyone, drafts only to their owner.
func (s *recipeService) Get(ctx context.Context, id uint, userID string) (*model.Recipe, error) {
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return nil, errorOf(ErrNotFound, "recipe not found")
	}
	if !recipe.Published() && recipe.UserID != userID {
		return nil, errorOf(ErrForbidden, "recipe not published")
	}
	return recipe, nil
}

func (s *recipeService) List(ctx context.Context, page, limit int) ([]model.Recipe, int64, error) {
	return s.recipes.List(ctx, page, limit)
}

// Patch mutates the recipe in place. Components, steps and their
// ingredient lines are reconciled positionally against the stored lists;
// trailing children beyond the submitted length are dropped. Tools are
// rebuilt from scratch.
func (s *recipeService) Patch(ctx context.Context, id uint, userID string, input RecipeInput) (*model.Recipe, error) {
	if err := validateRecipeInput(input); err != nil {
		return nil, err
	}

	var recipe *model.Recipe
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		r, err := s.recipes.GetByID(txCtx, id)
		if err != nil {
			return errorOf(ErrNotFound, "recipe not found")
		}
		if r.UserID != userID {
			return errorOf(ErrForbidden, "only edit your own recipe")
		}

		r.Name = input.Name
		r.Description = input.Description
		r.Tags = tagList(input.Tags)
		r.Number = input.Number
		r.Unit = input.Unit

		if err := s.resolveCover(txCtx, r, input.CoverID, userID); err != nil {
			return err
		}

		pictures, err := s.mergePictures(txCtx, r.Pictures, input.PictureIDs, userID)
		if err != nil {
			return err
		}
		r.Pictures = pictures

		components, err := s.mergeComponents(txCtx, r.Components, input.Components)
		if err != nil {
			return err
		}
		r.Components = components

		steps, err := s.mergeSteps(txCtx, r.Steps, input.Steps, userID)
		if err != nil {
			return err
		}
		r.Steps = steps

		tools, err := s.buildTools(txCtx, input.Tools)
		if err != nil {
			return err
		}
		r.Tools = tools

		r.UpdatedAt = time.Now().UTC()

		if err := s.recipes.Save(txCtx, r); err != nil {
			return err
		}

		recipe, err = s.recipes.GetByID(txCtx, r.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

// Publish is a one-way transition; re-publishing fails.
func (s *recipeService) Publish(ctx context.Context, id uint, userID string) (*model.Recipe, error) {
	var recipe *model.Recipe
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		r, err := s.recipes.GetItem(txCtx, id)
		if err != nil {
			return errorOf(ErrNotFound, "recipe not found")
		}
		if r.UserID != userID {
			return errorOf(ErrForbidden, "only publish your own recipe")
		}
		if r.Published() {
			return errorOf(ErrForbidden, "recipe is already published")
		}

		if err := s.recipes.SetPublishedAt(txCtx, id, time.Now().UTC()); err != nil {
			return err
		}

		recipe, err = s.recipes.GetByID(txCtx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

// Rate upserts the caller's assessment of a visible recipe and stores the
// rounded average on the recipe row.
func (s *recipeService) Rate(ctx context.Context, id uint, userID string, rating int) (*model.Recipe, error) {
	if rating < 1 || rating > 5 {
		return nil, errorOf(ErrValidation, "rating must be between 1 and 5")
	}

	var recipe *model.Recipe
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		r, err := s.recipes.GetItem(txCtx, id)
		if err != nil {
			return errorOf(ErrNotFound, "recipe not found")
		}
		if !r.Published() && r.UserID != userID {
			return errorOf(ErrForbidden, "recipe not published")
		}

		assessment := model.RecipeAssessment{RecipeID: id, UserID: userID, Rating: rating}
		if err := s.recipes.UpsertAssessment(txCtx, &assessment); err != nil {
			return err
		}

		average, err := s.recipes.AverageRating(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.recipes.UpdateRating(txCtx, id, int(math.Round(average))); err != nil {
			return err
		}

		recipe, err = s.recipes.GetByID(txCtx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

func tagList(tags []string) model.StringList {
	if tags == nil {
		return model.StringList{}
	}
	return model.StringList(tags)
}

func (s *recipeService) resolveCover(ctx context.Context, recipe *model.Recipe, coverID, userID string) error {
	if coverID == "" {
		recipe.CoverID = nil
		recipe.Cover = nil
		return nil
	}

	cover, err := s.pictures.Find(ctx, coverID, userID)
	if err != nil {
		return err
	}
	recipe.CoverID = &cover.ID
	recipe.Cover = cover
	return nil
}

// mergePictures rebuilds the picture list from the submitted ids. A
// picture already attached to the recipe is reused without a fresh
// ownership check; everything else is resolved through the media store.
// Duplicate ids collapse to one entry so the join insert cannot conflict.
func (s *recipeService) mergePictures(ctx context.Context, attached []model.Picture, ids []string, userID string) ([]model.Picture, error) {
	pictures := make([]model.Picture, 0, len(ids))
	for _, id := range ids {
		if findPicture(pictures, id) != nil {
			continue
		}
		if existing := findPicture(attached, id); existing != nil {
			pictures = append(pictures, *existing)
			continue
		}

		picture, err := s.pictures.Find(ctx, id, userID)
		if err != nil {
			return nil, err
		}
		pictures = append(pictures, *picture)
	}
	return pictures, nil
}

func findPicture(pictures []model.Picture, id string) *model.Picture {
	for i := range pictures {
		if pictures[i].ID == id {
			return &pictures[i]
		}
	}
	return nil
}

// mergeComponents reconciles the submitted component list against the
// existing one by position: an existing component at the same index is
// overwritten in place, anything beyond the stored length is created, and
// the stored tail past the submitted length is dropped by the final list
// assignment.
func (s *recipeService) mergeComponents(ctx context.Context, existing []model.RecipeComponent, inputs []ComponentInput) ([]model.RecipeComponent, error) {
	components := make([]model.RecipeComponent, 0, len(inputs))
	for i, input := range inputs {
		var component model.RecipeComponent
		if i < len(existing) {
			component = existing[i]
			component.Name = input.Name
			component.Description = input.Description
		} else {
			component = model.RecipeComponent{
				Index:       i,
				Name:        input.Name,
				Description: input.Description,
			}
		}

		ingredients, err := s.mergeComponentIngredients(ctx, component.Ingredients, input.Ingredients)
		if err != nil {
			return nil, err
		}
		component.Ingredients = ingredients

		components = append(components, component)
	}
	return components, nil
}

// mergeComponentIngredients applies the same positional rule one level
// deeper, resolving every submitted name through the catalog first.
func (s *recipeService) mergeComponentIngredients(ctx context.Context, existing []model.ComponentIngredient, inputs []IngredientInput) ([]model.ComponentIngredient, error) {
	ingredients := make([]model.ComponentIngredient, 0, len(inputs))
	for i, input := range inputs {
		catalogEntry, err := s.catalog.FindOrCreateIngredient(ctx, input.Name, input.Unit)
		if err != nil {
			return nil, err
		}

		var ingredient model.ComponentIngredient
		if i < len(existing) {
			ingredient = existing[i]
		} else {
			ingredient = model.ComponentIngredient{Index: i}
		}
		ingredient.IngredientName = catalogEntry.Name
		ingredient.Value = input.Value
		ingredient.Unit = input.Unit
		ingredient.Hint = input.Hint

		ingredients = append(ingredients, ingredient)
	}
	return ingredients, nil
}

func (s *recipeService) mergeSteps(ctx context.Context, existing []model.RecipeStep, inputs []StepInput, userID string) ([]model.RecipeStep, error) {
	steps := make([]model.RecipeStep, 0, len(inputs))
	for i, input := range inputs {
		var step model.RecipeStep
		if i < len(existing) {
			step = existing[i]
			step.Description = input.Description
		} else {
			step = model.RecipeStep{Index: i, Description: input.Description}
		}

		if input.PictureID != "" {
			picture, err := s.pictures.Find(ctx, input.PictureID, userID)
			if err != nil {
				return nil, err
			}
			step.PictureID = &picture.ID
			step.Picture = picture
		} else {
			step.PictureID = nil
			step.Picture = nil
		}

		ingredients, err := s.mergeStepIngredients(ctx, step.Ingredients, input.Ingredients)
		if err != nil {
			return nil, err
		}
		step.Ingredients = ingredients

		steps = append(steps, step)
	}
	return steps, nil
}

func (s *recipeService) mergeStepIngredients(ctx context.Context, existing []model.StepIngredient, inputs []IngredientInput) ([]model.StepIngredient, error) {
	ingredients := make([]model.StepIngredient, 0, len(inputs))
	for i, input := range inputs {
		catalogEntry, err := s.catalog.FindOrCreateIngredient(ctx, input.Name, input.Unit)
		if err != nil {
			return nil, err
		}

		var ingredient model.StepIngredient
		if i < len(existing) {
			ingredient = existing[i]
		} else {
			ingredient = model.StepIngredient{Index: i}
		}
		ingredient.IngredientName = catalogEntry.Name
		ingredient.Value = input.Value
		ingredient.Unit = input.Unit
		ingredient.Hint = input.Hint

		ingredients = append(ingredients, ingredient)
	}
	return ingredients, nil
}

// buildTools resolves every submitted tool through the catalog. No
// positional reconciliation here: previous associations are discarded.
func (s *recipeService) buildTools(ctx context.Context, inputs []ToolInput) ([]model.RecipeTool, error) {
	tools := make([]model.RecipeTool, 0, len(inputs))
	for _, input := range inputs {
		tool, err := s.catalog.FindOrCreateTool(ctx, input.Name)
		if err != nil {
			return nil, err
		}
		tools = append(tools, model.RecipeTool{ToolName: tool.Name, Hint: input.Hint})
	}
	return tools, nil
}
