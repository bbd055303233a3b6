package repository

import (
	"context"
	"testing"

	"cookbook/internal/model"
)

func seedRecipe(t *testing.T, repo RecipeRepository, userID string) *model.Recipe {
	recipe := &model.Recipe{
		Name:   "Stew",
		UserID: userID,
		Number: 4,
		Unit:   model.UnitPerson,
		Tags:   model.StringList{"hearty"},
		Components: []model.RecipeComponent{
			{Index: 0, Name: "Base", Ingredients: []model.ComponentIngredient{
				{Index: 0, IngredientName: "onion", Value: 2, Unit: model.UnitGram},
			}},
		},
		Steps: []model.RecipeStep{
			{Index: 0, Description: "Chop", Ingredients: []model.StepIngredient{
				{Index: 0, IngredientName: "onion", Value: 2, Unit: model.UnitGram},
			}},
			{Index: 1, Description: "Simmer"},
		},
		Tools: []model.RecipeTool{{ToolName: "pot"}},
	}
	if err := repo.Create(context.Background(), recipe); err != nil {
		t.Fatal("Failed to create recipe:", err)
	}
	return recipe
}

func TestRecipeAggregateRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecipeRepository(db)

	user := model.User{ID: "user-1", Username: "alice", Password: "x", Email: "a@example.com", FullName: "Alice"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatal("Failed to create user:", err)
	}

	recipe := seedRecipe(t, repo, user.ID)

	loaded, err := repo.GetByID(context.Background(), recipe.ID)
	if err != nil {
		t.Fatal("Failed to load recipe:", err)
	}

	if loaded.CreatedBy.Username != "alice" {
		t.Errorf("Expected resolved author, got %+v", loaded.CreatedBy)
	}
	if len(loaded.Components) != 1 || len(loaded.Components[0].Ingredients) != 1 {
		t.Errorf("Unexpected components: %+v", loaded.Components)
	}
	if len(loaded.Steps) != 2 || loaded.Steps[0].Description != "Chop" || loaded.Steps[1].Description != "Simmer" {
		t.Errorf("Expected steps in index order, got %+v", loaded.Steps)
	}
	if len(loaded.Tools) != 1 || loaded.Tools[0].ToolName != "pot" {
		t.Errorf("Unexpected tools: %+v", loaded.Tools)
	}
}

func TestRecipeDeleteLeavesNoOrphans(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecipeRepository(db)

	user := model.User{ID: "user-1", Username: "alice", Password: "x", Email: "a@example.com", FullName: "Alice"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatal("Failed to create user:", err)
	}

	recipe := seedRecipe(t, repo, user.ID)

	if err := db.Create(&model.RecipeAssessment{RecipeID: recipe.ID, UserID: user.ID, Rating: 5}).Error; err != nil {
		t.Fatal("Failed to create assessment:", err)
	}
	if err := db.Create(&model.RecipeBook{Name: "Book", UserID: user.ID, ID: 1}).Error; err != nil {
		t.Fatal("Failed to create book:", err)
	}
	if err := db.Create(&model.RecipeBookRecipe{RecipeBookID: 1, RecipeID: recipe.ID}).Error; err != nil {
		t.Fatal("Failed to create membership:", err)
	}

	if err := repo.Delete(context.Background(), recipe.ID); err != nil {
		t.Fatal("Failed to delete recipe:", err)
	}

	for _, table := range []interface{}{
		&model.Recipe{},
		&model.RecipeComponent{},
		&model.ComponentIngredient{},
		&model.RecipeStep{},
		&model.StepIngredient{},
		&model.RecipeTool{},
		&model.RecipePicture{},
		&model.RecipeAssessment{},
		&model.RecipeBookRecipe{},
	} {
		var count int64
		if err := db.Model(table).Count(&count).Error; err != nil {
			t.Fatal("Failed to count rows:", err)
		}
		if count != 0 {
			t.Errorf("Expected no rows left in %T, got %d", table, count)
		}
	}
}
