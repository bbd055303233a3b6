package service

import (
	"context"
	"errors"
	"testing"

	"cookbook/internal/model"
)

func TestCreateRecipeBookMembership(t *testing.T) {
	env := setupEnv(t)
	owner := createTestUser(t, env.db, "alice")
	other := createTestUser(t, env.db, "bob")

	ownDraft, err := env.recipes.Create(context.Background(), owner.ID, sampleRecipeInput())
	if err != nil {
		t.Fatal("Failed to create recipe:", err)
	}

	foreign, err := env.recipes.Create(context.Background(), other.ID, sampleRecipeInput())
	if err != nil {
		t.Fatal("Failed to create foreign recipe:", err)
	}

	// A foreign draft cannot join the book.
	input := RecipeBookInput{Name: "Winter Menu", Recipes: []uint{ownDraft.ID, foreign.ID}}
	if _, err := env.books.Create(context.Background(), owner.ID, input); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden for foreign draft member, got %v", err)
	}

	// An unknown recipe id fails the whole transaction.
	input = RecipeBookInput{Name: "Winter Menu", Recipes: []uint{ownDraft.ID, 9999}}
	if _, err := env.books.Create(context.Background(), owner.ID, input); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown member, got %v", err)
	}

	if _, err := env.recipes.Publish(context.Background(), foreign.ID, other.ID); err != nil {
		t.Fatal("Failed to publish foreign recipe:", err)
	}

	// Own drafts and published recipes of anyone are both allowed.
	input = RecipeBookInput{
		Name:    "Winter Menu",
		Tags:    []string{"seasonal"},
		Recipes: []uint{ownDraft.ID, foreign.ID},
	}
	book, err := env.books.Create(context.Background(), owner.ID, input)
	if err != nil {
		t.Fatal("Failed to create recipe book:", err)
	}

	if book.Name != "Winter Menu" || book.CreatedBy.Username != "alice" {
		t.Errorf("Unexpected book head: %+v", book)
	}
	if len(book.Recipes) != 2 {
		t.Fatalf("Expected 2 member recipes, got %d", len(book.Recipes))
	}
	if book.Published() {
		t.Error("Expected a freshly created book to be a draft")
	}
}

func TestRecipeBookVisibilityAndPublish(t *testing.T) {
	env := setupEnv(t)
	owner := createTestUser(t, env.db, "alice")
	stranger := createTestUser(t, env.db, "bob")

	book, err := env.books.Create(context.Background(), owner.ID, RecipeBookInput{Name: "Empty Book"})
	if err != nil {
		t.Fatal("Failed to create recipe book:", err)
	}

	if _, err := env.books.Get(context.Background(), book.ID, stranger.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden for stranger on draft book, got %v", err)
	}
	if _, err := env.books.Get(context.Background(), 9999, owner.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown book, got %v", err)
	}

	if _, total, err := env.books.List(context.Background(), 1, 20); err != nil || total != 0 {
		t.Errorf("Expected empty listing before publish, got total=%d err=%v", total, err)
	}

	if _, err := env.books.Publish(context.Background(), book.ID, stranger.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden for stranger publish, got %v", err)
	}

	published, err := env.books.Publish(context.Background(), book.ID, owner.ID)
	if err != nil {
		t.Fatal("Failed to publish book:", err)
	}
	if !published.Published() {
		t.Error("Expected book to be published")
	}

	if _, err := env.books.Get(context.Background(), book.ID, stranger.ID); err != nil {
		t.Errorf("Expected stranger to read published book, got %v", err)
	}
	if _, total, err := env.books.List(context.Background(), 1, 20); err != nil || total != 1 {
		t.Errorf("Expected one published book in listing, got total=%d err=%v", total, err)
	}

	if _, err := env.books.Publish(context.Background(), book.ID, owner.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden for re-publish, got %v", err)
	}
}

func TestPatchRecipeBookRebuildsMembers(t *testing.T) {
	env := setupEnv(t)
	owner := createTestUser(t, env.db, "alice")

	first, err := env.recipes.Create(context.Background(), owner.ID, sampleRecipeInput())
	if err != nil {
		t.Fatal("Failed to create recipe:", err)
	}
	second, err := env.recipes.Create(context.Background(), owner.ID, sampleRecipeInput())
	if err != nil {
		t.Fatal("Failed to create recipe:", err)
	}

	book, err := env.books.Create(context.Background(), owner.ID, RecipeBookInput{
		Name:    "Favorites",
		Recipes: []uint{first.ID, second.ID},
	})
	if err != nil {
		t.Fatal("Failed to create recipe book:", err)
	}

	patched, err := env.books.Patch(context.Background(), book.ID, owner.ID, RecipeBookInput{
		Name:    "Favorites v2",
		Recipes: []uint{second.ID},
	})
	if err != nil {
		t.Fatal("Failed to patch recipe book:", err)
	}

	if patched.Name != "Favorites v2" {
		t.Errorf("Expected renamed book, got %s", patched.Name)
	}
	if len(patched.Recipes) != 1 || patched.Recipes[0].ID != second.ID {
		t.Errorf("Expected the single remaining member, got %+v", patched.Recipes)
	}
	if n := countRows(t, env.db, &model.RecipeBookRecipe{}); n != 1 {
		t.Errorf("Expected 1 membership row, got %d", n)
	}

	if _, err := env.books.Patch(context.Background(), book.ID, "someone-else", RecipeBookInput{Name: "Hijack"}); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden for stranger patch, got %v", err)
	}
}

func TestDuplicateMemberIDsCollapse(t *testing.T) {
	env := setupEnv(t)
	owner := createTestUser(t, env.db, "alice")

	recipe, err := env.recipes.Create(context.Background(), owner.ID, sampleRecipeInput())
	if err != nil {
		t.Fatal("Failed to create recipe:", err)
	}

	book, err := env.books.Create(context.Background(), owner.ID, RecipeBookInput{
		Name:    "Repetitive",
		Recipes: []uint{recipe.ID, recipe.ID},
	})
	if err != nil {
		t.Fatal("Failed to create recipe book:", err)
	}

	if len(book.Recipes) != 1 {
		t.Errorf("Expected duplicate member ids to collapse to 1, got %d", len(book.Recipes))
	}
	if n := countRows(t, env.db, &model.RecipeBookRecipe{}); n != 1 {
		t.Errorf("Expected 1 membership row, got %d", n)
	}
}

func TestRecipeBookCover(t *testing.T) {
	env := setupEnv(t)
	owner := createTestUser(t, env.db, "alice")
	stranger := createTestUser(t, env.db, "bob")

	cover := createTestPicture(t, env.db, owner.ID)
	foreign := createTestPicture(t, env.db, stranger.ID)

	book, err := env.books.Create(context.Background(), owner.ID, RecipeBookInput{
		Name:    "Illustrated",
		CoverID: cover.ID,
	})
	if err != nil {
		t.Fatal("Failed to create recipe book:", err)
	}
	if book.Cover == nil || book.Cover.ID != cover.ID {
		t.Error("Expected the cover picture to be attached")
	}

	if _, err := env.books.Create(context.Background(), owner.ID, RecipeBookInput{
		Name:    "Stolen Cover",
		CoverID: foreign.ID,
	}); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden for foreign cover, got %v", err)
	}

	// Patching with an empty cover id clears the cover.
	patched, err := env.books.Patch(context.Background(), book.ID, owner.ID, RecipeBookInput{Name: "Illustrated"})
	if err != nil {
		t.Fatal("Failed to patch recipe book:", err)
	}
	if patched.Cover != nil {
		t.Error("Expected the cover to be cleared")
	}
}
