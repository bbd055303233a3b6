package repository

import (
	"context"
	"time"

	"cookbook/internal/model"

	"gorm.io/gorm"
)

// RecipeBookRepository loads and saves the recipe-book aggregate. Member
// recipes are referenced through an explicit join table; Save replaces the
// member set, it never touches the recipes themselves.
type RecipeBookRepository interface {
	Create(ctx context.Context, book *model.RecipeBook) error
	Save(ctx context.Context, book *model.RecipeBook) error
	GetByID(ctx context.Context, id uint) (*model.RecipeBook, error)
	List(ctx context.Context, page, limit int) ([]model.RecipeBook, int64, error)
	SetPublishedAt(ctx context.Context, id uint, at time.Time) error
}

type recipeBookRepository struct {
	db      *gorm.DB
	recipes RecipeRepository
}

func NewRecipeBookRepository(db *gorm.DB, recipes RecipeRepository) RecipeBookRepository {
	return &recipeBookRepository{db: db, recipes: recipes}
}

func (r *recipeBookRepository) Create(ctx context.Context, book *model.RecipeBook) error {
	db := GetDB(ctx, r.db)
	if err := db.Create(book).Error; err != nil {
		return err
	}
	return r.insertMembers(ctx, book)
}

func (r *recipeBookRepository) Save(ctx context.Context, book *model.RecipeBook) error {
	db := GetDB(ctx, r.db)
	if err := db.Save(book).Error; err != nil {
		return err
	}
	if err := db.Where("recipe_book_id = ?", book.ID).Delete(&model.RecipeBookRecipe{}).Error; err != nil {
		return err
	}
	return r.insertMembers(ctx, book)
}

func (r *recipeBookRepository) GetByID(ctx context.Context, id uint) (*model.RecipeBook, error) {
	db := GetDB(ctx, r.db)

	var book model.RecipeBook
	if err := db.First(&book, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := r.loadItem(ctx, &book); err != nil {
		return nil, err
	}

	var links []model.RecipeBookRecipe
	if err := db.Where("recipe_book_id = ?", id).Order("recipe_id").Find(&links).Error; err != nil {
		return nil, err
	}
	book.Recipes = make([]model.Recipe, 0, len(links))
	for _, link := range links {
		recipe, err := r.recipes.GetItem(ctx, link.RecipeID)
		if err != nil {
			return nil, err
		}
		book.Recipes = append(book.Recipes, *recipe)
	}

	return &book, nil
}

func (r *recipeBookRepository) List(ctx context.Context, page, limit int) ([]model.RecipeBook, int64, error) {
	db := GetDB(ctx, r.db)

	var total int64
	if err := db.Model(&model.RecipeBook{}).Where("published_at IS NOT NULL").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var books []model.RecipeBook
	offset := (page - 1) * limit
	if err := db.Where("published_at IS NOT NULL").Order("id").Offset(offset).Limit(limit).Find(&books).Error; err != nil {
		return nil, 0, err
	}

	for i := range books {
		if err := r.loadItem(ctx, &books[i]); err != nil {
			return nil, 0, err
		}
	}

	return books, total, nil
}

func (r *recipeBookRepository) SetPublishedAt(ctx context.Context, id uint, at time.Time) error {
	return GetDB(ctx, r.db).Model(&model.RecipeBook{}).Where("id = ?", id).Update("published_at", at).Error
}

func (r *recipeBookRepository) loadItem(ctx context.Context, book *model.RecipeBook) error {
	db := GetDB(ctx, r.db)

	var author model.User
	if err := db.First(&author, "id = ?", book.UserID).Error; err != nil {
		return err
	}
	book.CreatedBy = author.Ref()

	if book.CoverID != nil {
		var cover model.Picture
		if err := db.First(&cover, "id = ?", *book.CoverID).Error; err != nil {
			return err
		}
		book.Cover = &cover
	}

	return nil
}

func (r *recipeBookRepository) insertMembers(ctx context.Context, book *model.RecipeBook) error {
	db := GetDB(ctx, r.db)

	for _, recipe := range book.Recipes {
		link := model.RecipeBookRecipe{RecipeBookID: book.ID, RecipeID: recipe.ID}
		if err := db.Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}
