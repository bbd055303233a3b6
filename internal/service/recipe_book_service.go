package service

import (
	"context"
	"time"

	"cookbook/internal/model"
	"cookbook/internal/repository"
)

// RecipeBookInput is the payload of a book create or patch request.
// Recipes lists member recipe ids.
type RecipeBookInput struct {
	Name    string   `json:"name" binding:"required"`
	Tags    []string `json:"tags"`
	CoverID string   `json:"cover_id"`
	Recipes []uint   `json:"recipes"`
}

// RecipeBookService mirrors the recipe operations at coarser grain: the
// nested content of member recipes is never touched, only the membership
// list is rebuilt.
type RecipeBookService interface {
	Create(ctx context.Context, userID string, input RecipeBookInput) (*model.RecipeBook, error)
	Get(ctx context.Context, id uint, userID string) (*model.RecipeBook, error)
	List(ctx context.Context, page, limit int) ([]model.RecipeBook, int64, error)
	Patch(ctx context.Context, id uint, userID string, input RecipeBookInput) (*model.RecipeBook, error)
	Publish(ctx context.Context, id uint, userID string) (*model.RecipeBook, error)
}

type recipeBookService struct {
	txm      repository.TransactionManager
	books    repository.RecipeBookRepository
	recipes  repository.RecipeRepository
	pictures PictureService
}

func NewRecipeBookService(txm repository.TransactionManager, books repository.RecipeBookRepository, recipes repository.RecipeRepository, pictures PictureService) RecipeBookService {
	return &recipeBookService{txm: txm, books: books, recipes: recipes, pictures: pictures}
}

func (s *recipeBookService) Create(ctx context.Context, userID string, input RecipeBookInput) (*model.RecipeBook, error) {
	var book *model.RecipeBook
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		b := &model.RecipeBook{
			Name:   input.Name,
			UserID: userID,
			Tags:   tagList(input.Tags),
		}

		if err := s.resolveCover(txCtx, b, input.CoverID, userID); err != nil {
			return err
		}

		members, err := s.mergeMembers(txCtx, nil, input.Recipes, userID)
		if err != nil {
			return err
		}
		b.Recipes = members

		if err := s.books.Create(txCtx, b); err != nil {
			return err
		}

		book, err = s.books.GetByID(txCtx, b.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return book, nil
}

func (s *recipeBookService) Get(ctx context.Context, id uint, userID string) (*model.RecipeBook, error) {
	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		return nil, errorOf(ErrNotFound, "recipe book not found")
	}
	if !book.Published() && book.UserID != userID {
		return nil, errorOf(ErrForbidden, "recipe book not published")
	}
	return book, nil
}

func (s *recipeBookService) List(ctx context.Context, page, limit int) ([]model.RecipeBook, int64, error) {
	return s.books.List(ctx, page, limit)
}

func (s *recipeBookService) Patch(ctx context.Context, id uint, userID string, input RecipeBookInput) (*model.RecipeBook, error) {
	var book *model.RecipeBook
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		b, err := s.books.GetByID(txCtx, id)
		if err != nil {
			return errorOf(ErrNotFound, "recipe book not found")
		}
		if b.UserID != userID {
			return errorOf(ErrForbidden, "only edit your own recipe books")
		}

		b.Name = input.Name
		b.Tags = tagList(input.Tags)

		if err := s.resolveCover(txCtx, b, input.CoverID, userID); err != nil {
			return err
		}

		members, err := s.mergeMembers(txCtx, b.Recipes, input.Recipes, userID)
		if err != nil {
			return err
		}
		b.Recipes = members

		b.UpdatedAt = time.Now().UTC()

		if err := s.books.Save(txCtx, b); err != nil {
			return err
		}

		book, err = s.books.GetByID(txCtx, b.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return book, nil
}

func (s *recipeBookService) Publish(ctx context.Context, id uint, userID string) (*model.RecipeBook, error) {
	var book *model.RecipeBook
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		b, err := s.books.GetByID(txCtx, id)
		if err != nil {
			return errorOf(ErrNotFound, "recipe book not found")
		}
		if b.UserID != userID {
			return errorOf(ErrForbidden, "only publish your own recipe book")
		}
		if b.Published() {
			return errorOf(ErrForbidden, "recipe book is already published")
		}

		if err := s.books.SetPublishedAt(txCtx, id, time.Now().UTC()); err != nil {
			return err
		}

		book, err = s.books.GetByID(txCtx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return book, nil
}

func (s *recipeBookService) resolveCover(ctx context.Context, book *model.RecipeBook, coverID, userID string) error {
	if coverID == "" {
		book.CoverID = nil
		book.Cover = nil
		return nil
	}

	cover, err := s.pictures.Find(ctx, coverID, userID)
	if err != nil {
		return err
	}
	book.CoverID = &cover.ID
	book.Cover = cover
	return nil
}

// mergeMembers rebuilds the member list from the submitted recipe ids. A
// recipe already in the book is reused without a fresh visibility check;
// the rest must exist and be published or owned by the caller. Duplicate
// ids collapse to one membership.
func (s *recipeBookService) mergeMembers(ctx context.Context, attached []model.Recipe, ids []uint, userID string) ([]model.Recipe, error) {
	members := make([]model.Recipe, 0, len(ids))
	for _, id := range ids {
		if findRecipe(members, id) != nil {
			continue
		}
		if existing := findRecipe(attached, id); existing != nil {
			members = append(members, *existing)
			continue
		}

		recipe, err := s.recipes.GetItem(ctx, id)
		if err != nil {
			return nil, errorOf(ErrNotFound, "recipe %d not found", id)
		}
		if !recipe.Published() && recipe.UserID != userID {
			return nil, errorOf(ErrForbidden, "recipe %d not published", id)
		}
		members = append(members, *recipe)
	}
	return members, nil
}

func findRecipe(recipes []model.Recipe, id uint) *model.Recipe {
	for i := range recipes {
		if recipes[i].ID == id {
			return &recipes[i]
		}
	}
	return nil
}
