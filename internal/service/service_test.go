package service

import (
	"testing"

	"cookbook/internal/database"
	"cookbook/internal/model"
	"cookbook/internal/repository"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db       *gorm.DB
	pictures PictureService
	recipes  RecipeService
	books    RecipeBookService
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal("Failed to open test database:", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatal("Failed to run migrations:", err)
	}

	return db
}

func setupEnv(t *testing.T) *testEnv {
	db := setupTestDB(t)

	txm := repository.NewTransactionManager(db)
	pictureService := NewPictureService(repository.NewPictureRepository(db), t.TempDir())
	recipeRepo := repository.NewRecipeRepository(db)
	recipeService := NewRecipeService(txm, recipeRepo, repository.NewCatalogRepository(db), pictureService)
	bookService := NewRecipeBookService(txm, repository.NewRecipeBookRepository(db, recipeRepo), recipeRepo, pictureService)

	return &testEnv{
		db:       db,
		pictures: pictureService,
		recipes:  recipeService,
		books:    bookService,
	}
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *model.User {
	user := &model.User{
		ID:       uuid.NewString(),
		Username: username,
		Password: "unused-hash",
		Email:    username + "@example.com",
		FullName: username,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatal("Failed to create user:", err)
	}
	return user
}

func createTestPicture(t *testing.T, db *gorm.DB, userID string) *model.Picture {
	picture := &model.Picture{
		ID:       uuid.NewString(),
		UserID:   userID,
		Filename: "test.png",
		Path:     "/nonexistent/test.png",
		Width:    10,
		Height:   10,
	}
	if err := db.Create(picture).Error; err != nil {
		t.Fatal("Failed to create picture:", err)
	}
	return picture
}

func countRows(t *testing.T, db *gorm.DB, value interface{}) int64 {
	var count int64
	if err := db.Model(value).Count(&count).Error; err != nil {
		t.Fatal("Failed to count rows:", err)
	}
	return count
}
