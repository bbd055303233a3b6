package main

import (
	"log"
	"os"

	"cookbook/internal/database"
	"cookbook/internal/handler"
	"cookbook/internal/middleware"
	"cookbook/internal/repository"
	"cookbook/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// @title           Cookbook API
// @version         1.0
// @description     Recipe sharing backend with users, pictures, recipes and recipe books.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "cookbook"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	// Set up dependencies (Repository -> Service -> Handler)
	txm := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	pictureRepo := repository.NewPictureRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	bookRepo := repository.NewRecipeBookRepository(db, recipeRepo)

	userService := service.NewUserService(userRepo)
	authService := service.NewAuthService(txm, userRepo, tokenRepo, middleware.GetJWTSecret())
	pictureService := service.NewPictureService(pictureRepo, dataDir)
	recipeService := service.NewRecipeService(txm, recipeRepo, catalogRepo, pictureService)
	bookService := service.NewRecipeBookService(txm, bookRepo, recipeRepo, pictureService)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService, authService)
	pictureHandler := handler.NewPictureHandler(pictureService)
	recipeHandler := handler.NewRecipeHandler(recipeService)
	bookHandler := handler.NewRecipeBookHandler(bookService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// API Routing
	userHandler.RegisterRoutes(router.Group(""))
	pictureHandler.RegisterRoutes(router.Group(""))
	recipeHandler.RegisterRoutes(router.Group(""))
	bookHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
