package handler

import (
	"net/http"
	"strconv"

	"cookbook/internal/middleware"
	"cookbook/internal/service"
	"cookbook/pkg/pagination"
	"cookbook/pkg/response"

	"github.com/gin-gonic/gin"
)

type RecipeBookHandler struct {
	bookService service.RecipeBookService
}

// NewRecipeBookHandler sets up the routing dependencies for recipe book endpoints
func NewRecipeBookHandler(bookService service.RecipeBookService) *RecipeBookHandler {
	return &RecipeBookHandler{bookService: bookService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *RecipeBookHandler) RegisterRoutes(router *gin.RouterGroup) {
	books := router.Group("/recipe_books")
	{
		books.GET("", h.ListBooks)
		books.POST("", middleware.RequireAuth(), h.CreateBook)
		books.GET("/:id", middleware.RequireAuth(), h.GetBook)
		books.PATCH("/:id", middleware.RequireAuth(), h.UpdateBook)
		books.PATCH("/:id/publish", middleware.RequireAuth(), h.PublishBook)
	}
}

func bookID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "recipe book not found"))
		return 0, false
	}
	return uint(id), true
}

// ListBooks handles GET /recipe_books returning published books only
// @Summary      List recipe books
// @Description  Retrieves a paginated list of published recipe books
// @Tags         recipe_books
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=response.Page}
// @Router       /recipe_books [get]
func (h *RecipeBookHandler) ListBooks(c *gin.Context) {
	params := pagination.Parse(c)

	books, total, err := h.bookService.List(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paged(http.StatusOK, books, total, params.Page, params.Limit))
}

// CreateBook handles POST /recipe_books
// @Summary      Create recipe book
// @Description  Creates a recipe book from published or owned recipes
// @Tags         recipe_books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.RecipeBookInput  true  "Recipe Book Payload"
// @Success      201      {object}  response.Response{data=model.RecipeBook}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /recipe_books [post]
func (h *RecipeBookHandler) CreateBook(c *gin.Context) {
	var input service.RecipeBookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	book, err := h.bookService.Create(c.Request.Context(), middleware.CurrentUserID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, book))
}

// GetBook handles GET /recipe_books/:id
// @Summary      Get recipe book
// @Description  Fetch a single recipe book. Unpublished books are visible to their owner only.
// @Tags         recipe_books
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Recipe Book ID"
// @Success      200  {object}  response.Response{data=model.RecipeBook}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /recipe_books/{id} [get]
func (h *RecipeBookHandler) GetBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	book, err := h.bookService.Get(c.Request.Context(), id, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, book))
}

// UpdateBook handles PATCH /recipe_books/:id
// @Summary      Update recipe book
// @Description  Replaces the book's content, reconciling its recipe list against the stored state
// @Tags         recipe_books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                      true  "Recipe Book ID"
// @Param        payload  body      service.RecipeBookInput  true  "Recipe Book Payload"
// @Success      200      {object}  response.Response{data=model.RecipeBook}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /recipe_books/{id} [patch]
func (h *RecipeBookHandler) UpdateBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	var input service.RecipeBookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	book, err := h.bookService.Patch(c.Request.Context(), id, middleware.CurrentUserID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, book))
}

// PublishBook handles PATCH /recipe_books/:id/publish
// @Summary      Publish recipe book
// @Description  Marks an owned recipe book as published. Publishing is one-way.
// @Tags         recipe_books
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Recipe Book ID"
// @Success      200  {object}  response.Response{data=model.RecipeBook}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /recipe_books/{id}/publish [patch]
func (h *RecipeBookHandler) PublishBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	book, err := h.bookService.Publish(c.Request.Context(), id, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, book))
}
