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

type RecipeHandler struct {
	recipeService service.RecipeService
}

// NewRecipeHandler sets up the routing dependencies for recipe endpoints
func NewRecipeHandler(recipeService service.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.POST("", middleware.RequireAuth(), h.CreateRecipe)
		recipes.GET("/:id", middleware.RequireAuth(), h.GetRecipe)
		recipes.PATCH("/:id", middleware.RequireAuth(), h.UpdateRecipe)
		recipes.PATCH("/:id/publish", middleware.RequireAuth(), h.PublishRecipe)
		recipes.PUT("/:id/rating", middleware.RequireAuth(), h.RateRecipe)
	}
}

// recipeID parses the :id path parameter. A malformed id responds 404
// because no recipe can exist under it.
func recipeID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "recipe not found"))
		return 0, false
	}
	return uint(id), true
}

// ListRecipes handles GET /recipes returning published recipes only
// @Summary      List recipes
// @Description  Retrieves a paginated list of published recipes
// @Tags         recipes
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=response.Page}
// @Router       /recipes [get]
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	params := pagination.Parse(c)

	recipes, total, err := h.recipeService.List(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paged(http.StatusOK, recipes, total, params.Page, params.Limit))
}

// CreateRecipe handles POST /recipes
// @Summary      Create recipe
// @Description  Creates a recipe with its components, steps, tools and pictures in one transaction
// @Tags         recipes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.RecipeInput  true  "Recipe Payload"
// @Success      201      {object}  response.Response{data=model.Recipe}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /recipes [post]
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var input service.RecipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	recipe, err := h.recipeService.Create(c.Request.Context(), middleware.CurrentUserID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, recipe))
}

// GetRecipe handles GET /recipes/:id
// @Summary      Get recipe
// @Description  Fetch a single recipe. Unpublished recipes are visible to their owner only.
// @Tags         recipes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Recipe ID"
// @Success      200  {object}  response.Response{data=model.Recipe}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /recipes/{id} [get]
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	recipe, err := h.recipeService.Get(c.Request.Context(), id, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, recipe))
}

// UpdateRecipe handles PATCH /recipes/:id
// @Summary      Update recipe
// @Description  Replaces the recipe's content, reconciling components, steps and pictures against the stored state
// @Tags         recipes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                  true  "Recipe ID"
// @Param        payload  body      service.RecipeInput  true  "Recipe Payload"
// @Success      200      {object}  response.Response{data=model.Recipe}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /recipes/{id} [patch]
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	var input service.RecipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	recipe, err := h.recipeService.Patch(c.Request.Context(), id, middleware.CurrentUserID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, recipe))
}

// PublishRecipe handles PATCH /recipes/:id/publish
// @Summary      Publish recipe
// @Description  Marks an owned recipe as published. Publishing is one-way.
// @Tags         recipes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Recipe ID"
// @Success      200  {object}  response.Response{data=model.Recipe}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /recipes/{id}/publish [patch]
func (h *RecipeHandler) PublishRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	recipe, err := h.recipeService.Publish(c.Request.Context(), id, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, recipe))
}

type rateRequest struct {
	Rating int `json:"rating" binding:"required"`
}

// RateRecipe handles PUT /recipes/:id/rating
// @Summary      Rate recipe
// @Description  Stores or replaces the caller's rating and updates the recipe's rounded average
// @Tags         recipes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                  true  "Recipe ID"
// @Param        payload  body      handler.rateRequest  true  "Rating Payload"
// @Success      200      {object}  response.Response{data=model.Recipe}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /recipes/{id}/rating [put]
func (h *RecipeHandler) RateRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	recipe, err := h.recipeService.Rate(c.Request.Context(), id, middleware.CurrentUserID(c), req.Rating)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, recipe))
}
