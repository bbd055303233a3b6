package handler

import (
	"net/http"

	"cookbook/internal/middleware"
	"cookbook/internal/service"
	"cookbook/pkg/pagination"
	"cookbook/pkg/response"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
	authService service.AuthService
}

// NewUserHandler sets up the routing dependencies for user and auth endpoints
func NewUserHandler(userService service.UserService, authService service.AuthService) *UserHandler {
	return &UserHandler{userService: userService, authService: authService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	// Public routes
	router.POST("/token", h.Login)
	router.POST("/token/refresh", h.RefreshToken)
	router.POST("/users", h.Register)

	// Authenticated routes
	router.GET("/users/me", middleware.RequireAuth(), h.GetMe)
	router.GET("/users", middleware.RequireAuth(service.PermissionAdmin), h.ListUsers)
}

type loginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// Login handles POST /token to authenticate and return a JWT token
// @Summary      Login user
// @Description  Authenticates a user by username and password, returning an access token. The refresh token is set as an HttpOnly cookie.
// @Tags         auth
// @Accept       json
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        payload  body      handler.loginRequest  true  "Login Credentials"
// @Success      200      {object}  response.Response{data=service.TokenPair}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /token [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	pair, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.SetRefreshCookie(c, pair.RefreshToken, pair.RefreshExpiresAt)

	c.JSON(http.StatusOK, response.Success(http.StatusOK, pair))
}

// RefreshToken handles POST /token/refresh to rotate the token pair
// @Summary      Refresh token
// @Description  Issues a new access and refresh token pair using the refresh token cookie
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.TokenPair}
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /token/refresh [post]
func (h *UserHandler) RefreshToken(c *gin.Context) {
	refreshToken, err := c.Cookie("refresh_token")
	if err != nil || refreshToken == "" {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "missing refresh token"))
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.SetRefreshCookie(c, pair.RefreshToken, pair.RefreshExpiresAt)

	c.JSON(http.StatusOK, response.Success(http.StatusOK, pair))
}

// Register handles POST /users to create a new account
// @Summary      Register user
// @Description  Creates a new user validating constraints and hashing the password
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RegisterUserRequest  true  "Register Payload"
// @Success      201      {object}  response.Response{data=service.UserResponse}
// @Failure      400      {object}  response.Response
// @Router       /users [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req service.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, user))
}

// GetMe handles GET /users/me to return the current authenticated user
// @Summary      Get current user
// @Description  Get the currently authenticated user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.UserResponse}
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.userService.GetByID(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// ListUsers handles GET /users and extracts pagination controls
// @Summary      List users
// @Description  Retrieves a paginated list of users. Requires the admin scope.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=response.Page}
// @Failure      401    {object}  response.Response
// @Router       /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	params := pagination.Parse(c)

	users, total, err := h.userService.List(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paged(http.StatusOK, users, total, params.Page, params.Limit))
}
