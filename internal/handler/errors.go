package handler

import (
	"errors"
	"net/http"

	"cookbook/internal/service"
	"cookbook/pkg/response"

	"github.com/gin-gonic/gin"
)

// respondError translates service errors into HTTP status codes so the
// mapping lives in one place instead of being repeated per endpoint.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrUnauthenticated):
		status = http.StatusUnauthorized
	// Login failures answer 400 like any other bad request, so a wrong
	// password and a malformed payload stay indistinguishable.
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrTooLarge):
		status = http.StatusRequestEntityTooLarge
	}

	c.JSON(status, response.Error(status, err.Error()))
}
