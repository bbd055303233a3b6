package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cookbook/internal/service"

	"github.com/gin-gonic/gin"
)

func statusFor(err error) int {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondError(c, err)
	return w.Code
}

func TestRespondErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", service.ErrNotFound, http.StatusNotFound},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"unauthenticated", service.ErrUnauthenticated, http.StatusUnauthorized},
		{"validation", service.ErrValidation, http.StatusBadRequest},
		// Bad credentials are a plain 400, indistinguishable from any
		// other malformed login request.
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusBadRequest},
		{"too large", service.ErrTooLarge, http.StatusRequestEntityTooLarge},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := statusFor(tc.err); got != tc.status {
				t.Errorf("Expected status %d for %v, got %d", tc.status, tc.err, got)
			}
		})
	}
}
