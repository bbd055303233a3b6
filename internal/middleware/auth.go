package middleware

import (
	"net/http"
	"os"
	"strings"
	"time"

	"cookbook/internal/service"
	"cookbook/pkg/response"

	"github.com/gin-gonic/gin"
)

func GetJWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		secret = "default_super_secret_key" // Development fallback only — DO NOT use in production
	}
	return []byte(secret)
}

// SetRefreshCookie stores the refresh token as a Secure, HttpOnly cookie
// whose lifetime matches the token's. Secure is unconditional; only the
// SameSite policy relaxes outside release mode.
func SetRefreshCookie(c *gin.Context, token string, expiresAt time.Time) {
	sameSite := http.SameSiteLaxMode
	if os.Getenv("GIN_MODE") == "release" {
		sameSite = http.SameSiteNoneMode
	}

	c.SetSameSite(sameSite)
	c.SetCookie("refresh_token", token, int(time.Until(expiresAt).Seconds()), "/", "", true, true)
}

// RequireAuth validates the access token and, when scopes are given,
// checks that every required permission bit is present. The three failure
// modes stay distinguishable: no credential, bad credential, and missing
// permissions.
func RequireAuth(scopes ...service.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, cookieErr := c.Cookie("access_token")
		if cookieErr != nil || tokenString == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "not authenticated"))
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "invalid authorization format, expected 'Bearer <token>'"))
				return
			}
			tokenString = parts[1]
		}

		claims, err := service.ParseAccessToken(GetJWTSecret(), tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, err.Error()))
			return
		}

		if len(scopes) > 0 {
			required := service.PermissionBitmask(scopes...)
			if claims.Scopes&required != required {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "not enough permissions"))
				return
			}
		}

		c.Set("userID", claims.Subject)
		c.Set("scopes", claims.Scopes)

		c.Next()
	}
}

// CurrentUserID returns the authenticated user id set by RequireAuth, or
// the empty string on unauthenticated routes.
func CurrentUserID(c *gin.Context) string {
	if id, ok := c.Get("userID"); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}
