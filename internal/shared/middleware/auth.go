package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bookshelf-backend/internal/shared/identity"
	"bookshelf-backend/internal/shared/response"
	"bookshelf-backend/pkg/jwt"
)

// TokenValidator is the part of the JWT manager the middleware needs.
type TokenValidator interface {
	ValidateAccessToken(token string) (*jwt.Claims, error)
}

// Authenticate resolves the caller from a bearer token when one is sent.
// Requests without an Authorization header pass through anonymously; a
// header that does not carry a valid access token is rejected.
func Authenticate(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			response.Unauthorized(c, "Authorization header must contain two space-delimited values")
			return
		}

		claims, err := tokens.ValidateAccessToken(strings.TrimSpace(token))
		if err != nil {
			response.Unauthorized(c, "Given token not valid for any token type")
			return
		}

		id := identity.Identity{UserID: claims.UserID, Username: claims.Username}
		c.Set("user_id", id.UserID)
		c.Request = c.Request.WithContext(identity.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// RequireAuthForWrites lets safe methods through and rejects anonymous
// writes before any body is read.
func RequireAuthForWrites() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		if _, ok := identity.FromContext(c.Request.Context()); !ok {
			response.Unauthorized(c, "Authentication credentials were not provided.")
			return
		}
		c.Next()
	}
}
