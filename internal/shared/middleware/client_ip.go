package middleware

import (
	"github.com/gin-gonic/gin"

	"bookshelf-backend/internal/shared/utils"
)

// ClientIPMiddleware stores the resolved client address under "client_ip"
// for the request logger and the rate limiter.
func ClientIPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("client_ip", utils.ExtractClientIP(c))
		c.Next()
	}
}
