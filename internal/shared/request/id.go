package request

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"bookshelf-backend/internal/shared/response"
)

// ParamID reads a positive integer path parameter. A malformed id cannot
// address any row, so it answers 404 itself and returns false.
func ParamID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.NotFound(c)
		return 0, false
	}
	return id, true
}
