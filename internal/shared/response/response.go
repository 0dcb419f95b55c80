package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"bookshelf-backend/internal/shared/apperr"
)

// Page is the paginated list envelope.
type Page struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

// Success responses
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func Paginated(c *gin.Context, page Page) {
	c.JSON(http.StatusOK, page)
}

// Error responses
func Detail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": message})
}

// BadRequest writes a field → messages body. Keys of the form "a.b" are
// rendered as nested objects.
func BadRequest(c *gin.Context, fields apperr.FieldErrors) {
	c.AbortWithStatusJSON(http.StatusBadRequest, nest(fields))
}

func Unauthorized(c *gin.Context, message string) {
	Detail(c, http.StatusUnauthorized, message)
}

func NotFound(c *gin.Context) {
	Detail(c, http.StatusNotFound, "Not found.")
}

func TooManyRequests(c *gin.Context) {
	Detail(c, http.StatusTooManyRequests, "Request was throttled.")
}

func InternalServerError(c *gin.Context) {
	Detail(c, http.StatusInternalServerError, "Internal server error.")
}

// HandleError translates a service error into its REST response.
func HandleError(c *gin.Context, err error) {
	if fields, ok := apperr.FieldsOf(err); ok {
		BadRequest(c, fields)
		return
	}

	switch apperr.HTTPStatus(err) {
	case http.StatusNotFound:
		NotFound(c)
	case http.StatusUnauthorized:
		Unauthorized(c, unauthorizedMessage(err))
	case http.StatusTooManyRequests:
		TooManyRequests(c)
	default:
		log.Error().
			Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled request error")
		InternalServerError(c)
	}
}

func unauthorizedMessage(err error) string {
	switch {
	case errors.Is(err, apperr.ErrInvalidCredentials):
		return "No active account found with the given credentials"
	case errors.Is(err, apperr.ErrInvalidToken):
		return "Given token not valid for any token type"
	default:
		return "Authentication credentials were not provided."
	}
}

// nest expands dotted keys into nested objects. When a field has both
// its own messages and nested ones, its own messages go under
// non_field_errors of the nested object.
func nest(fields apperr.FieldErrors) map[string]any {
	out := make(map[string]any, len(fields))
	for key, msgs := range fields {
		parts := strings.Split(key, ".")
		node := out
		for _, part := range parts[:len(parts)-1] {
			node = childObject(node, part)
		}
		leaf := parts[len(parts)-1]
		if child, ok := node[leaf].(map[string]any); ok {
			child[apperr.NonFieldErrors] = appendMessages(child[apperr.NonFieldErrors], msgs)
			continue
		}
		node[leaf] = appendMessages(node[leaf], msgs)
	}
	return out
}

func childObject(node map[string]any, key string) map[string]any {
	switch v := node[key].(type) {
	case map[string]any:
		return v
	case []string:
		child := map[string]any{apperr.NonFieldErrors: v}
		node[key] = child
		return child
	}
	child := map[string]any{}
	node[key] = child
	return child
}

func appendMessages(existing any, msgs []string) []string {
	prev, _ := existing.([]string)
	out := make([]string, 0, len(prev)+len(msgs))
	return append(append(out, prev...), msgs...)
}
