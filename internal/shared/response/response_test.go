package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"bookshelf-backend/internal/shared/apperr"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/books/", nil)
	return c, w
}

func TestBadRequest_NestsDottedKeys(t *testing.T) {
	c, w := newContext()
	BadRequest(c, apperr.FieldErrors{
		"title":                   {apperr.MsgBlank},
		"details.isbn":            {"Book details with this isbn already exists."},
		"details.number_of_pages": {"A valid integer is required."},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{
		"title": ["This field may not be blank."],
		"details": {
			"isbn": ["Book details with this isbn already exists."],
			"number_of_pages": ["A valid integer is required."]
		}
	}`, w.Body.String())
}

func TestBadRequest_ParentAndChildMessages(t *testing.T) {
	fields := apperr.FieldErrors{
		"details":      {apperr.MsgInvalidObject},
		"details.isbn": {"Book details with this isbn already exists."},
	}
	// Map iteration order varies between runs; the body must not.
	for i := 0; i < 20; i++ {
		c, w := newContext()
		BadRequest(c, fields)
		assert.JSONEq(t, `{
			"details": {
				"non_field_errors": ["Invalid data. Expected a dictionary."],
				"isbn": ["Book details with this isbn already exists."]
			}
		}`, w.Body.String())
	}
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		body string
	}{
		{"not found", apperr.NotFound("book", 3), http.StatusNotFound, `{"detail":"Not found."}`},
		{"unauthorized", apperr.ErrUnauthorized, http.StatusUnauthorized, `{"detail":"Authentication credentials were not provided."}`},
		{"bad credentials", apperr.ErrInvalidCredentials, http.StatusUnauthorized, `{"detail":"No active account found with the given credentials"}`},
		{"conflict", apperr.Conflict("name", "A category with this name already exists."), http.StatusBadRequest, `{"name":["A category with this name already exists."]}`},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newContext()
			HandleError(c, tt.err)
			assert.Equal(t, tt.code, w.Code)
			if tt.body != "" {
				assert.JSONEq(t, tt.body, w.Body.String())
			}
		})
	}
}
