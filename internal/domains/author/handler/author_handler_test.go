package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"bookshelf-backend/internal/domains/author/model"
	"bookshelf-backend/internal/shared/apperr"
	"bookshelf-backend/internal/shared/optional"
	"bookshelf-backend/internal/shared/pagination"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) List(ctx context.Context, filter model.AuthorFilter) ([]model.Author, int64, error) {
	args := m.Called(filter)
	out, _ := args.Get(0).([]model.Author)
	return out, args.Get(1).(int64), args.Error(2)
}

func (m *mockService) GetByID(ctx context.Context, id int64) (*model.Author, error) {
	args := m.Called(id)
	a, _ := args.Get(0).(*model.Author)
	return a, args.Error(1)
}

func (m *mockService) Create(ctx context.Context, in model.AuthorInput) (*model.Author, error) {
	args := m.Called(in)
	a, _ := args.Get(0).(*model.Author)
	return a, args.Error(1)
}

func (m *mockService) Replace(ctx context.Context, id int64, in model.AuthorInput) (*model.Author, error) {
	args := m.Called(id, in)
	a, _ := args.Get(0).(*model.Author)
	return a, args.Error(1)
}

func (m *mockService) PartialUpdate(ctx context.Context, id int64, in model.AuthorInput) (*model.Author, error) {
	args := m.Called(id, in)
	a, _ := args.Get(0).(*model.Author)
	return a, args.Error(1)
}

func (m *mockService) Delete(ctx context.Context, id int64) error {
	return m.Called(id).Error(0)
}

func setup(svc *mockService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuthorHandler(svc, pagination.Config{DefaultSize: 2, MaxSize: 10})
	r := gin.New()
	r.GET("/api/authors/", h.List)
	r.GET("/api/authors/:id/", h.Get)
	r.POST("/api/authors/", h.Create)
	r.PUT("/api/authors/:id/", h.Replace)
	r.PATCH("/api/authors/:id/", h.PartialUpdate)
	r.DELETE("/api/authors/:id/", h.Delete)
	return r
}

func send(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestList(t *testing.T) {
	svc := new(mockService)
	r := setup(svc)

	svc.On("List", model.AuthorFilter{Search: "her", Limit: 2, Offset: 2}).
		Return([]model.Author{{ID: 3, FirstName: "Frank", LastName: "Herbert"}}, int64(3), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/authors/?search=her&page=2", nil)
	req.Host = "example.com"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"count": 3,
		"next": null,
		"previous": "http://example.com/api/authors/?search=her",
		"results": [{"id": 3, "first_name": "Frank", "last_name": "Herbert"}]
	}`, w.Body.String())
}

func TestCreate(t *testing.T) {
	svc := new(mockService)
	r := setup(svc)

	svc.On("Create", model.AuthorInput{FirstName: optional.Of("Frank"), LastName: optional.Of("Herbert")}).
		Return(&model.Author{ID: 1, FirstName: "Frank", LastName: "Herbert"}, nil)

	w := send(r, http.MethodPost, "/api/authors/", `{"first_name":"Frank","last_name":"Herbert"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":1,"first_name":"Frank","last_name":"Herbert"}`, w.Body.String())
}

func TestCreate_Errors(t *testing.T) {
	svc := new(mockService)
	r := setup(svc)

	svc.On("Create", model.AuthorInput{FirstName: optional.Of("Frank"), LastName: optional.Of("Herbert")}).
		Return(nil, apperr.Conflict(apperr.NonFieldErrors, model.MsgDuplicateAuthor))

	w := send(r, http.MethodPost, "/api/authors/", `{"first_name":"Frank","last_name":"Herbert"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"non_field_errors":["An author with this first name and last name already exists."]}`, w.Body.String())

	w = send(r, http.MethodPost, "/api/authors/", `{"first_name": 12, "last_name": {}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"last_name":["Not a valid string."]}`, w.Body.String())

	w = send(r, http.MethodPost, "/api/authors/", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateAndDelete(t *testing.T) {
	svc := new(mockService)
	r := setup(svc)

	svc.On("PartialUpdate", int64(4), model.AuthorInput{LastName: optional.Of("Le Guin")}).
		Return(&model.Author{ID: 4, FirstName: "Ursula", LastName: "Le Guin"}, nil)
	svc.On("Delete", int64(4)).Return(nil)
	svc.On("Delete", int64(5)).Return(apperr.NotFound(model.ResourceName, int64(5)))

	w := send(r, http.MethodPatch, "/api/authors/4/", `{"last_name":"Le Guin"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = send(r, http.MethodDelete, "/api/authors/4/", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = send(r, http.MethodDelete, "/api/authors/5/", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
