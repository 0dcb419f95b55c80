package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"bookshelf-backend/internal/domains/category/model"
	"bookshelf-backend/internal/domains/category/service"
	"bookshelf-backend/internal/shared/pagination"
	"bookshelf-backend/internal/shared/request"
	"bookshelf-backend/internal/shared/response"
)

type CategoryHandler struct {
	service service.ServiceInterface
	pages   pagination.Config
}

func NewCategoryHandler(svc service.ServiceInterface, pages pagination.Config) *CategoryHandler {
	return &CategoryHandler{service: svc, pages: pages}
}

// GET /api/categories/?search=&name=&page=&page_size=
func (h *CategoryHandler) List(c *gin.Context) {
	p, ok := h.pages.Parse(c)
	if !ok {
		return
	}

	filter := model.CategoryFilter{
		Search: c.Query("search"),
		Name:   c.Query("name"),
		Limit:  p.Limit(),
		Offset: p.Offset(),
	}

	categories, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	pagination.Respond(c, p, total, categories)
}

// GET /api/categories/:id/
func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}

	cat, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.OK(c, cat)
}

// POST /api/categories/
func (h *CategoryHandler) Create(c *gin.Context) {
	in, ok := bindInput(c)
	if !ok {
		return
	}

	cat, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Created(c, cat)
}

// PUT /api/categories/:id/
func (h *CategoryHandler) Replace(c *gin.Context) {
	h.update(c, h.service.Replace)
}

// PATCH /api/categories/:id/
func (h *CategoryHandler) PartialUpdate(c *gin.Context) {
	h.update(c, h.service.PartialUpdate)
}

type updateFunc func(ctx context.Context, id int64, in model.CategoryInput) (*model.Category, error)

func (h *CategoryHandler) update(c *gin.Context, fn updateFunc) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	in, ok := bindInput(c)
	if !ok {
		return
	}

	cat, err := fn(c.Request.Context(), id, in)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.OK(c, cat)
}

// DELETE /api/categories/:id/
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.HandleError(c, err)
		return
	}
	response.NoContent(c)
}

func bindInput(c *gin.Context) (model.CategoryInput, bool) {
	payload, err := request.Bind(c)
	if err != nil {
		response.HandleError(c, err)
		return model.CategoryInput{}, false
	}

	b := payload.Binder()
	in := model.CategoryInput{
		Name:        b.String("name"),
		Description: b.String("description"),
	}
	if errs := b.Errors(); errs != nil {
		response.BadRequest(c, errs)
		return model.CategoryInput{}, false
	}
	return in, true
}
