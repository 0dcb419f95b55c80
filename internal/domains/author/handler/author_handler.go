package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"bookshelf-backend/internal/domains/author/model"
	"bookshelf-backend/internal/domains/author/service"
	"bookshelf-backend/internal/shared/pagination"
	"bookshelf-backend/internal/shared/request"
	"bookshelf-backend/internal/shared/response"
)

type AuthorHandler struct {
	service service.ServiceInterface
	pages   pagination.Config
}

func NewAuthorHandler(svc service.ServiceInterface, pages pagination.Config) *AuthorHandler {
	return &AuthorHandler{service: svc, pages: pages}
}

// GET /api/authors/?search=&first_name=&last_name=&page=&page_size=
func (h *AuthorHandler) List(c *gin.Context) {
	p, ok := h.pages.Parse(c)
	if !ok {
		return
	}

	filter := model.AuthorFilter{
		Search:    c.Query("search"),
		FirstName: c.Query("first_name"),
		LastName:  c.Query("last_name"),
		Limit:     p.Limit(),
		Offset:    p.Offset(),
	}

	authors, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	pagination.Respond(c, p, total, authors)
}

// GET /api/authors/:id/
func (h *AuthorHandler) Get(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}

	a, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.OK(c, a)
}

// POST /api/authors/
func (h *AuthorHandler) Create(c *gin.Context) {
	in, ok := bindInput(c)
	if !ok {
		return
	}

	a, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Created(c, a)
}

// PUT /api/authors/:id/
func (h *AuthorHandler) Replace(c *gin.Context) {
	h.update(c, h.service.Replace)
}

// PATCH /api/authors/:id/
func (h *AuthorHandler) PartialUpdate(c *gin.Context) {
	h.update(c, h.service.PartialUpdate)
}

type updateFunc func(ctx context.Context, id int64, in model.AuthorInput) (*model.Author, error)

func (h *AuthorHandler) update(c *gin.Context, fn updateFunc) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	in, ok := bindInput(c)
	if !ok {
		return
	}

	a, err := fn(c.Request.Context(), id, in)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.OK(c, a)
}

// DELETE /api/authors/:id/
func (h *AuthorHandler) Delete(c *gin.Context) {
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

func bindInput(c *gin.Context) (model.AuthorInput, bool) {
	payload, err := request.Bind(c)
	if err != nil {
		response.HandleError(c, err)
		return model.AuthorInput{}, false
	}

	b := payload.Binder()
	in := model.AuthorInput{
		FirstName: b.String("first_name"),
		LastName:  b.String("last_name"),
	}
	if errs := b.Errors(); errs != nil {
		response.BadRequest(c, errs)
		return model.AuthorInput{}, false
	}
	return in, true
}
