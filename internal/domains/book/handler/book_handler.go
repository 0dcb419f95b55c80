package handler

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookshelf-backend/internal/domains/book/model"
	"bookshelf-backend/internal/domains/book/service"
	"bookshelf-backend/internal/shared/apperr"
	"bookshelf-backend/internal/shared/optional"
	"bookshelf-backend/internal/shared/pagination"
	"bookshelf-backend/internal/shared/request"
	"bookshelf-backend/internal/shared/response"
	"bookshelf-backend/pkg/logger"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	maxCoverRead    = 32 << 20
	msgNotAFile     = "The submitted data was not a file. Check the encoding type on the form."
)

type BookHandler struct {
	service  service.ServiceInterface
	pages    pagination.Config
	mediaURL string
}

func NewBookHandler(svc service.ServiceInterface, pages pagination.Config, mediaURL string) *BookHandler {
	return &BookHandler{service: svc, pages: pages, mediaURL: mediaURL}
}

// GET /api/books/
func (h *BookHandler) List(c *gin.Context) {
	h.list(c, model.ViewAll)
}

// GET /api/books/published/
func (h *BookHandler) Published(c *gin.Context) {
	h.list(c, model.ViewPublished)
}

// GET /api/books/affordable/
func (h *BookHandler) Affordable(c *gin.Context) {
	h.list(c, model.ViewAffordable)
}

func (h *BookHandler) list(c *gin.Context, view model.View) {
	filter, errs := parseFilter(c.Request.URL.Query())
	if errs != nil {
		response.BadRequest(c, errs)
		return
	}
	p, ok := h.pages.Parse(c)
	if !ok {
		return
	}

	filter.View = view
	filter.Limit = p.Limit()
	filter.Offset = p.Offset()

	books, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	pagination.Respond(c, p, total, model.ToResponses(books, h.mediaURL))
}

// GET /api/books/:id/
func (h *BookHandler) Get(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.OK(c, b.ToResponse(h.mediaURL))
}

// POST /api/books/
func (h *BookHandler) Create(c *gin.Context) {
	in, ok := bindInput(c)
	if !ok {
		return
	}

	b, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Created(c, b.ToResponse(h.mediaURL))
}

// PUT /api/books/:id/
func (h *BookHandler) Replace(c *gin.Context) {
	h.update(c, h.service.Replace)
}

// PATCH /api/books/:id/
func (h *BookHandler) PartialUpdate(c *gin.Context) {
	h.update(c, h.service.PartialUpdate)
}

type updateFunc func(ctx context.Context, id int64, in model.BookInput) (*model.Book, error)

func (h *BookHandler) update(c *gin.Context, fn updateFunc) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	in, ok := bindInput(c)
	if !ok {
		return
	}

	b, err := fn(c.Request.Context(), id, in)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.OK(c, b.ToResponse(h.mediaURL))
}

// DELETE /api/books/:id/
func (h *BookHandler) Delete(c *gin.Context) {
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

// GET /api/books/statistics/
func (h *BookHandler) Statistics(c *gin.Context) {
	stats, err := h.service.Statistics(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.OK(c, stats.ToResponse())
}

// GET /api/books/export/ accepts the list filters.
func (h *BookHandler) Export(c *gin.Context) {
	filter, errs := parseFilter(c.Request.URL.Query())
	if errs != nil {
		response.BadRequest(c, errs)
		return
	}

	f, err := h.service.Export(c.Request.Context(), filter)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Disposition", `attachment; filename="books.xlsx"`)
	c.Header("Content-Type", xlsxContentType)
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		logger.Error("Failed to write export", err)
	}
}

// GET /media/*key
func (h *BookHandler) Media(c *gin.Context) {
	obj, err := h.service.OpenCover(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	defer obj.Body.Close()

	c.DataFromReader(http.StatusOK, obj.Size, obj.ContentType, obj.Body, map[string]string{
		"Cache-Control": "public, max-age=86400",
	})
}

// bindInput reads a JSON or multipart book payload. Category ids may be
// sent as a list or as indexed form fields, details as a nested object or
// as "details.<field>" form fields.
func bindInput(c *gin.Context) (model.BookInput, bool) {
	payload, err := request.Bind(c)
	if err != nil {
		response.HandleError(c, err)
		return model.BookInput{}, false
	}

	b := payload.Binder()
	in := model.BookInput{
		Title:           b.String("title"),
		AuthorID:        b.PK("author"),
		CategoryIDs:     b.PKList("categories"),
		Description:     b.String("description"),
		Price:           b.Decimal("price"),
		PublicationDate: b.Date("publication_date"),
		Format:          b.String("book_format"),
	}

	details, state := b.Object("details")
	switch {
	case details != nil:
		in.Details = optional.Of(model.DetailsInput{
			ISBN:          details.String("isbn"),
			NumberOfPages: details.Int("number_of_pages"),
			Language:      details.String("language"),
			Publisher:     details.String("publisher"),
		})
	case state.Null:
		in.Details = optional.Null[model.DetailsInput]()
	}

	errs := apperr.FieldErrors{}
	if fh, ok := payload.File("cover_image"); ok {
		data, err := readFile(fh)
		if err != nil {
			response.HandleError(c, err)
			return model.BookInput{}, false
		}
		in.Cover = optional.Of(data)
	} else if v := b.String("cover_image"); v.Null || (v.Set && v.Value == "") {
		in.Cover = optional.Null[[]byte]()
	} else if v.Set {
		errs.Add("cover_image", msgNotAFile)
	}
	errs.Merge(b.Errors())

	if len(errs) > 0 {
		response.BadRequest(c, errs)
		return model.BookInput{}, false
	}
	return in, true
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxCoverRead))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return data, nil
}
