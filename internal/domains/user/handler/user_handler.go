package handler

import (
	"github.com/gin-gonic/gin"

	"bookshelf-backend/internal/domains/user/model"
	"bookshelf-backend/internal/domains/user/service"
	"bookshelf-backend/internal/shared/apperr"
	"bookshelf-backend/internal/shared/request"
	"bookshelf-backend/internal/shared/response"
)

type UserHandler struct {
	service service.ServiceInterface
}

func NewUserHandler(svc service.ServiceInterface) *UserHandler {
	return &UserHandler{service: svc}
}

// POST /api/token/
func (h *UserHandler) Token(c *gin.Context) {
	fields, ok := bindStrings(c, "username", "password")
	if !ok {
		return
	}

	pair, err := h.service.Login(c.Request.Context(), model.Credentials{
		Username: fields["username"],
		Password: fields["password"],
	})
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.OK(c, pair)
}

// POST /api/token/refresh/
func (h *UserHandler) Refresh(c *gin.Context) {
	fields, ok := bindStrings(c, "refresh")
	if !ok {
		return
	}

	access, err := h.service.Refresh(c.Request.Context(), fields["refresh"])
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.OK(c, gin.H{"access": access})
}

// bindStrings reads required string fields from a JSON or form body.
func bindStrings(c *gin.Context, names ...string) (map[string]string, bool) {
	payload, err := request.Bind(c)
	if err != nil {
		response.HandleError(c, err)
		return nil, false
	}

	b := payload.Binder()
	out := make(map[string]string, len(names))
	errs := apperr.FieldErrors{}
	for _, name := range names {
		v := b.String(name)
		switch {
		case !v.Set && !payload.Has(name):
			errs.Add(name, apperr.MsgRequired)
		case v.Null:
			errs.Add(name, apperr.MsgNull)
		case v.Set:
			out[name] = v.Value
		}
	}
	errs.Merge(b.Errors())

	if len(errs) > 0 {
		response.BadRequest(c, errs)
		return nil, false
	}
	return out, true
}
