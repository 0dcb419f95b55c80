package request

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"bookshelf-backend/internal/shared/apperr"
)

const maxMultipartMemory = 8 << 20

// indexedKey matches form keys such as "categories[0]" or "details[isbn]".
var indexedKey = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\[([^\]]*)\]$`)

// Payload is a decoded request body. JSON bodies keep their native types
// with numbers as json.Number; form bodies carry strings and files.
type Payload struct {
	values map[string]any
	files  map[string]*multipart.FileHeader
	form   bool
}

// NewPayload wraps already decoded values.
func NewPayload(values map[string]any) *Payload {
	if values == nil {
		values = map[string]any{}
	}
	return &Payload{values: values, files: map[string]*multipart.FileHeader{}}
}

// Bind decodes the request body according to its content type.
func Bind(c *gin.Context) (*Payload, error) {
	switch c.ContentType() {
	case gin.MIMEMultipartPOSTForm:
		if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
			return nil, apperr.Validation(apperr.NonFieldErrors, fmt.Sprintf("Multipart form parse error - %s", err))
		}
		return fromForm(c.Request.MultipartForm.Value, c.Request.MultipartForm.File), nil
	case gin.MIMEPOSTForm:
		if err := c.Request.ParseForm(); err != nil {
			return nil, apperr.Validation(apperr.NonFieldErrors, fmt.Sprintf("Form parse error - %s", err))
		}
		return fromForm(c.Request.PostForm, nil), nil
	default:
		return decodeJSON(c.Request.Body)
	}
}

func decodeJSON(body io.Reader) (*Payload, error) {
	if body == nil {
		return NewPayload(nil), nil
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return NewPayload(nil), nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return nil, apperr.Validation(apperr.NonFieldErrors, fmt.Sprintf("JSON parse error - %s", err))
	}
	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil, apperr.Validation(apperr.NonFieldErrors, apperr.MsgInvalidObject)
	}
	return NewPayload(obj), nil
}

func fromForm(values map[string][]string, files map[string][]*multipart.FileHeader) *Payload {
	p := NewPayload(nil)
	p.form = true

	for key, vals := range values {
		if m := indexedKey.FindStringSubmatch(key); m != nil {
			p.addIndexed(m[1], m[2], vals)
			continue
		}
		if before, after, ok := strings.Cut(key, "."); ok {
			p.addIndexed(before, after, vals)
			continue
		}
		if len(vals) == 1 {
			p.values[key] = vals[0]
		} else {
			list := make([]any, len(vals))
			for i, v := range vals {
				list[i] = v
			}
			p.values[key] = list
		}
	}

	for key, headers := range files {
		if len(headers) > 0 {
			p.files[key] = headers[0]
		}
	}
	return p
}

// addIndexed folds "name[0]" into a list and "name[field]" or "name.field"
// into a nested object.
func (p *Payload) addIndexed(name, index string, vals []string) {
	if index == "" || isDigits(index) {
		list, _ := p.values[name].([]any)
		for _, v := range vals {
			list = append(list, v)
		}
		p.values[name] = list
		return
	}
	obj, _ := p.values[name].(map[string]any)
	if obj == nil {
		obj = map[string]any{}
	}
	if len(vals) > 0 {
		obj[index] = vals[len(vals)-1]
	}
	p.values[name] = obj
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// Has reports whether the key was sent, including explicit nulls.
func (p *Payload) Has(key string) bool {
	if _, ok := p.values[key]; ok {
		return true
	}
	_, ok := p.files[key]
	return ok
}

// File returns an uploaded file part.
func (p *Payload) File(key string) (*multipart.FileHeader, bool) {
	fh, ok := p.files[key]
	return fh, ok
}

// IsForm reports whether the payload came from a form submission.
func (p *Payload) IsForm() bool {
	return p.form
}

// Binder starts typed extraction of the payload's fields.
func (p *Payload) Binder() *Binder {
	return &Binder{values: p.values, form: p.form, errs: apperr.FieldErrors{}}
}
