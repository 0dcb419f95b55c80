// Package pagination implements page-number pagination for list endpoints.
package pagination

import (
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"bookshelf-backend/internal/shared/response"
)

const (
	PageParam     = "page"
	PageSizeParam = "page_size"
)

// Config holds the page size bounds.
type Config struct {
	DefaultSize int
	MaxSize     int
}

// Params is the requested page.
type Params struct {
	Page int
	Size int
}

func (p Params) Limit() int  { return p.Size }
func (p Params) Offset() int { return (p.Page - 1) * p.Size }

// Parse reads page and page_size. It answers 404 "Invalid page." itself
// and returns false when the page number is malformed or its offset does
// not fit in an int.
func (cfg Config) Parse(c *gin.Context) (Params, bool) {
	p := Params{Page: 1, Size: cfg.DefaultSize}

	if raw := c.Query(PageSizeParam); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			p.Size = n
		}
	}
	if cfg.MaxSize > 0 && p.Size > cfg.MaxSize {
		p.Size = cfg.MaxSize
	}

	if raw := c.Query(PageParam); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || (p.Size > 0 && n-1 > math.MaxInt/p.Size) {
			response.Detail(c, http.StatusNotFound, "Invalid page.")
			return p, false
		}
		p.Page = n
	}
	return p, true
}

// Respond writes the paginated envelope, or 404 when the page lies past
// the last one.
func Respond(c *gin.Context, p Params, total int64, results any) {
	lastPage := int((total + int64(p.Size) - 1) / int64(p.Size))
	if lastPage < 1 {
		lastPage = 1
	}
	if p.Page > lastPage {
		response.Detail(c, http.StatusNotFound, "Invalid page.")
		return
	}

	page := response.Page{Count: total, Results: results}
	if p.Page < lastPage {
		next := pageURL(c, p.Page+1)
		page.Next = &next
	}
	if p.Page > 1 {
		prev := pageURL(c, p.Page-1)
		page.Previous = &prev
	}
	response.Paginated(c, page)
}

// pageURL rebuilds the absolute request URL pointing at another page. The
// first page drops the page parameter entirely.
func pageURL(c *gin.Context, page int) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	q := c.Request.URL.Query()
	if page <= 1 {
		q.Del(PageParam)
	} else {
		q.Set(PageParam, strconv.Itoa(page))
	}

	u := url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: q.Encode(),
	}
	return u.String()
}
