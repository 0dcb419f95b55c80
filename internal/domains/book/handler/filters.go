package handler

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"bookshelf-backend/internal/domains/book/model"
	"bookshelf-backend/internal/shared/apperr"
)

const (
	msgEnterNumber = "Enter a number."
	msgEnterDate   = "Enter a valid date."
)

// queryParser reads typed filter values, collecting one message per
// malformed parameter. Empty parameters are ignored.
type queryParser struct {
	q    url.Values
	errs apperr.FieldErrors
}

func (p *queryParser) value(name string) (string, bool) {
	v := strings.TrimSpace(p.q.Get(name))
	return v, v != ""
}

func (p *queryParser) int64(name string) *int64 {
	v, ok := p.value(name)
	if !ok {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		p.errs.Add(name, msgEnterNumber)
		return nil
	}
	return &n
}

func (p *queryParser) int(name string) *int {
	n := p.int64(name)
	if n == nil {
		return nil
	}
	out := int(*n)
	return &out
}

func (p *queryParser) decimal(name string) *decimal.Decimal {
	v, ok := p.value(name)
	if !ok {
		return nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		p.errs.Add(name, msgEnterNumber)
		return nil
	}
	return &d
}

func (p *queryParser) date(name string) *time.Time {
	v, ok := p.value(name)
	if !ok {
		return nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		p.errs.Add(name, msgEnterDate)
		return nil
	}
	return &t
}

// parseFilter reads the list filters, search and ordering parameters.
func parseFilter(q url.Values) (model.BookFilter, apperr.FieldErrors) {
	p := &queryParser{q: q, errs: apperr.FieldErrors{}}

	filter := model.BookFilter{
		AuthorID:         p.int64("author"),
		CategoryID:       p.int64("categories"),
		PublicationYear:  p.int("publication_date__year"),
		PublicationMonth: p.int("publication_date__month"),
		PublicationDay:   p.int("publication_date__day"),
		PublishedFrom:    p.date("publication_date__gte"),
		PublishedTo:      p.date("publication_date__lte"),
		Price:            p.decimal("price"),
		PriceGt:          p.decimal("price__gt"),
		PriceLt:          p.decimal("price__lt"),
		PriceGte:         p.decimal("price__gte"),
		PriceLte:         p.decimal("price__lte"),
		Search:           strings.TrimSpace(q.Get("search")),
		Ordering:         model.ParseOrdering(q.Get("ordering")),
	}

	if len(p.errs) > 0 {
		return filter, p.errs
	}
	return filter, nil
}
