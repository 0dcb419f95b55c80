package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// View restricts listing to one of the derived book sets.
type View int

const (
	ViewAll View = iota
	// ViewPublished keeps books published on or before today.
	ViewPublished
	// ViewAffordable keeps published books priced below AffordablePrice.
	ViewAffordable
)

// BookFilter selects books for listing. Nil pointers and empty strings
// leave the corresponding criterion out. A zero Limit means no limit.
type BookFilter struct {
	View View

	AuthorID               *int64
	AuthorLastName         string
	AuthorLastNameContains string
	CategoryID             *int64
	CategoryName           string
	CategoryNameContains   string

	Title           string
	TitleContains   string
	TitleStartsWith string
	Format          string

	PublicationDate   *time.Time
	PublicationYear   *int
	PublicationMonth  *int
	PublicationDay    *int
	PublicationYearGt *int
	PublicationYearLt *int
	PublishedFrom     *time.Time // inclusive
	PublishedTo       *time.Time // inclusive

	Price    *decimal.Decimal
	PriceGt  *decimal.Decimal
	PriceLt  *decimal.Decimal
	PriceGte *decimal.Decimal
	PriceLte *decimal.Decimal

	// Search matches title or description, case-insensitively.
	Search string

	Ordering []OrderField

	Limit  int
	Offset int
}

// OrderField is one term of an ordering clause.
type OrderField struct {
	Field string
	Desc  bool
}

// Orderable book fields.
const (
	OrderTitle           = "title"
	OrderPrice           = "price"
	OrderPublicationDate = "publication_date"
	OrderAuthorLastName  = "author__last_name"
)

var orderable = map[string]bool{
	OrderTitle:           true,
	OrderPrice:           true,
	OrderPublicationDate: true,
	OrderAuthorLastName:  true,
}

// DefaultOrdering is publication_date descending, then title ascending.
var DefaultOrdering = []OrderField{
	{Field: OrderPublicationDate, Desc: true},
	{Field: OrderTitle},
}

// ParseOrdering reads a comma separated list of signed field names such as
// "-price,title". Unknown names are ignored.
func ParseOrdering(raw string) []OrderField {
	var out []OrderField
	for _, term := range strings.Split(raw, ",") {
		term = strings.TrimSpace(term)
		desc := strings.HasPrefix(term, "-")
		name := strings.TrimPrefix(term, "-")
		if !orderable[name] {
			continue
		}
		out = append(out, OrderField{Field: name, Desc: desc})
	}
	return out
}
