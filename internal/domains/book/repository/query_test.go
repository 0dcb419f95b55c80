package repository

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"bookshelf-backend/internal/domains/book/model"
)

func TestBuildConditions(t *testing.T) {
	author := int64(3)
	year := 1965
	price := decimal.RequireFromString("20")

	conds := buildConditions(model.BookFilter{
		View:            model.ViewAffordable,
		AuthorID:        &author,
		PublicationYear: &year,
		PriceLte:        &price,
		Search:          "spice",
	})

	where := conds.Where()
	assert.True(t, strings.HasPrefix(where, "WHERE b.publication_date <= CURRENT_DATE AND b.price < $1"))
	assert.Contains(t, where, "b.author_id = $2")
	assert.Contains(t, where, "EXTRACT(YEAR FROM b.publication_date) = $3")
	assert.Contains(t, where, "b.price <= $4")
	assert.Contains(t, where, "(b.title ILIKE $5 OR b.description ILIKE $6)")
	assert.Equal(t, []any{model.AffordablePrice, author, year, price, "%spice%", "%spice%"}, conds.Args())
}

func TestBuildConditions_Empty(t *testing.T) {
	assert.Equal(t, "", buildConditions(model.BookFilter{}).Where())

	published := buildConditions(model.BookFilter{View: model.ViewPublished})
	assert.Equal(t, "WHERE b.publication_date <= CURRENT_DATE", published.Where())
	assert.Empty(t, published.Args())
}

func TestBuildOrderBy(t *testing.T) {
	assert.Equal(t, "ORDER BY b.publication_date DESC, b.title, b.id", buildOrderBy(nil))
	assert.Equal(t, "ORDER BY b.price DESC, a.last_name, b.id", buildOrderBy([]model.OrderField{
		{Field: model.OrderPrice, Desc: true},
		{Field: model.OrderAuthorLastName},
		{Field: "bogus"},
	}))
}
