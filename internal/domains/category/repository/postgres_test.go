package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bookshelf-backend/internal/domains/category/model"
)

func TestBuildListConditions(t *testing.T) {
	bookID := int64(8)
	conds := buildListConditions(model.CategoryFilter{
		Search: "sci",
		Name:   "Science",
		BookID: &bookID,
	})

	where := conds.Where()
	assert.Contains(t, where, "WHERE name ILIKE $1 AND name = $2 AND EXISTS")
	assert.Contains(t, where, "bc.book_id = $3")
	assert.Equal(t, []any{"%sci%", "Science", int64(8)}, conds.Args())

	assert.Empty(t, buildListConditions(model.CategoryFilter{}).Where())
}
