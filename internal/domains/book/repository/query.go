package repository

import (
	"strings"

	"bookshelf-backend/internal/domains/book/model"
	"bookshelf-backend/internal/shared/utils"
)

const bookSelect = `
	SELECT b.id, b.title, b.author_id, a.first_name, a.last_name, b.description,
	       b.price, b.publication_date, b.book_format, b.cover_image,
	       d.book_id IS NOT NULL, d.isbn, d.number_of_pages, d.language, d.publisher
	FROM books b
	JOIN authors a ON a.id = b.author_id
	LEFT JOIN book_details d ON d.book_id = b.id`

const bookCount = `
	SELECT COUNT(*)
	FROM books b
	JOIN authors a ON a.id = b.author_id`

var orderColumns = map[string]string{
	model.OrderTitle:           "b.title",
	model.OrderPrice:           "b.price",
	model.OrderPublicationDate: "b.publication_date",
	model.OrderAuthorLastName:  "a.last_name",
}

// buildConditions translates the filter into predicates over the
// books b / authors a join.
func buildConditions(f model.BookFilter) *utils.Conditions {
	conds := &utils.Conditions{}

	switch f.View {
	case model.ViewPublished:
		conds.Add(`b.publication_date <= CURRENT_DATE`)
	case model.ViewAffordable:
		conds.Add(`b.publication_date <= CURRENT_DATE`)
		conds.Add(`b.price < ?`, model.AffordablePrice)
	}

	if f.AuthorID != nil {
		conds.Add(`b.author_id = ?`, *f.AuthorID)
	}
	if f.AuthorLastName != "" {
		conds.Add(`a.last_name = ?`, f.AuthorLastName)
	}
	if f.AuthorLastNameContains != "" {
		conds.Add(`a.last_name ILIKE ?`, utils.Contains(f.AuthorLastNameContains))
	}

	if f.CategoryID != nil {
		conds.Add(`EXISTS (SELECT 1 FROM book_categories bc
			WHERE bc.book_id = b.id AND bc.category_id = ?)`, *f.CategoryID)
	}
	if f.CategoryName != "" {
		conds.Add(`EXISTS (SELECT 1 FROM book_categories bc JOIN categories c ON c.id = bc.category_id
			WHERE bc.book_id = b.id AND c.name = ?)`, f.CategoryName)
	}
	if f.CategoryNameContains != "" {
		conds.Add(`EXISTS (SELECT 1 FROM book_categories bc JOIN categories c ON c.id = bc.category_id
			WHERE bc.book_id = b.id AND c.name ILIKE ?)`, utils.Contains(f.CategoryNameContains))
	}

	if f.Title != "" {
		conds.Add(`b.title = ?`, f.Title)
	}
	if f.TitleContains != "" {
		conds.Add(`b.title ILIKE ?`, utils.Contains(f.TitleContains))
	}
	if f.TitleStartsWith != "" {
		conds.Add(`b.title ILIKE ?`, utils.StartsWith(f.TitleStartsWith))
	}
	if f.Format != "" {
		conds.Add(`b.book_format = ?`, f.Format)
	}

	if f.PublicationDate != nil {
		conds.Add(`b.publication_date = ?`, *f.PublicationDate)
	}
	if f.PublicationYear != nil {
		conds.Add(`EXTRACT(YEAR FROM b.publication_date) = ?`, *f.PublicationYear)
	}
	if f.PublicationMonth != nil {
		conds.Add(`EXTRACT(MONTH FROM b.publication_date) = ?`, *f.PublicationMonth)
	}
	if f.PublicationDay != nil {
		conds.Add(`EXTRACT(DAY FROM b.publication_date) = ?`, *f.PublicationDay)
	}
	if f.PublicationYearGt != nil {
		conds.Add(`EXTRACT(YEAR FROM b.publication_date) > ?`, *f.PublicationYearGt)
	}
	if f.PublicationYearLt != nil {
		conds.Add(`EXTRACT(YEAR FROM b.publication_date) < ?`, *f.PublicationYearLt)
	}
	if f.PublishedFrom != nil {
		conds.Add(`b.publication_date >= ?`, *f.PublishedFrom)
	}
	if f.PublishedTo != nil {
		conds.Add(`b.publication_date <= ?`, *f.PublishedTo)
	}

	if f.Price != nil {
		conds.Add(`b.price = ?`, *f.Price)
	}
	if f.PriceGt != nil {
		conds.Add(`b.price > ?`, *f.PriceGt)
	}
	if f.PriceLt != nil {
		conds.Add(`b.price < ?`, *f.PriceLt)
	}
	if f.PriceGte != nil {
		conds.Add(`b.price >= ?`, *f.PriceGte)
	}
	if f.PriceLte != nil {
		conds.Add(`b.price <= ?`, *f.PriceLte)
	}

	if f.Search != "" {
		pattern := utils.Contains(f.Search)
		conds.Add(`(b.title ILIKE ? OR b.description ILIKE ?)`, pattern, pattern)
	}

	return conds
}

// buildOrderBy renders the ORDER BY clause, falling back to the default
// ordering. The book id is always the final tie-breaker.
func buildOrderBy(fields []model.OrderField) string {
	if len(fields) == 0 {
		fields = model.DefaultOrdering
	}

	terms := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		col, ok := orderColumns[f.Field]
		if !ok {
			continue
		}
		if f.Desc {
			col += " DESC"
		}
		terms = append(terms, col)
	}
	terms = append(terms, "b.id")
	return "ORDER BY " + strings.Join(terms, ", ")
}
