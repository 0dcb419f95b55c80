package model

import "github.com/shopspring/decimal"

// Statistics aggregates prices over every book and counts books per
// author. Authors without books are listed with zero.
type Statistics struct {
	AveragePrice   decimal.NullDecimal `json:"average_price"`
	TotalBooks     int64               `json:"total_books"`
	MinPrice       decimal.NullDecimal `json:"min_price"`
	MaxPrice       decimal.NullDecimal `json:"max_price"`
	BooksPerAuthor []AuthorBookCount   `json:"books_per_author"`
}

type AuthorBookCount struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	NumBooks  int64  `json:"num_books"`
}
