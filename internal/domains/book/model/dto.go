package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// BookResponse is the REST representation of a book.
type BookResponse struct {
	ID              int64            `json:"id"`
	Title           string           `json:"title"`
	Author          int64            `json:"author"`
	AuthorName      string           `json:"author_name"`
	Categories      []int64          `json:"categories"`
	CategoryNames   []string         `json:"category_names"`
	Description     string           `json:"description"`
	Price           string           `json:"price"`
	PublicationDate string           `json:"publication_date"`
	BookFormat      Format           `json:"book_format"`
	CoverImage      *string          `json:"cover_image"`
	Details         *DetailsResponse `json:"details"`
}

type DetailsResponse struct {
	ISBN          *string `json:"isbn"`
	NumberOfPages *int    `json:"number_of_pages"`
	Language      *string `json:"language"`
	Publisher     *string `json:"publisher"`
}

// ToResponse renders the book. Cover keys become URLs under mediaURL.
func (b Book) ToResponse(mediaURL string) BookResponse {
	resp := BookResponse{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.AuthorID,
		AuthorName:      b.AuthorName(),
		Categories:      b.CategoryIDs,
		CategoryNames:   b.CategoryNames,
		Description:     b.Description,
		Price:           b.Price.StringFixed(PriceDecimalPlaces),
		PublicationDate: b.PublicationDate.Format(dateLayout),
		BookFormat:      b.Format,
	}
	if resp.Categories == nil {
		resp.Categories = []int64{}
	}
	if resp.CategoryNames == nil {
		resp.CategoryNames = []string{}
	}
	if b.CoverImage != nil {
		url := mediaURL + *b.CoverImage
		resp.CoverImage = &url
	}
	if b.Details != nil {
		resp.Details = &DetailsResponse{
			ISBN:          b.Details.ISBN,
			NumberOfPages: b.Details.NumberOfPages,
			Language:      b.Details.Language,
			Publisher:     b.Details.Publisher,
		}
	}
	return resp
}

func ToResponses(books []Book, mediaURL string) []BookResponse {
	out := make([]BookResponse, len(books))
	for i, b := range books {
		out[i] = b.ToResponse(mediaURL)
	}
	return out
}

// StatisticsResponse renders aggregates as JSON numbers, null when there
// are no books.
type StatisticsResponse struct {
	AggregateStats AggregateStats    `json:"aggregate_stats"`
	BooksPerAuthor []AuthorBookCount `json:"books_per_author"`
}

type AggregateStats struct {
	AveragePrice *json.Number `json:"average_price"`
	TotalBooks   int64        `json:"total_books"`
	MinPrice     *json.Number `json:"min_price"`
	MaxPrice     *json.Number `json:"max_price"`
}

func (s Statistics) ToResponse() StatisticsResponse {
	perAuthor := s.BooksPerAuthor
	if perAuthor == nil {
		perAuthor = []AuthorBookCount{}
	}
	return StatisticsResponse{
		AggregateStats: AggregateStats{
			AveragePrice: number(s.AveragePrice),
			TotalBooks:   s.TotalBooks,
			MinPrice:     number(s.MinPrice),
			MaxPrice:     number(s.MaxPrice),
		},
		BooksPerAuthor: perAuthor,
	}
}

func number(d decimal.NullDecimal) *json.Number {
	if !d.Valid {
		return nil
	}
	n := json.Number(d.Decimal.String())
	return &n
}
