package repository

import (
	"context"

	"bookshelf-backend/internal/domains/book/model"
)

// RepositoryInterface is the data access contract of the book domain.
type RepositoryInterface interface {
	List(ctx context.Context, filter model.BookFilter) ([]model.Book, int64, error)
	GetByID(ctx context.Context, id int64) (*model.Book, error)

	AuthorExists(ctx context.Context, id int64) (bool, error)
	// MissingCategoryIDs returns the ids that match no category, in input order.
	MissingCategoryIDs(ctx context.Context, ids []int64) ([]int64, error)
	TitleTaken(ctx context.Context, title string, authorID, excludeID int64) (bool, error)
	ISBNTaken(ctx context.Context, isbn string, excludeBookID int64) (bool, error)

	// Create and Update write the book row, its category set and its
	// details row in one transaction.
	Create(ctx context.Context, b *model.Book) error
	Update(ctx context.Context, b *model.Book) error
	// Delete returns the cover key of the removed book, if any.
	Delete(ctx context.Context, id int64) (*string, error)

	Statistics(ctx context.Context) (*model.Statistics, error)
}
