package repository

import (
	"context"

	"bookshelf-backend/internal/domains/author/model"
)

// RepositoryInterface is the data access contract of the author domain.
type RepositoryInterface interface {
	List(ctx context.Context, filter model.AuthorFilter) ([]model.Author, int64, error)
	GetByID(ctx context.Context, id int64) (*model.Author, error)
	// FullNameTaken reports whether another author, other than excludeID,
	// already uses the name pair. Pass 0 to exclude nothing.
	FullNameTaken(ctx context.Context, firstName, lastName string, excludeID int64) (bool, error)
	Create(ctx context.Context, a *model.Author) error
	Update(ctx context.Context, a *model.Author) error
	// Delete removes the author together with its books and returns the
	// cover image keys of the removed books.
	Delete(ctx context.Context, id int64) ([]string, error)
}
