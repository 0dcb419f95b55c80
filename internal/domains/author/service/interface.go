package service

import (
	"context"

	"bookshelf-backend/internal/domains/author/model"
)

// ServiceInterface is the author resource service shared by REST and GraphQL.
type ServiceInterface interface {
	List(ctx context.Context, filter model.AuthorFilter) ([]model.Author, int64, error)
	GetByID(ctx context.Context, id int64) (*model.Author, error)
	Create(ctx context.Context, in model.AuthorInput) (*model.Author, error)
	Replace(ctx context.Context, id int64, in model.AuthorInput) (*model.Author, error)
	PartialUpdate(ctx context.Context, id int64, in model.AuthorInput) (*model.Author, error)
	Delete(ctx context.Context, id int64) error
}

// MediaRemover deletes stored media objects by key.
type MediaRemover interface {
	Delete(ctx context.Context, key string) error
}
