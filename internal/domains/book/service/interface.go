package service

import (
	"context"

	"github.com/xuri/excelize/v2"

	"bookshelf-backend/internal/domains/book/model"
	"bookshelf-backend/internal/infrastructure/storage"
)

// ServiceInterface is the book resource service shared by REST and GraphQL.
type ServiceInterface interface {
	List(ctx context.Context, filter model.BookFilter) ([]model.Book, int64, error)
	GetByID(ctx context.Context, id int64) (*model.Book, error)
	Create(ctx context.Context, in model.BookInput) (*model.Book, error)
	Replace(ctx context.Context, id int64, in model.BookInput) (*model.Book, error)
	PartialUpdate(ctx context.Context, id int64, in model.BookInput) (*model.Book, error)
	Delete(ctx context.Context, id int64) error
	Statistics(ctx context.Context) (*model.Statistics, error)
	Export(ctx context.Context, filter model.BookFilter) (*excelize.File, error)
	OpenCover(ctx context.Context, key string) (*storage.Object, error)
}

// MediaStore keeps cover images; *storage.MinIOStorage implements it.
type MediaStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Open(ctx context.Context, key string) (*storage.Object, error)
	Delete(ctx context.Context, key string) error
}

// CoverProcessor validates and normalises an uploaded cover image.
type CoverProcessor interface {
	Process(data []byte) ([]byte, error)
}
