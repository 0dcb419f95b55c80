package service

import (
	"context"

	"bookshelf-backend/internal/domains/category/model"
)

type ServiceInterface interface {
	List(ctx context.Context, filter model.CategoryFilter) ([]model.Category, int64, error)
	GetByID(ctx context.Context, id int64) (*model.Category, error)
	Create(ctx context.Context, in model.CategoryInput) (*model.Category, error)
	Replace(ctx context.Context, id int64, in model.CategoryInput) (*model.Category, error)
	PartialUpdate(ctx context.Context, id int64, in model.CategoryInput) (*model.Category, error)
	Delete(ctx context.Context, id int64) error
}
