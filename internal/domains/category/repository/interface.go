package repository

import (
	"context"

	"bookshelf-backend/internal/domains/category/model"
)

type RepositoryInterface interface {
	List(ctx context.Context, filter model.CategoryFilter) ([]model.Category, int64, error)
	GetByID(ctx context.Context, id int64) (*model.Category, error)
	NameTaken(ctx context.Context, name string, excludeID int64) (bool, error)
	Create(ctx context.Context, c *model.Category) error
	Update(ctx context.Context, c *model.Category) error
	Delete(ctx context.Context, id int64) error
}
