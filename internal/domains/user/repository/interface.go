package repository

import (
	"context"

	"bookshelf-backend/internal/domains/user/model"
)

type RepositoryInterface interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
	UpdateLastLogin(ctx context.Context, id int64) error
}
