package service

import (
	"context"
	"fmt"

	bookmodel "bookshelf-backend/internal/domains/book/model"
	"bookshelf-backend/internal/domains/category/model"
	"bookshelf-backend/internal/domains/category/repository"
	"bookshelf-backend/internal/shared/apperr"
	"bookshelf-backend/internal/shared/identity"
	"bookshelf-backend/pkg/cache"
	"bookshelf-backend/pkg/logger"
)

type CategoryService struct {
	repo  repository.RepositoryInterface
	cache cache.Cache
}

func NewService(repo repository.RepositoryInterface, c cache.Cache) ServiceInterface {
	return &CategoryService{repo: repo, cache: c}
}

func (s *CategoryService) List(ctx context.Context, filter model.CategoryFilter) ([]model.Category, int64, error) {
	categories, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	return categories, total, nil
}

func (s *CategoryService) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, in model.CategoryInput) (*model.Category, error) {
	if err := identity.Require(ctx); err != nil {
		return nil, err
	}

	c, err := in.Apply(model.Category{}, false)
	if err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, c); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, &c); err != nil {
		return nil, err
	}

	logger.Info("Category created", map[string]interface{}{"category_id": c.ID})
	return &c, nil
}

func (s *CategoryService) Replace(ctx context.Context, id int64, in model.CategoryInput) (*model.Category, error) {
	return s.update(ctx, id, in, false)
}

func (s *CategoryService) PartialUpdate(ctx context.Context, id int64, in model.CategoryInput) (*model.Category, error) {
	return s.update(ctx, id, in, true)
}

func (s *CategoryService) update(ctx context.Context, id int64, in model.CategoryInput, partial bool) (*model.Category, error) {
	if err := identity.Require(ctx); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c, err := in.Apply(*existing, partial)
	if err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, c); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, &c); err != nil {
		return nil, err
	}

	// Book representations embed category names.
	bookmodel.InvalidateBookCaches(ctx, s.cache)
	return &c, nil
}

func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if err := identity.Require(ctx); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	bookmodel.InvalidateBookCaches(ctx, s.cache)
	logger.Info("Category deleted", map[string]interface{}{"category_id": id})
	return nil
}

func (s *CategoryService) checkUnique(ctx context.Context, c model.Category) error {
	taken, err := s.repo.NameTaken(ctx, c.Name, c.ID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict("name", model.MsgDuplicateName)
	}
	return nil
}
