package service

import (
	"context"
	"fmt"

	"bookshelf-backend/internal/domains/author/model"
	"bookshelf-backend/internal/domains/author/repository"
	bookmodel "bookshelf-backend/internal/domains/book/model"
	"bookshelf-backend/internal/shared/apperr"
	"bookshelf-backend/internal/shared/identity"
	"bookshelf-backend/pkg/cache"
	"bookshelf-backend/pkg/logger"
)

type AuthorService struct {
	repo  repository.RepositoryInterface
	cache cache.Cache
	media MediaRemover
}

// NewService wires the author service. media may be nil when no object
// storage is configured.
func NewService(repo repository.RepositoryInterface, c cache.Cache, media MediaRemover) ServiceInterface {
	return &AuthorService{repo: repo, cache: c, media: media}
}

func (s *AuthorService) List(ctx context.Context, filter model.AuthorFilter) ([]model.Author, int64, error) {
	authors, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list authors: %w", err)
	}
	return authors, total, nil
}

func (s *AuthorService) GetByID(ctx context.Context, id int64) (*model.Author, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AuthorService) Create(ctx context.Context, in model.AuthorInput) (*model.Author, error) {
	if err := identity.Require(ctx); err != nil {
		return nil, err
	}

	a, err := in.Apply(model.Author{}, false)
	if err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, a); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, &a); err != nil {
		return nil, err
	}
	// Statistics list every author, including those without books.
	bookmodel.InvalidateBookCaches(ctx, s.cache)

	logger.Info("Author created", map[string]interface{}{"author_id": a.ID, "name": a.FullName()})
	return &a, nil
}

func (s *AuthorService) Replace(ctx context.Context, id int64, in model.AuthorInput) (*model.Author, error) {
	return s.update(ctx, id, in, false)
}

func (s *AuthorService) PartialUpdate(ctx context.Context, id int64, in model.AuthorInput) (*model.Author, error) {
	return s.update(ctx, id, in, true)
}

func (s *AuthorService) update(ctx context.Context, id int64, in model.AuthorInput, partial bool) (*model.Author, error) {
	if err := identity.Require(ctx); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	a, err := in.Apply(*existing, partial)
	if err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, a); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, &a); err != nil {
		return nil, err
	}

	// Book representations embed the author name.
	bookmodel.InvalidateBookCaches(ctx, s.cache)
	return &a, nil
}

func (s *AuthorService) Delete(ctx context.Context, id int64) error {
	if err := identity.Require(ctx); err != nil {
		return err
	}

	covers, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	bookmodel.InvalidateBookCaches(ctx, s.cache)

	if s.media != nil {
		for _, key := range covers {
			if err := s.media.Delete(ctx, key); err != nil {
				logger.Warn("Failed to remove cover of deleted book", map[string]interface{}{
					"key":   key,
					"error": err.Error(),
				})
			}
		}
	}

	logger.Info("Author deleted", map[string]interface{}{"author_id": id, "covers": len(covers)})
	return nil
}

func (s *AuthorService) checkUnique(ctx context.Context, a model.Author) error {
	taken, err := s.repo.FullNameTaken(ctx, a.FirstName, a.LastName, a.ID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict(apperr.NonFieldErrors, model.MsgDuplicateAuthor)
	}
	return nil
}
