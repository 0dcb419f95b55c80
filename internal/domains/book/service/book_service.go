package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"bookshelf-backend/internal/domains/book/model"
	"bookshelf-backend/internal/domains/book/repository"
	"bookshelf-backend/internal/infrastructure/storage"
	"bookshelf-backend/internal/shared/apperr"
	"bookshelf-backend/internal/shared/identity"
	"bookshelf-backend/internal/shared/optional"
	"bookshelf-backend/pkg/cache"
	"bookshelf-backend/pkg/logger"
)

const (
	coverContentType = "image/jpeg"
	msgCoverTooLarge = "The submitted file is too large."
)

type BookService struct {
	repo   repository.RepositoryInterface
	cache  cache.Cache
	ttl    time.Duration
	media  MediaStore
	covers CoverProcessor
}

func NewService(
	repo repository.RepositoryInterface,
	c cache.Cache,
	ttl time.Duration,
	media MediaStore,
	covers CoverProcessor,
) ServiceInterface {
	return &BookService{
		repo:   repo,
		cache:  c,
		ttl:    ttl,
		media:  media,
		covers: covers,
	}
}

func (s *BookService) List(ctx context.Context, filter model.BookFilter) ([]model.Book, int64, error) {
	books, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}
	return books, total, nil
}

func (s *BookService) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	key := model.BookCacheKey(id)

	var cached model.Book
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn("Book cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
	if found {
		return &cached, nil
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, b, s.ttl); err != nil {
		logger.Warn("Book cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
	return b, nil
}

func (s *BookService) Create(ctx context.Context, in model.BookInput) (*model.Book, error) {
	if err := identity.Require(ctx); err != nil {
		return nil, err
	}

	b, err := in.Apply(model.NewBook(), false)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, b, in); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, b); err != nil {
		return nil, err
	}

	uploaded, err := s.storeCover(ctx, &b, in.Cover)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, &b); err != nil {
		s.removeCover(ctx, uploaded)
		return nil, err
	}

	model.InvalidateBookCaches(ctx, s.cache)
	logger.Info("Book created", map[string]interface{}{"book_id": b.ID, "author_id": b.AuthorID})
	return s.repo.GetByID(ctx, b.ID)
}

func (s *BookService) Replace(ctx context.Context, id int64, in model.BookInput) (*model.Book, error) {
	return s.update(ctx, id, in, false)
}

func (s *BookService) PartialUpdate(ctx context.Context, id int64, in model.BookInput) (*model.Book, error) {
	return s.update(ctx, id, in, true)
}

func (s *BookService) update(ctx context.Context, id int64, in model.BookInput, partial bool) (*model.Book, error) {
	if err := identity.Require(ctx); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previousCover := existing.CoverImage

	b, err := in.Apply(*existing, partial)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, b, in); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, b); err != nil {
		return nil, err
	}

	uploaded, err := s.storeCover(ctx, &b, in.Cover)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, &b); err != nil {
		s.removeCover(ctx, uploaded)
		return nil, err
	}

	if previousCover != nil && (b.CoverImage == nil || *b.CoverImage != *previousCover) {
		s.removeCover(ctx, *previousCover)
	}

	model.InvalidateBookCaches(ctx, s.cache)
	return s.repo.GetByID(ctx, id)
}

func (s *BookService) Delete(ctx context.Context, id int64) error {
	if err := identity.Require(ctx); err != nil {
		return err
	}

	cover, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if cover != nil {
		s.removeCover(ctx, *cover)
	}

	model.InvalidateBookCaches(ctx, s.cache)
	logger.Info("Book deleted", map[string]interface{}{"book_id": id})
	return nil
}

func (s *BookService) Statistics(ctx context.Context) (*model.Statistics, error) {
	var cached model.Statistics
	found, err := s.cache.Get(ctx, model.StatisticsCacheKey, &cached)
	if err != nil {
		logger.Warn("Statistics cache read failed", map[string]interface{}{"error": err.Error()})
	}
	if found {
		return &cached, nil
	}

	stats, err := s.repo.Statistics(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, model.StatisticsCacheKey, stats, s.ttl); err != nil {
		logger.Warn("Statistics cache write failed", map[string]interface{}{"error": err.Error()})
	}
	return stats, nil
}

// OpenCover streams a stored cover. Only keys under the cover prefix are
// served.
func (s *BookService) OpenCover(ctx context.Context, key string) (*storage.Object, error) {
	key = strings.TrimPrefix(key, "/")
	if !strings.HasPrefix(key, model.CoverPrefix) || strings.Contains(key, "..") {
		return nil, apperr.NotFound("media", key)
	}

	obj, err := s.media.Open(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, apperr.NotFound("media", key)
		}
		return nil, err
	}
	return obj, nil
}

// checkReferences verifies the author and category ids sent in the input.
func (s *BookService) checkReferences(ctx context.Context, b model.Book, in model.BookInput) error {
	errs := apperr.FieldErrors{}

	if _, ok := in.AuthorID.Get(); ok {
		exists, err := s.repo.AuthorExists(ctx, b.AuthorID)
		if err != nil {
			return err
		}
		if !exists {
			errs.Add("author", apperr.InvalidPK(b.AuthorID))
		}
	}

	if _, ok := in.CategoryIDs.Get(); ok {
		missing, err := s.repo.MissingCategoryIDs(ctx, b.CategoryIDs)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			errs.Add("categories", apperr.InvalidPK(missing[0]))
		}
	}

	return errs.Err()
}

func (s *BookService) checkUnique(ctx context.Context, b model.Book) error {
	taken, err := s.repo.TitleTaken(ctx, b.Title, b.AuthorID, b.ID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict(apperr.NonFieldErrors, model.MsgDuplicateTitle)
	}

	if b.Details != nil && b.Details.ISBN != nil {
		taken, err := s.repo.ISBNTaken(ctx, *b.Details.ISBN, b.ID)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict("details.isbn", model.MsgDuplicateISBN)
		}
	}
	return nil
}

// storeCover processes and uploads a new cover before the database write
// and returns its key so a failed write can remove it again. An explicit
// null detaches the current cover.
func (s *BookService) storeCover(ctx context.Context, b *model.Book, cover optional.Value[[]byte]) (string, error) {
	if !cover.Set {
		return "", nil
	}
	if cover.Null {
		b.CoverImage = nil
		return "", nil
	}

	data, err := s.covers.Process(cover.Value)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrImageTooLarge):
			return "", apperr.Validation("cover_image", msgCoverTooLarge)
		case errors.Is(err, storage.ErrInvalidImage):
			return "", apperr.Validation("cover_image", apperr.MsgInvalidImage)
		}
		return "", fmt.Errorf("process cover: %w", err)
	}

	key := model.CoverPrefix + uuid.NewString() + ".jpg"
	if err := s.media.Upload(ctx, key, data, coverContentType); err != nil {
		return "", fmt.Errorf("upload cover: %w", err)
	}
	b.CoverImage = &key
	return key, nil
}

func (s *BookService) removeCover(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.media.Delete(ctx, key); err != nil {
		logger.Warn("Failed to remove cover", map[string]interface{}{"key": key, "error": err.Error()})
	}
}
