package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bookshelf-backend/internal/domains/author/model"
	bookmodel "bookshelf-backend/internal/domains/book/model"
	"bookshelf-backend/internal/shared/apperr"
	"bookshelf-backend/internal/shared/identity"
	"bookshelf-backend/internal/shared/optional"
	"bookshelf-backend/pkg/cache/cachetest"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) List(ctx context.Context, filter model.AuthorFilter) ([]model.Author, int64, error) {
	args := m.Called(ctx, filter)
	authors, _ := args.Get(0).([]model.Author)
	return authors, args.Get(1).(int64), args.Error(2)
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (*model.Author, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*model.Author)
	return a, args.Error(1)
}

func (m *mockRepo) FullNameTaken(ctx context.Context, firstName, lastName string, excludeID int64) (bool, error) {
	args := m.Called(ctx, firstName, lastName, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepo) Create(ctx context.Context, a *model.Author) error {
	args := m.Called(ctx, a)
	if args.Error(0) == nil {
		a.ID = 1
	}
	return args.Error(0)
}

func (m *mockRepo) Update(ctx context.Context, a *model.Author) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockRepo) Delete(ctx context.Context, id int64) ([]string, error) {
	args := m.Called(ctx, id)
	keys, _ := args.Get(0).([]string)
	return keys, args.Error(1)
}

type mockMedia struct {
	mock.Mock
}

func (m *mockMedia) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func authed() context.Context {
	return identity.WithIdentity(context.Background(), identity.Identity{UserID: 1, Username: "admin"})
}

func TestCreate(t *testing.T) {
	repo := new(mockRepo)
	mem := cachetest.NewMemory()
	require.NoError(t, mem.Set(context.Background(), bookmodel.StatisticsCacheKey, 1, 0))
	svc := NewService(repo, mem, nil)
	ctx := authed()

	repo.On("FullNameTaken", ctx, "Frank", "Herbert", int64(0)).Return(false, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*model.Author")).Return(nil)

	a, err := svc.Create(ctx, model.AuthorInput{
		FirstName: optional.Of(" Frank "),
		LastName:  optional.Of("Herbert"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.Author{ID: 1, FirstName: "Frank", LastName: "Herbert"}, *a)
	assert.False(t, mem.Has(bookmodel.StatisticsCacheKey))
	repo.AssertExpectations(t)
}

func TestCreate_RequiresLogin(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, cachetest.NewMemory(), nil)

	_, err := svc.Create(context.Background(), model.AuthorInput{})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(new(mockRepo), cachetest.NewMemory(), nil)

	_, err := svc.Create(authed(), model.AuthorInput{
		FirstName: optional.Null[string](),
	})
	fields, ok := apperr.FieldsOf(err)
	require.True(t, ok)
	assert.Equal(t, []string{apperr.MsgNull}, fields["first_name"])
	assert.Equal(t, []string{apperr.MsgRequired}, fields["last_name"])
}

func TestCreate_DuplicateName(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, cachetest.NewMemory(), nil)
	ctx := authed()

	repo.On("FullNameTaken", ctx, "Frank", "Herbert", int64(0)).Return(true, nil)

	_, err := svc.Create(ctx, model.AuthorInput{
		FirstName: optional.Of("Frank"),
		LastName:  optional.Of("Herbert"),
	})
	fields, ok := apperr.FieldsOf(err)
	require.True(t, ok)
	assert.Equal(t, []string{model.MsgDuplicateAuthor}, fields[apperr.NonFieldErrors])
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPartialUpdate_KeepsUnsentFields(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, cachetest.NewMemory(), nil)
	ctx := authed()

	repo.On("GetByID", ctx, int64(4)).Return(&model.Author{ID: 4, FirstName: "Ursula", LastName: "Guin"}, nil)
	repo.On("FullNameTaken", ctx, "Ursula", "Le Guin", int64(4)).Return(false, nil)
	repo.On("Update", ctx, &model.Author{ID: 4, FirstName: "Ursula", LastName: "Le Guin"}).Return(nil)

	a, err := svc.PartialUpdate(ctx, 4, model.AuthorInput{LastName: optional.Of("Le Guin")})
	require.NoError(t, err)
	assert.Equal(t, "Ursula Le Guin", a.FullName())
	repo.AssertExpectations(t)
}

func TestReplace_RequiresAllFields(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, cachetest.NewMemory(), nil)
	ctx := authed()

	repo.On("GetByID", ctx, int64(4)).Return(&model.Author{ID: 4, FirstName: "Ursula", LastName: "Guin"}, nil)

	_, err := svc.Replace(ctx, 4, model.AuthorInput{LastName: optional.Of("Le Guin")})
	fields, ok := apperr.FieldsOf(err)
	require.True(t, ok)
	assert.Equal(t, []string{apperr.MsgRequired}, fields["first_name"])
}

func TestUpdate_NotFound(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, cachetest.NewMemory(), nil)
	ctx := authed()

	repo.On("GetByID", ctx, int64(9)).Return(nil, apperr.NotFound(model.ResourceName, int64(9)))

	_, err := svc.PartialUpdate(ctx, 9, model.AuthorInput{})
	assert.True(t, apperr.IsNotFound(err))
}

func TestDelete_RemovesCovers(t *testing.T) {
	repo := new(mockRepo)
	media := new(mockMedia)
	svc := NewService(repo, cachetest.NewMemory(), media)
	ctx := authed()

	repo.On("Delete", ctx, int64(2)).Return([]string{"covers/a.jpg", "covers/b.jpg"}, nil)
	media.On("Delete", ctx, "covers/a.jpg").Return(nil)
	media.On("Delete", ctx, "covers/b.jpg").Return(errors.New("storage down"))

	require.NoError(t, svc.Delete(ctx, 2))
	media.AssertExpectations(t)
}

func TestList_WrapsRepositoryError(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, cachetest.NewMemory(), nil)

	repo.On("List", mock.Anything, model.AuthorFilter{Limit: 10}).Return(nil, int64(0), errors.New("boom"))

	_, _, err := svc.List(context.Background(), model.AuthorFilter{Limit: 10})
	assert.ErrorContains(t, err, "list authors")
}
