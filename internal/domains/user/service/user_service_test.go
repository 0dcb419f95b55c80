package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"bookshelf-backend/internal/domains/user/model"
	"bookshelf-backend/internal/shared/apperr"
	"bookshelf-backend/pkg/cache/cachetest"
	"bookshelf-backend/pkg/jwt"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockRepo) Create(ctx context.Context, u *model.User) error {
	args := m.Called(ctx, u)
	if args.Error(0) == nil {
		u.ID = 99
	}
	return args.Error(0)
}

func (m *mockRepo) UpdateLastLogin(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func newUser(t *testing.T, password string, active bool) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &model.User{ID: 5, Username: "alice", PasswordHash: string(hash), IsActive: active}
}

func newTestService(repo *mockRepo, mem *cachetest.Memory, tokens *jwt.Manager) ServiceInterface {
	return NewService(repo, tokens, mem, LockoutPolicy{MaxFailures: 3, Window: time.Minute})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepo)
	mem := cachetest.NewMemory()
	tokens := jwt.NewManager("secret", time.Minute, time.Hour)
	svc := newTestService(repo, mem, tokens)

	require.NoError(t, mem.Set(ctx, "login_failures:alice", 2, time.Minute))
	repo.On("FindByUsername", ctx, "alice").Return(newUser(t, "correct horse", true), nil)
	repo.On("UpdateLastLogin", ctx, int64(5)).Return(nil)

	pair, err := svc.Login(ctx, model.Credentials{Username: "alice", Password: "correct horse"})
	require.NoError(t, err)

	claims, err := tokens.ValidateAccessToken(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, int64(5), claims.UserID)
	_, err = tokens.ValidateRefreshToken(pair.Refresh)
	require.NoError(t, err)

	assert.False(t, mem.Has("login_failures:alice"), "success resets the failure counter")
	repo.AssertExpectations(t)
}

func TestLogin_WrongPasswordAndLockout(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepo)
	mem := cachetest.NewMemory()
	svc := newTestService(repo, mem, jwt.NewManager("secret", time.Minute, time.Hour))

	repo.On("FindByUsername", ctx, "Alice").Return(newUser(t, "correct horse", true), nil)

	for i := 0; i < 3; i++ {
		_, err := svc.Login(ctx, model.Credentials{Username: "Alice", Password: "wrong"})
		assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	}
	assert.Equal(t, time.Minute, mem.TTLs["login_failures:alice"])

	_, err := svc.Login(ctx, model.Credentials{Username: "Alice", Password: "correct horse"})
	assert.ErrorIs(t, err, apperr.ErrTooManyRequests)
	repo.AssertNumberOfCalls(t, "FindByUsername", 3)
}

func TestLogin_UnknownAndInactiveUsers(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepo)
	svc := newTestService(repo, cachetest.NewMemory(), jwt.NewManager("secret", time.Minute, time.Hour))

	repo.On("FindByUsername", ctx, "ghost").Return(nil, apperr.NotFound(model.ResourceName, "ghost"))
	repo.On("FindByUsername", ctx, "alice").Return(newUser(t, "correct horse", false), nil)

	_, err := svc.Login(ctx, model.Credentials{Username: "ghost", Password: "x"})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)

	_, err = svc.Login(ctx, model.Credentials{Username: "alice", Password: "correct horse"})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
}

func TestLogin_BlankFields(t *testing.T) {
	svc := newTestService(new(mockRepo), cachetest.NewMemory(), jwt.NewManager("secret", time.Minute, time.Hour))

	_, err := svc.Login(context.Background(), model.Credentials{})
	fields, ok := apperr.FieldsOf(err)
	require.True(t, ok)
	assert.Equal(t, []string{apperr.MsgBlank}, fields["username"])
	assert.Equal(t, []string{apperr.MsgBlank}, fields["password"])
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepo)
	tokens := jwt.NewManager("secret", time.Minute, time.Hour)
	svc := newTestService(repo, cachetest.NewMemory(), tokens)

	refresh, err := tokens.GenerateRefreshToken(5, "alice")
	require.NoError(t, err)
	access, err := tokens.GenerateAccessToken(5, "alice")
	require.NoError(t, err)

	repo.On("GetByID", ctx, int64(5)).Return(newUser(t, "pw", true), nil).Once()

	newAccess, err := svc.Refresh(ctx, refresh)
	require.NoError(t, err)
	_, err = tokens.ValidateAccessToken(newAccess)
	assert.NoError(t, err)

	_, err = svc.Refresh(ctx, access)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken, "an access token cannot refresh")

	_, err = svc.Refresh(ctx, "  ")
	fields, ok := apperr.FieldsOf(err)
	require.True(t, ok)
	assert.Equal(t, []string{apperr.MsgBlank}, fields["refresh"])

	repo.On("GetByID", ctx, int64(5)).Return(newUser(t, "pw", false), nil).Once()
	_, err = svc.Refresh(ctx, refresh)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken, "inactive users lose refresh")
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepo)
	svc := newTestService(repo, cachetest.NewMemory(), jwt.NewManager("secret", time.Minute, time.Hour))

	repo.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
		return u.Username == "bob" && u.IsActive &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("long enough")) == nil
	})).Return(nil)

	u, err := svc.CreateUser(ctx, model.NewUser{Username: " bob ", Password: "long enough"})
	require.NoError(t, err)
	assert.Equal(t, int64(99), u.ID)

	_, err = svc.CreateUser(ctx, model.NewUser{Username: "carol", Password: "short"})
	fields, ok := apperr.FieldsOf(err)
	require.True(t, ok)
	assert.Contains(t, fields["password"][0], "too short")
	repo.AssertNumberOfCalls(t, "Create", 1)
}
