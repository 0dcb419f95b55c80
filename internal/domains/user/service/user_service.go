package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"bookshelf-backend/internal/domains/user/model"
	"bookshelf-backend/internal/domains/user/repository"
	"bookshelf-backend/internal/shared/apperr"
	"bookshelf-backend/pkg/cache"
	"bookshelf-backend/pkg/logger"
)

const loginFailuresKeyPrefix = "login_failures:"

// LockoutPolicy throttles repeated failed logins per username.
type LockoutPolicy struct {
	MaxFailures int
	Window      time.Duration
}

type userService struct {
	repo    repository.RepositoryInterface
	tokens  TokenIssuer
	cache   cache.Cache
	lockout LockoutPolicy
}

func NewService(repo repository.RepositoryInterface, tokens TokenIssuer, c cache.Cache, lockout LockoutPolicy) ServiceInterface {
	return &userService{repo: repo, tokens: tokens, cache: c, lockout: lockout}
}

func (s *userService) Login(ctx context.Context, creds model.Credentials) (*model.TokenPair, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	key := loginFailuresKeyPrefix + strings.ToLower(creds.Username)
	if s.lockedOut(ctx, key) {
		return nil, apperr.ErrTooManyRequests
	}

	u, err := s.repo.FindByUsername(ctx, creds.Username)
	if err != nil {
		if apperr.IsNotFound(err) {
			s.recordFailure(ctx, key)
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, err
	}

	// Inactive accounts and wrong passwords are indistinguishable to the caller.
	if !u.IsActive || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(creds.Password)) != nil {
		s.recordFailure(ctx, key)
		return nil, apperr.ErrInvalidCredentials
	}

	access, err := s.tokens.GenerateAccessToken(u.ID, u.Username)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(u.ID, u.Username)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.cache.Delete(ctx, key); err != nil {
		logger.Warn("Failed to reset login failures", map[string]interface{}{"error": err.Error()})
	}
	if err := s.repo.UpdateLastLogin(ctx, u.ID); err != nil {
		logger.Warn("Failed to update last login", map[string]interface{}{"user_id": u.ID, "error": err.Error()})
	}

	logger.Info("User logged in", map[string]interface{}{"user_id": u.ID})
	return &model.TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *userService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return "", apperr.Validation("refresh", apperr.MsgBlank)
	}

	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", apperr.ErrInvalidToken
	}

	u, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return "", apperr.ErrInvalidToken
		}
		return "", err
	}
	if !u.IsActive {
		return "", apperr.ErrInvalidToken
	}

	access, err := s.tokens.GenerateAccessToken(u.ID, u.Username)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return access, nil
}

func (s *userService) CreateUser(ctx context.Context, in model.NewUser) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := in.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{Username: in.Username, PasswordHash: string(hash), IsActive: true}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	logger.Info("User created", map[string]interface{}{"user_id": u.ID, "username": u.Username})
	return u, nil
}

func (s *userService) lockedOut(ctx context.Context, key string) bool {
	if s.lockout.MaxFailures <= 0 {
		return false
	}
	var failures int64
	found, err := s.cache.Get(ctx, key, &failures)
	if err != nil || !found {
		return false
	}
	return failures >= int64(s.lockout.MaxFailures)
}

func (s *userService) recordFailure(ctx context.Context, key string) {
	if s.lockout.MaxFailures <= 0 {
		return
	}
	n, err := s.cache.Increment(ctx, key)
	if err != nil {
		logger.Warn("Failed to record login failure", map[string]interface{}{"error": err.Error()})
		return
	}
	if n == 1 {
		if err := s.cache.Expire(ctx, key, s.lockout.Window); err != nil {
			logger.Warn("Failed to set login failure window", map[string]interface{}{"error": err.Error()})
		}
	}
}
