package service

import (
	"context"

	"bookshelf-backend/internal/domains/user/model"
	"bookshelf-backend/pkg/jwt"
)

type ServiceInterface interface {
	Login(ctx context.Context, creds model.Credentials) (*model.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	CreateUser(ctx context.Context, in model.NewUser) (*model.User, error)
}

// TokenIssuer is the part of the JWT manager the service needs.
type TokenIssuer interface {
	GenerateAccessToken(userID int64, username string) (string, error)
	GenerateRefreshToken(userID int64, username string) (string, error)
	ValidateRefreshToken(token string) (*jwt.Claims, error)
}
