package identity

import (
	"context"

	"bookshelf-backend/internal/shared/apperr"
)

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID   int64
	Username string
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}

// Require fails with apperr.ErrUnauthorized for anonymous callers.
func Require(ctx context.Context) error {
	if _, ok := FromContext(ctx); !ok {
		return apperr.ErrUnauthorized
	}
	return nil
}
