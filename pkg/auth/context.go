package auth

import (
	"context"
	"errors"
)

type contextKey string

const userContextKey contextKey = "authenticated_user"

// User is the authenticated identity placed in the request context by the
// auth middleware.
type User struct {
	Correo string
	Rol    string
	Nombre string
}

// WithUser returns a context carrying the authenticated user
func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext extracts the authenticated user from the context
func UserFromContext(ctx context.Context) (User, error) {
	user, ok := ctx.Value(userContextKey).(User)
	if !ok {
		return User{}, errors.New("no authenticated user in context")
	}
	return user, nil
}
