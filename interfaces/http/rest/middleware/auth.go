// Package middleware holds the cross-cutting HTTP wrappers: bearer
// authentication, role gating and request logging.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"alerta-utec-backend/domain"
	"alerta-utec-backend/pkg/auth"
	"alerta-utec-backend/pkg/common"
	apperrors "alerta-utec-backend/pkg/errors"
)

// Authenticator verifies bearer tokens; *auth.TokenService satisfies it
type Authenticator interface {
	Verify(tokenString string) (*auth.Claims, error)
}

// RequireAuth rejects requests without a valid bearer token and places the
// authenticated identity in the request context.
func RequireAuth(tokens Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				common.RespondError(w, apperrors.NewUnauthorizedError(err.Error()))
				return
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				common.RespondError(w, apperrors.NewUnauthorizedError(err.Error()))
				return
			}

			ctx := auth.WithUser(r.Context(), auth.User{
				Correo: claims.Correo,
				Rol:    claims.Rol,
				Nombre: claims.Nombre,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles gates a route to the given roles; must run after RequireAuth
func RequireRoles(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := auth.UserFromContext(r.Context())
			if err != nil {
				common.RespondError(w, apperrors.NewUnauthorizedError("token es obligatorio"))
				return
			}
			if !allowed[user.Rol] {
				common.RespondError(w, apperrors.NewForbiddenError("No tiene permisos para esta operación"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin gates a route to the administrative roles
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireRoles(domain.RolePersonalAdmin, domain.RoleAutoridad)
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", auth.ErrMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errors.New("formato de Authorization inválido, se espera Bearer")
	}
	return parts[1], nil
}
