// Package handlers contains the REST endpoints. Each handler owns its
// request/response types; persistence and side effects come in through
// narrow interfaces so tests run against fakes.
package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"alerta-utec-backend/domain"
	"alerta-utec-backend/pkg/auth"
	"alerta-utec-backend/pkg/common"
	apperrors "alerta-utec-backend/pkg/errors"
	"alerta-utec-backend/pkg/utils"
)

const maxBodyBytes = 1 << 20

// UserStore is the persistence surface the user endpoints need
type UserStore interface {
	Get(ctx context.Context, correo string) (*domain.User, error)
	Exists(ctx context.Context, correo string) (bool, error)
	Save(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, correo string) error
}

// TokenIssuer signs tokens for authenticated identities
type TokenIssuer interface {
	Issue(correo, rol, nombre string) (string, error)
}

// WelcomeMailer sends the registration greeting, best-effort
type WelcomeMailer interface {
	TrySendWelcome(correo, nombre string)
}

// Auditor records activity in the logs table, best-effort
type Auditor interface {
	TryAppend(ctx context.Context, servicio, nivel, mensaje, correo string)
}

// UserHandler serves registration, login and account management
type UserHandler struct {
	users  UserStore
	tokens TokenIssuer
	mailer WelcomeMailer
	audit  Auditor
	logger *zap.Logger
}

// NewUserHandler creates a user handler. mailer may be nil when mail is not
// configured.
func NewUserHandler(users UserStore, tokens TokenIssuer, mailer WelcomeMailer, audit Auditor, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, tokens: tokens, mailer: mailer, audit: audit, logger: logger}
}

type registerRequest struct {
	Correo     string `json:"correo" validate:"required,email"`
	Nombre     string `json:"nombre" validate:"required"`
	Contrasena string `json:"contrasena" validate:"required,min=6"`
	Rol        string `json:"rol" validate:"required"`
}

type authResponse struct {
	Message string            `json:"message"`
	Token   string            `json:"token"`
	Usuario domain.PublicUser `json:"usuario"`
}

// Register creates an account, issues a token and queues the welcome mail
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, apperrors.NewValidationError("Cuerpo JSON inválido"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, apperrors.NewValidationError(err.Error()))
		return
	}

	rol := domain.TranslateLegacyRole(req.Rol)
	if !domain.IsValidRole(rol) {
		common.RespondError(w, apperrors.NewValidationError("Valor de 'rol' no válido"))
		return
	}

	exists, err := h.users.Exists(r.Context(), req.Correo)
	if err != nil {
		h.logger.Error("register lookup failed", zap.Error(err))
		common.RespondError(w, err)
		return
	}
	if exists {
		common.RespondError(w, apperrors.NewConflictError("El usuario ya existe"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Contrasena), bcrypt.DefaultCost)
	if err != nil {
		common.RespondError(w, apperrors.NewInternalError("No se pudo procesar la contraseña"))
		return
	}

	user := &domain.User{
		UsuarioID:  uuid.New().String(),
		Correo:     req.Correo,
		Nombre:     req.Nombre,
		Contrasena: string(hash),
		Rol:        rol,
	}
	if err := h.users.Save(r.Context(), user); err != nil {
		h.logger.Error("register save failed", zap.Error(err))
		common.RespondError(w, err)
		return
	}

	if h.mailer != nil {
		h.mailer.TrySendWelcome(user.Correo, user.Nombre)
	}
	h.audit.TryAppend(r.Context(), "usuarios", "INFO", "usuario registrado", user.Correo)

	token, err := h.tokens.Issue(user.Correo, user.Rol, user.Nombre)
	if err != nil {
		common.RespondError(w, apperrors.NewInternalError("No se pudo emitir el token"))
		return
	}
	common.RespondJSON(w, http.StatusCreated, authResponse{
		Message: "Usuario registrado con éxito",
		Token:   token,
		Usuario: user.Public(),
	})
}

type loginRequest struct {
	Correo     string `json:"correo" validate:"required,email"`
	Contrasena string `json:"contrasena" validate:"required"`
}

// Login verifies credentials and issues a token. Missing users and wrong
// passwords are indistinguishable in the response.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, apperrors.NewValidationError("Cuerpo JSON inválido"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, apperrors.NewValidationError(err.Error()))
		return
	}

	user, err := h.users.Get(r.Context(), req.Correo)
	if err != nil {
		common.RespondError(w, apperrors.NewUnauthorizedError("Credenciales inválidas"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Contrasena), []byte(req.Contrasena)); err != nil {
		common.RespondError(w, apperrors.NewUnauthorizedError("Credenciales inválidas"))
		return
	}

	token, err := h.tokens.Issue(user.Correo, user.Rol, user.Nombre)
	if err != nil {
		common.RespondError(w, apperrors.NewInternalError("No se pudo emitir el token"))
		return
	}
	h.audit.TryAppend(r.Context(), "usuarios", "INFO", "inicio de sesión", user.Correo)

	common.RespondJSON(w, http.StatusOK, authResponse{
		Message: "Inicio de sesión exitoso",
		Token:   token,
		Usuario: user.Public(),
	})
}

// Me returns the authenticated user's account
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.UserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, apperrors.NewUnauthorizedError("token es obligatorio"))
		return
	}

	user, err := h.users.Get(r.Context(), identity.Correo)
	if err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, user.Public())
}

type updateUserRequest struct {
	Nombre     *string `json:"nombre"`
	Contrasena *string `json:"contrasena"`
}

// Update changes the authenticated user's nombre and/or contrasena
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.UserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, apperrors.NewUnauthorizedError("token es obligatorio"))
		return
	}

	var req updateUserRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, apperrors.NewValidationError("Cuerpo JSON inválido"))
		return
	}
	if req.Nombre == nil && req.Contrasena == nil {
		common.RespondError(w, apperrors.NewValidationError("Nada que actualizar: se acepta nombre y/o contrasena"))
		return
	}

	user, err := h.users.Get(r.Context(), identity.Correo)
	if err != nil {
		common.RespondError(w, err)
		return
	}

	if req.Nombre != nil {
		if *req.Nombre == "" {
			common.RespondError(w, apperrors.NewValidationError("Falta el campo obligatorio: nombre"))
			return
		}
		user.Nombre = *req.Nombre
	}
	if req.Contrasena != nil {
		if len(*req.Contrasena) < 6 {
			common.RespondError(w, apperrors.NewValidationError("Valor de 'contrasena' no válido"))
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Contrasena), bcrypt.DefaultCost)
		if err != nil {
			common.RespondError(w, apperrors.NewInternalError("No se pudo procesar la contraseña"))
			return
		}
		user.Contrasena = string(hash)
	}

	if err := h.users.Save(r.Context(), user); err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Usuario actualizado con éxito",
		"usuario": user.Public(),
	})
}

// Delete removes an account. Users delete themselves; autoridad deletes
// anyone.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.UserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, apperrors.NewUnauthorizedError("token es obligatorio"))
		return
	}

	correo := chi.URLParam(r, "correo")
	if correo == "" {
		correo = identity.Correo
	}
	if correo != identity.Correo && identity.Rol != domain.RoleAutoridad {
		common.RespondError(w, apperrors.NewForbiddenError("Solo autoridad puede eliminar otras cuentas"))
		return
	}

	if _, err := h.users.Get(r.Context(), correo); err != nil {
		common.RespondError(w, err)
		return
	}
	if err := h.users.Delete(r.Context(), correo); err != nil {
		common.RespondError(w, err)
		return
	}

	h.audit.TryAppend(r.Context(), "usuarios", "INFO", "usuario eliminado", correo)
	common.RespondMessage(w, http.StatusOK, "Usuario eliminado con éxito")
}
