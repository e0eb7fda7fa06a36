package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"alerta-utec-backend/domain"
)

var (
	ErrMissingToken     = errors.New("token es obligatorio")
	ErrExpiredToken     = errors.New("token expirado")
	ErrInvalidToken     = errors.New("token inválido")
	ErrInvalidTokenRole = errors.New("rol del token inválido")
)

// Claims is the identity carried inside a bearer token
type Claims struct {
	Correo string `json:"correo"`
	Rol    string `json:"rol"`
	// Legacy tokens were issued with the claim key "role"; accepted on
	// verification and translated to Rol at this boundary only.
	LegacyRol string `json:"role,omitempty"`
	Nombre    string `json:"nombre"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens
type TokenService struct {
	secret      []byte
	expiryHours int
}

// NewTokenService creates a token service. The secret is required; expiry
// defaults to 24 hours when non-positive.
func NewTokenService(secret string, expiryHours int) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if expiryHours <= 0 {
		expiryHours = 24
	}
	return &TokenService{secret: []byte(secret), expiryHours: expiryHours}, nil
}

// Issue signs a token for the given identity
func (s *TokenService) Issue(correo, rol, nombre string) (string, error) {
	now := time.Now()
	claims := Claims{
		Correo: correo,
		Rol:    rol,
		Nombre: nombre,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.expiryHours) * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks signature and expiry and returns the normalized claims.
// A structurally valid token carrying a role outside the known set is
// rejected as invalid, not just unauthorized.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Rol == "" && claims.LegacyRol != "" {
		claims.Rol = domain.TranslateLegacyRole(claims.LegacyRol)
	}
	claims.LegacyRol = ""

	if !domain.IsValidRole(claims.Rol) {
		return nil, ErrInvalidTokenRole
	}
	return claims, nil
}
