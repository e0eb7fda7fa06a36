package domain

// Role names are the canonical vocabulary; older clients used english names
// ("user"/"admin") which are translated at the token boundary.
const (
	RoleEstudiante    = "estudiante"
	RolePersonalAdmin = "personal_administrativo"
	RoleAutoridad     = "autoridad"
)

// Roles lists every valid role
var Roles = []string{RoleEstudiante, RolePersonalAdmin, RoleAutoridad}

// IsValidRole reports whether rol is one of the three known roles
func IsValidRole(rol string) bool {
	switch rol {
	case RoleEstudiante, RolePersonalAdmin, RoleAutoridad:
		return true
	}
	return false
}

// IsAdminRole reports whether rol may perform administrative operations
func IsAdminRole(rol string) bool {
	return rol == RolePersonalAdmin || rol == RoleAutoridad
}

// TranslateLegacyRole maps the retired english role scheme onto the
// canonical one. Unknown values pass through so validation rejects them
// with their original name.
func TranslateLegacyRole(rol string) string {
	switch rol {
	case "user", "student":
		return RoleEstudiante
	case "admin":
		return RolePersonalAdmin
	default:
		return rol
	}
}
