package domain

// User is a platform account keyed by correo
type User struct {
	UsuarioID  string `json:"usuario_id" dynamodbav:"usuario_id"`
	Correo     string `json:"correo" dynamodbav:"correo"`
	Nombre     string `json:"nombre" dynamodbav:"nombre"`
	Contrasena string `json:"-" dynamodbav:"contrasena"`
	Rol        string `json:"rol" dynamodbav:"rol"`
}

// PublicUser is the wire form of a user, without credentials
type PublicUser struct {
	UsuarioID string `json:"usuario_id,omitempty"`
	Correo    string `json:"correo"`
	Nombre    string `json:"nombre"`
	Rol       string `json:"rol"`
}

// Public strips the password for responses
func (u User) Public() PublicUser {
	return PublicUser{UsuarioID: u.UsuarioID, Correo: u.Correo, Nombre: u.Nombre, Rol: u.Rol}
}
