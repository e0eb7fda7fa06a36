package domain

// Connection is a live WebSocket channel membership row. Deleted on
// disconnect or when a push reports the channel gone; the table's native
// TTL covers abandoned rows.
type Connection struct {
	ConexionID    string `json:"conexion_id" dynamodbav:"conexion_id"`
	UsuarioCorreo string `json:"usuario_correo" dynamodbav:"usuario_correo"`
	Rol           string `json:"rol" dynamodbav:"rol"`
	ConnectedAt   string `json:"fecha_conexion" dynamodbav:"fecha_conexion"`
	TTL           int64  `json:"ttl,omitempty" dynamodbav:"ttl,omitempty"`
}
