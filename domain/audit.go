package domain

// AuditRecord is one row of the service activity log, keyed by registro_id
// with marca_tiempo as sort key.
type AuditRecord struct {
	RegistroID  string `json:"registro_id" dynamodbav:"registro_id"`
	MarcaTiempo string `json:"marca_tiempo" dynamodbav:"marca_tiempo"`
	Servicio    string `json:"servicio" dynamodbav:"servicio"`
	Nivel       string `json:"nivel" dynamodbav:"nivel"`
	Mensaje     string `json:"mensaje" dynamodbav:"mensaje"`
	Correo      string `json:"correo,omitempty" dynamodbav:"correo,omitempty"`
}
