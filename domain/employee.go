package domain

// Maintenance staff areas and states
var (
	TiposArea       = []string{"mantenimiento", "electricidad", "limpieza", "seguridad", "ti", "logistica", "otros"}
	EstadosEmpleado = []string{"activo", "inactivo"}
)

// Employee is a maintenance staff member incidents can be assigned to
type Employee struct {
	EmpleadoID string `json:"empleado_id" dynamodbav:"empleado_id"`
	Nombre     string `json:"nombre" dynamodbav:"nombre"`
	TipoArea   string `json:"tipo_area" dynamodbav:"tipo_area"`
	Estado     string `json:"estado" dynamodbav:"estado"`
	Contacto   string `json:"contacto,omitempty" dynamodbav:"contacto,omitempty"`
}

// IsValidArea reports whether area is a known tipo_area
func IsValidArea(area string) bool {
	return contains(TiposArea, area)
}

// IsValidEmployeeState reports whether estado is activo or inactivo
func IsValidEmployeeState(estado string) bool {
	return contains(EstadosEmpleado, estado)
}
