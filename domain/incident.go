package domain

import (
	"fmt"
)

// Incident states
const (
	EstadoReportado  = "reportado"
	EstadoEnProgreso = "en_progreso"
	EstadoResuelto   = "resuelto"
)

// Floor range of the campus building
const (
	PisoMin = -2
	PisoMax = 11
)

var (
	TiposIncidente   = []string{"limpieza", "TI", "seguridad", "mantenimiento", "otro"}
	NivelesUrgencia  = []string{"bajo", "medio", "alto", "critico"}
	EstadosIncidente = []string{EstadoReportado, EstadoEnProgreso, EstadoResuelto}

	// States an administrator may move an incident into. Transitions are
	// not forced to be forward-only; an admin can set resuelto directly.
	EstadosAdmin = []string{EstadoEnProgreso, EstadoResuelto}
)

// Coordinates is an optional geographic location attached to an incident
type Coordinates struct {
	Lat float64 `json:"lat" dynamodbav:"lat"`
	Lng float64 `json:"lng" dynamodbav:"lng"`
}

// Incident is a reported campus incident. UsuarioCorreo is assigned at
// creation and never changes; every other field is replaced wholesale on
// update (last full write wins, no version check).
type Incident struct {
	IncidenteID      string       `json:"incidente_id" dynamodbav:"incidente_id"`
	Titulo           string       `json:"titulo" dynamodbav:"titulo"`
	Descripcion      string       `json:"descripcion" dynamodbav:"descripcion"`
	Piso             int          `json:"piso" dynamodbav:"piso"`
	Ubicacion        string       `json:"ubicacion" dynamodbav:"ubicacion"`
	Tipo             string       `json:"tipo" dynamodbav:"tipo"`
	NivelUrgencia    string       `json:"nivel_urgencia" dynamodbav:"nivel_urgencia"`
	Evidencias       []string     `json:"evidencias" dynamodbav:"evidencias"`
	Estado           string       `json:"estado" dynamodbav:"estado"`
	UsuarioCorreo    string       `json:"usuario_correo" dynamodbav:"usuario_correo"`
	EmpleadoAsignado string       `json:"empleado_asignado,omitempty" dynamodbav:"empleado_asignado,omitempty"`
	Coordenadas      *Coordinates `json:"coordenadas,omitempty" dynamodbav:"coordenadas,omitempty"`
	CreatedAt        string       `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt        string       `json:"updated_at" dynamodbav:"updated_at"`
}

// IncidentDraft carries the caller-supplied fields of a new or updated
// incident, before identifiers and timestamps are assigned.
type IncidentDraft struct {
	Titulo        *string      `json:"titulo"`
	Descripcion   *string      `json:"descripcion"`
	Piso          *int         `json:"piso"`
	Ubicacion     *string      `json:"ubicacion"`
	Tipo          *string      `json:"tipo"`
	NivelUrgencia *string      `json:"nivel_urgencia"`
	Coordenadas   *Coordinates `json:"coordenadas"`
}

// Validate checks required fields, enums and the floor range, returning a
// message that names the offending field.
func (d IncidentDraft) Validate() error {
	required := []struct {
		name string
		ok   bool
	}{
		{"titulo", d.Titulo != nil && *d.Titulo != ""},
		{"descripcion", d.Descripcion != nil && *d.Descripcion != ""},
		{"piso", d.Piso != nil},
		{"ubicacion", d.Ubicacion != nil && *d.Ubicacion != ""},
		{"tipo", d.Tipo != nil},
		{"nivel_urgencia", d.NivelUrgencia != nil},
	}
	for _, f := range required {
		if !f.ok {
			return fmt.Errorf("Falta el campo obligatorio: %s", f.name)
		}
	}

	if !contains(TiposIncidente, *d.Tipo) {
		return fmt.Errorf("Valor de 'tipo' no válido")
	}
	if !contains(NivelesUrgencia, *d.NivelUrgencia) {
		return fmt.Errorf("Valor de 'nivel_urgencia' no válido")
	}
	if *d.Piso < PisoMin || *d.Piso > PisoMax {
		return fmt.Errorf("Valor de 'piso' debe estar entre %d y %d", PisoMin, PisoMax)
	}
	return nil
}

// IsValidEstado reports whether estado is a known incident state
func IsValidEstado(estado string) bool {
	return contains(EstadosIncidente, estado)
}

// IsAdminEstado reports whether estado is one an administrator may set
func IsAdminEstado(estado string) bool {
	return contains(EstadosAdmin, estado)
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// RestrictedView is the reduced projection served to estudiante listings:
// no identifiers, contact, free text or location internals.
type RestrictedView struct {
	Titulo        string `json:"titulo"`
	Piso          int    `json:"piso"`
	Tipo          string `json:"tipo"`
	NivelUrgencia string `json:"nivel_urgencia"`
	Estado        string `json:"estado"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// Restricted projects the incident into its estudiante-visible form
func (i Incident) Restricted() RestrictedView {
	return RestrictedView{
		Titulo:        i.Titulo,
		Piso:          i.Piso,
		Tipo:          i.Tipo,
		NivelUrgencia: i.NivelUrgencia,
		Estado:        i.Estado,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}
