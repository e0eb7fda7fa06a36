package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() IncidentDraft {
	titulo := "Fuga de agua"
	descripcion := "Fuga en el baño del tercer piso"
	piso := 3
	ubicacion := "Baño de hombres"
	tipo := "mantenimiento"
	urgencia := "alto"
	return IncidentDraft{
		Titulo:        &titulo,
		Descripcion:   &descripcion,
		Piso:          &piso,
		Ubicacion:     &ubicacion,
		Tipo:          &tipo,
		NivelUrgencia: &urgencia,
	}
}

func TestDraftValidateAccepts(t *testing.T) {
	assert.NoError(t, validDraft().Validate())
}

func TestDraftValidateRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*IncidentDraft)
		wantMsg string
	}{
		{
			name:    "missing titulo",
			mutate:  func(d *IncidentDraft) { d.Titulo = nil },
			wantMsg: "Falta el campo obligatorio: titulo",
		},
		{
			name: "empty descripcion",
			mutate: func(d *IncidentDraft) {
				empty := ""
				d.Descripcion = &empty
			},
			wantMsg: "Falta el campo obligatorio: descripcion",
		},
		{
			name:    "missing piso",
			mutate:  func(d *IncidentDraft) { d.Piso = nil },
			wantMsg: "Falta el campo obligatorio: piso",
		},
		{
			name: "unknown tipo",
			mutate: func(d *IncidentDraft) {
				bad := "hack"
				d.Tipo = &bad
			},
			wantMsg: "Valor de 'tipo' no válido",
		},
		{
			name: "unknown urgencia",
			mutate: func(d *IncidentDraft) {
				bad := "urgentisimo"
				d.NivelUrgencia = &bad
			},
			wantMsg: "Valor de 'nivel_urgencia' no válido",
		},
		{
			name: "piso above range",
			mutate: func(d *IncidentDraft) {
				piso := 12
				d.Piso = &piso
			},
			wantMsg: "Valor de 'piso' debe estar entre -2 y 11",
		},
		{
			name: "piso below range",
			mutate: func(d *IncidentDraft) {
				piso := -3
				d.Piso = &piso
			},
			wantMsg: "Valor de 'piso' debe estar entre -2 y 11",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			tt.mutate(&draft)
			err := draft.Validate()
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestDraftAcceptsFloorBoundaries(t *testing.T) {
	for _, piso := range []int{PisoMin, 0, PisoMax} {
		draft := validDraft()
		p := piso
		draft.Piso = &p
		assert.NoError(t, draft.Validate(), "piso %d", piso)
	}
}

func TestRestrictedProjectionDropsSensitiveFields(t *testing.T) {
	incident := Incident{
		IncidenteID:   "inc-1",
		Titulo:        "Fuga de agua",
		Descripcion:   "detalle privado",
		Piso:          3,
		Ubicacion:     "Baño",
		Tipo:          "mantenimiento",
		NivelUrgencia: "alto",
		Estado:        EstadoReportado,
		UsuarioCorreo: "alguien@utec.edu.pe",
		CreatedAt:     "2026-08-01T10:00:00Z",
		UpdatedAt:     "2026-08-01T11:00:00Z",
	}

	view := incident.Restricted()
	assert.Equal(t, incident.Titulo, view.Titulo)
	assert.Equal(t, incident.Piso, view.Piso)
	assert.Equal(t, incident.Estado, view.Estado)
	// The view type itself has no room for the sensitive fields; this is a
	// compile-time guarantee, the assertions just pin the copied values.
	assert.Equal(t, incident.CreatedAt, view.CreatedAt)
}

func TestEstadoSets(t *testing.T) {
	assert.True(t, IsValidEstado(EstadoReportado))
	assert.True(t, IsAdminEstado(EstadoEnProgreso))
	assert.True(t, IsAdminEstado(EstadoResuelto))
	assert.False(t, IsAdminEstado(EstadoReportado))
	assert.False(t, IsValidEstado("cerrado"))
}

func TestRoleTranslation(t *testing.T) {
	assert.Equal(t, RoleEstudiante, TranslateLegacyRole("user"))
	assert.Equal(t, RoleEstudiante, TranslateLegacyRole("student"))
	assert.Equal(t, RolePersonalAdmin, TranslateLegacyRole("admin"))
	assert.Equal(t, RoleAutoridad, TranslateLegacyRole(RoleAutoridad))
	assert.Equal(t, "desconocido", TranslateLegacyRole("desconocido"))
}
