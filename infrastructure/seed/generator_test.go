package seed

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alerta-utec-backend/domain"
)

func TestGeneratedIncidentsAreValid(t *testing.T) {
	g := NewGenerator(42)

	for i := 0; i < 200; i++ {
		incident := g.Incident("estudiante001@utec.edu.pe")

		assert.NotEmpty(t, incident.IncidenteID)
		assert.NotEmpty(t, incident.Titulo)
		assert.GreaterOrEqual(t, incident.Piso, domain.PisoMin)
		assert.LessOrEqual(t, incident.Piso, domain.PisoMax)
		assert.True(t, domain.IsValidEstado(incident.Estado))
		assert.Contains(t, domain.TiposIncidente, incident.Tipo)
		assert.Contains(t, domain.NivelesUrgencia, incident.NivelUrgencia)
	}
}

func TestIncidentItemsRoundTrip(t *testing.T) {
	g := NewGenerator(7)
	correos := Correos(5)

	items, err := g.IncidentItems(30, correos)
	require.NoError(t, err)
	require.Len(t, items, 30)

	var incident domain.Incident
	require.NoError(t, attributevalue.UnmarshalMap(items[0], &incident))
	assert.Equal(t, correos[0], incident.UsuarioCorreo)
}

func TestCorreosAreUnique(t *testing.T) {
	correos := Correos(50)
	seen := make(map[string]bool)
	for _, correo := range correos {
		assert.False(t, seen[correo])
		seen[correo] = true
	}
}
