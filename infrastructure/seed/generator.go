// Package seed generates realistic sample records for load testing the
// incident tables.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"alerta-utec-backend/domain"
)

var sampleTitles = map[string][]string{
	"limpieza":      {"Derrame de líquido", "Basura acumulada", "Baño sin insumos"},
	"TI":            {"Proyector sin señal", "Red caída en aula", "Computadora no enciende"},
	"seguridad":     {"Puerta de emergencia bloqueada", "Persona sospechosa", "Luminaria apagada en pasillo"},
	"mantenimiento": {"Fuga de agua", "Aire acondicionado averiado", "Enchufe suelto"},
	"otro":          {"Ruido excesivo", "Objeto perdido", "Señalización caída"},
}

var sampleUbicaciones = []string{
	"Aula A-501", "Laboratorio de Química", "Biblioteca", "Cafetería",
	"Pasillo central", "Auditorio", "Sala de estudio", "Estacionamiento",
}

// Generator produces pseudo-random sample records. Seeding the source makes
// a run reproducible.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator from the given seed
func NewGenerator(seedValue int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seedValue))}
}

// Incident builds one random incident reported by correo
func (g *Generator) Incident(correo string) *domain.Incident {
	tipo := domain.TiposIncidente[g.rng.Intn(len(domain.TiposIncidente))]
	titles := sampleTitles[tipo]
	estado := domain.EstadosIncidente[g.rng.Intn(len(domain.EstadosIncidente))]

	created := time.Now().UTC().Add(-time.Duration(g.rng.Intn(90*24)) * time.Hour)
	updated := created.Add(time.Duration(g.rng.Intn(72)) * time.Hour)

	incident := &domain.Incident{
		IncidenteID:   uuid.New().String(),
		Titulo:        titles[g.rng.Intn(len(titles))],
		Descripcion:   fmt.Sprintf("Reporte generado automáticamente (%s)", tipo),
		Piso:          domain.PisoMin + g.rng.Intn(domain.PisoMax-domain.PisoMin+1),
		Ubicacion:     sampleUbicaciones[g.rng.Intn(len(sampleUbicaciones))],
		Tipo:          tipo,
		NivelUrgencia: domain.NivelesUrgencia[g.rng.Intn(len(domain.NivelesUrgencia))],
		Evidencias:    []string{},
		Estado:        estado,
		UsuarioCorreo: correo,
		CreatedAt:     created.Format(time.RFC3339),
		UpdatedAt:     updated.Format(time.RFC3339),
	}
	if g.rng.Intn(2) == 0 {
		incident.Coordenadas = &domain.Coordinates{
			Lat: -12.135 + g.rng.Float64()*0.01,
			Lng: -76.976 + g.rng.Float64()*0.01,
		}
	}
	return incident
}

// IncidentItems builds n marshaled incidents spread across the given
// reporter emails.
func (g *Generator) IncidentItems(n int, correos []string) ([]map[string]types.AttributeValue, error) {
	items := make([]map[string]types.AttributeValue, 0, n)
	for i := 0; i < n; i++ {
		correo := correos[i%len(correos)]
		item, err := attributevalue.MarshalMap(g.Incident(correo))
		if err != nil {
			return nil, fmt.Errorf("marshal sample incident: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}

// Correos builds n synthetic student emails
func Correos(n int) []string {
	correos := make([]string, n)
	for i := range correos {
		correos[i] = fmt.Sprintf("estudiante%03d@utec.edu.pe", i+1)
	}
	return correos
}
