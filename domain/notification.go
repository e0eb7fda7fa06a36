package domain

import "fmt"

// Notification event types
const (
	NotifIncidenteCreado      = "incidente_creado"
	NotifIncidenteActualizado = "incidente_actualizado"
	NotifIncidenteResuelto    = "incidente_resuelto"
)

var notificationTypes = []string{
	NotifIncidenteActualizado,
	NotifIncidenteCreado,
	NotifIncidenteResuelto,
}

// Notification is the broadcast payload pushed to live connections.
// Destinatarios narrows delivery to specific user emails; empty means all
// connected clients.
type Notification struct {
	Tipo          string   `json:"tipo"`
	Titulo        string   `json:"titulo"`
	Mensaje       string   `json:"mensaje"`
	IncidenteID   string   `json:"incidente_id"`
	Destinatarios []string `json:"destinatarios,omitempty"`
}

// Validate checks required fields and the event type
func (n Notification) Validate() error {
	if n.Tipo == "" || n.Titulo == "" || n.Mensaje == "" || n.IncidenteID == "" {
		return fmt.Errorf("tipo, titulo, mensaje e incidente_id son obligatorios")
	}
	if !contains(notificationTypes, n.Tipo) {
		return fmt.Errorf("tipo debe ser uno de: incidente_actualizado, incidente_creado, incidente_resuelto")
	}
	return nil
}
