package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alerta-utec-backend/domain"
	"alerta-utec-backend/infrastructure/persistence/dynamodb"
	"alerta-utec-backend/pkg/auth"
	"alerta-utec-backend/pkg/common"
	apperrors "alerta-utec-backend/pkg/errors"
)

// IncidentStore is the persistence surface the incident endpoints need
type IncidentStore interface {
	Save(ctx context.Context, incident *domain.Incident) error
	Get(ctx context.Context, incidenteID string) (*domain.Incident, error)
	List(ctx context.Context, req common.PageRequest, ownerCorreo string) (*dynamodb.IncidentPage, error)
}

// EvidenceUploader stores base64 evidence payloads and returns object keys
type EvidenceUploader interface {
	UploadAll(ctx context.Context, incidenteID string, payloads []string) ([]string, error)
}

// Notifier queues a notification for broadcast, best-effort from the
// handler's point of view.
type Notifier interface {
	Notify(ctx context.Context, notification *domain.Notification) error
}

// IncidentHandler serves incident reporting and management
type IncidentHandler struct {
	incidents IncidentStore
	evidence  EvidenceUploader
	notifier  Notifier
	audit     Auditor
	logger    *zap.Logger
}

// NewIncidentHandler creates an incident handler
func NewIncidentHandler(incidents IncidentStore, evidence EvidenceUploader, notifier Notifier, audit Auditor, logger *zap.Logger) *IncidentHandler {
	return &IncidentHandler{
		incidents: incidents,
		evidence:  evidence,
		notifier:  notifier,
		audit:     audit,
		logger:    logger,
	}
}

type incidentRequest struct {
	domain.IncidentDraft
	// Evidencias carries base64 image payloads, uploaded to S3 before the
	// record is written.
	Evidencias []string `json:"evidencias"`
}

// Create registers a new incident in estado reportado
func (h *IncidentHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.UserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, apperrors.NewUnauthorizedError("token es obligatorio"))
		return
	}
	if identity.Rol != domain.RoleEstudiante && identity.Rol != domain.RolePersonalAdmin {
		common.RespondError(w, apperrors.NewForbiddenError("Solo estudiantes y personal administrativo pueden reportar incidentes"))
		return
	}

	var req incidentRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, apperrors.NewValidationError("Cuerpo JSON inválido"))
		return
	}
	if err := req.Validate(); err != nil {
		common.RespondError(w, apperrors.NewValidationError(err.Error()))
		return
	}

	now := time.Now().UTC().Format(time.RFC3339)
	incident := &domain.Incident{
		IncidenteID:   uuid.New().String(),
		Titulo:        *req.Titulo,
		Descripcion:   *req.Descripcion,
		Piso:          *req.Piso,
		Ubicacion:     *req.Ubicacion,
		Tipo:          *req.Tipo,
		NivelUrgencia: *req.NivelUrgencia,
		Evidencias:    []string{},
		Estado:        domain.EstadoReportado,
		UsuarioCorreo: identity.Correo,
		Coordenadas:   req.Coordenadas,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if len(req.Evidencias) > 0 {
		keys, err := h.evidence.UploadAll(r.Context(), incident.IncidenteID, req.Evidencias)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		incident.Evidencias = keys
	}

	if err := h.incidents.Save(r.Context(), incident); err != nil {
		h.logger.Error("incident save failed", zap.Error(err))
		common.RespondError(w, err)
		return
	}

	h.dispatchNotification(r.Context(), &domain.Notification{
		Tipo:        domain.NotifIncidenteCreado,
		Titulo:      "Nuevo incidente",
		Mensaje:     fmt.Sprintf("%s (piso %d)", incident.Titulo, incident.Piso),
		IncidenteID: incident.IncidenteID,
	})
	h.audit.TryAppend(r.Context(), "incidentes", "INFO", "incidente creado "+incident.IncidenteID, identity.Correo)

	common.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Incidente reportado con éxito",
		"incidente": incident,
	})
}

// Get returns one incident. Estudiantes only see their own reports.
func (h *IncidentHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.UserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, apperrors.NewUnauthorizedError("token es obligatorio"))
		return
	}

	incident, err := h.incidents.Get(r.Context(), chi.URLParam(r, "incidenteID"))
	if err != nil {
		common.RespondError(w, err)
		return
	}
	if !domain.IsAdminRole(identity.Rol) && incident.UsuarioCorreo != identity.Correo {
		common.RespondError(w, apperrors.NewForbiddenError("No tiene permisos para ver este incidente"))
		return
	}
	common.RespondJSON(w, http.StatusOK, incident)
}

// List returns one page of incidents. Estudiantes get only their own
// reports, in the reduced projection; administrative roles get the full
// records of everyone.
func (h *IncidentHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.UserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, apperrors.NewUnauthorizedError("token es obligatorio"))
		return
	}

	req := pageRequestFromQuery(r)
	owner := ""
	if !domain.IsAdminRole(identity.Rol) {
		owner = identity.Correo
	}

	page, err := h.incidents.List(r.Context(), req, owner)
	if err != nil {
		common.RespondError(w, err)
		return
	}

	var contents interface{}
	if domain.IsAdminRole(identity.Rol) {
		contents = page.Incidents
	} else {
		restricted := make([]domain.RestrictedView, 0, len(page.Incidents))
		for _, incident := range page.Incidents {
			restricted = append(restricted, incident.Restricted())
		}
		contents = restricted
	}

	common.RespondJSON(w, http.StatusOK, common.Page{
		Contents:      contents,
		PageNumber:    page.Page,
		Size:          page.Size,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
	})
}

type adminUpdateRequest struct {
	Estado           string  `json:"estado"`
	EmpleadoAsignado *string `json:"empleado_asignado"`
}

// AdminUpdate moves an incident between estados and optionally assigns an
// employee. Routing gates this to administrative roles.
func (h *IncidentHandler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.UserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, apperrors.NewUnauthorizedError("token es obligatorio"))
		return
	}

	var req adminUpdateRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, apperrors.NewValidationError("Cuerpo JSON inválido"))
		return
	}
	if !domain.IsAdminEstado(req.Estado) {
		common.RespondError(w, apperrors.NewValidationError("Valor de 'estado' no válido: se acepta en_progreso o resuelto"))
		return
	}

	incident, err := h.incidents.Get(r.Context(), chi.URLParam(r, "incidenteID"))
	if err != nil {
		common.RespondError(w, err)
		return
	}

	incident.Estado = req.Estado
	if req.EmpleadoAsignado != nil {
		incident.EmpleadoAsignado = *req.EmpleadoAsignado
	}
	incident.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	if err := h.incidents.Save(r.Context(), incident); err != nil {
		common.RespondError(w, err)
		return
	}

	tipo := domain.NotifIncidenteActualizado
	if req.Estado == domain.EstadoResuelto {
		tipo = domain.NotifIncidenteResuelto
	}
	h.dispatchNotification(r.Context(), &domain.Notification{
		Tipo:          tipo,
		Titulo:        "Incidente actualizado",
		Mensaje:       fmt.Sprintf("%s pasó a %s", incident.Titulo, incident.Estado),
		IncidenteID:   incident.IncidenteID,
		Destinatarios: []string{incident.UsuarioCorreo},
	})
	h.audit.TryAppend(r.Context(), "incidentes", "INFO",
		fmt.Sprintf("incidente %s → %s", incident.IncidenteID, incident.Estado), identity.Correo)

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Incidente actualizado con éxito",
		"incidente": incident,
	})
}

// Update lets the reporter rewrite their own incident. The write replaces
// the caller-supplied fields wholesale; estado, reporter and created_at are
// preserved.
func (h *IncidentHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.UserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, apperrors.NewUnauthorizedError("token es obligatorio"))
		return
	}

	incident, err := h.incidents.Get(r.Context(), chi.URLParam(r, "incidenteID"))
	if err != nil {
		common.RespondError(w, err)
		return
	}
	if incident.UsuarioCorreo != identity.Correo {
		common.RespondError(w, apperrors.NewForbiddenError("Solo el reportante puede modificar este incidente"))
		return
	}

	var req incidentRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, apperrors.NewValidationError("Cuerpo JSON inválido"))
		return
	}
	if err := req.Validate(); err != nil {
		common.RespondError(w, apperrors.NewValidationError(err.Error()))
		return
	}

	incident.Titulo = *req.Titulo
	incident.Descripcion = *req.Descripcion
	incident.Piso = *req.Piso
	incident.Ubicacion = *req.Ubicacion
	incident.Tipo = *req.Tipo
	incident.NivelUrgencia = *req.NivelUrgencia
	incident.Coordenadas = req.Coordenadas
	incident.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	if len(req.Evidencias) > 0 {
		keys, err := h.evidence.UploadAll(r.Context(), incident.IncidenteID, req.Evidencias)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		incident.Evidencias = append(incident.Evidencias, keys...)
	}

	if err := h.incidents.Save(r.Context(), incident); err != nil {
		common.RespondError(w, err)
		return
	}

	h.dispatchNotification(r.Context(), &domain.Notification{
		Tipo:        domain.NotifIncidenteActualizado,
		Titulo:      "Incidente actualizado",
		Mensaje:     incident.Titulo,
		IncidenteID: incident.IncidenteID,
	})
	h.audit.TryAppend(r.Context(), "incidentes", "INFO", "incidente editado "+incident.IncidenteID, identity.Correo)

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Incidente actualizado con éxito",
		"incidente": incident,
	})
}

// dispatchNotification sends through the configured transport; a failed
// notify never fails the mutation that triggered it.
func (h *IncidentHandler) dispatchNotification(ctx context.Context, n *domain.Notification) {
	if h.notifier == nil {
		return
	}
	if err := h.notifier.Notify(ctx, n); err != nil {
		h.logger.Warn("notification dispatch failed",
			zap.String("tipo", n.Tipo),
			zap.String("incidente_id", n.IncidenteID),
			zap.Error(err),
		)
	}
}

// pageRequestFromQuery reads ?page= and ?size=, tolerating absent or
// malformed values.
func pageRequestFromQuery(r *http.Request) common.PageRequest {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	return common.PageRequest{Page: page, Size: size}
}
