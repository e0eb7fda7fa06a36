package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alerta-utec-backend/domain"
	"alerta-utec-backend/infrastructure/persistence/dynamodb"
	"alerta-utec-backend/pkg/common"
	apperrors "alerta-utec-backend/pkg/errors"
	"alerta-utec-backend/pkg/utils"
)

// EmployeeStore is the persistence surface the employee endpoints need
type EmployeeStore interface {
	Get(ctx context.Context, empleadoID string) (*domain.Employee, error)
	Save(ctx context.Context, employee *domain.Employee) error
	Delete(ctx context.Context, empleadoID string) error
	List(ctx context.Context, req common.PageRequest) (*dynamodb.EmployeePage, error)
}

// EmployeeHandler serves the maintenance staff registry. Routing gates the
// whole surface to administrative roles.
type EmployeeHandler struct {
	employees EmployeeStore
	logger    *zap.Logger
}

// NewEmployeeHandler creates an employee handler
func NewEmployeeHandler(employees EmployeeStore, logger *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{employees: employees, logger: logger}
}

type employeeRequest struct {
	Nombre   string `json:"nombre" validate:"required"`
	TipoArea string `json:"tipo_area" validate:"required"`
	Estado   string `json:"estado"`
	Contacto string `json:"contacto"`
}

func (req employeeRequest) validate() error {
	if err := utils.ValidateStruct(req); err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	if !domain.IsValidArea(req.TipoArea) {
		return apperrors.NewValidationError("Valor de 'tipo_area' no válido")
	}
	if req.Estado != "" && !domain.IsValidEmployeeState(req.Estado) {
		return apperrors.NewValidationError("Valor de 'estado' no válido: se acepta activo o inactivo")
	}
	return nil
}

// Create registers a staff member; estado defaults to activo
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, apperrors.NewValidationError("Cuerpo JSON inválido"))
		return
	}
	if err := req.validate(); err != nil {
		common.RespondError(w, err)
		return
	}

	estado := req.Estado
	if estado == "" {
		estado = "activo"
	}
	employee := &domain.Employee{
		EmpleadoID: uuid.New().String(),
		Nombre:     req.Nombre,
		TipoArea:   req.TipoArea,
		Estado:     estado,
		Contacto:   req.Contacto,
	}

	if err := h.employees.Save(r.Context(), employee); err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "Empleado creado con éxito",
		"empleado": employee,
	})
}

// Get returns one staff member by id
func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	employee, err := h.employees.Get(r.Context(), chi.URLParam(r, "empleadoID"))
	if err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, employee)
}

// Update rewrites a staff member record
func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	employee, err := h.employees.Get(r.Context(), chi.URLParam(r, "empleadoID"))
	if err != nil {
		common.RespondError(w, err)
		return
	}

	var req employeeRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, apperrors.NewValidationError("Cuerpo JSON inválido"))
		return
	}
	if err := req.validate(); err != nil {
		common.RespondError(w, err)
		return
	}

	employee.Nombre = req.Nombre
	employee.TipoArea = req.TipoArea
	if req.Estado != "" {
		employee.Estado = req.Estado
	}
	employee.Contacto = req.Contacto

	if err := h.employees.Save(r.Context(), employee); err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Empleado actualizado con éxito",
		"empleado": employee,
	})
}

// Delete removes a staff member
func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	empleadoID := chi.URLParam(r, "empleadoID")
	if _, err := h.employees.Get(r.Context(), empleadoID); err != nil {
		common.RespondError(w, err)
		return
	}
	if err := h.employees.Delete(r.Context(), empleadoID); err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondMessage(w, http.StatusOK, "Empleado eliminado con éxito")
}

// List returns one page of staff members
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.employees.List(r.Context(), pageRequestFromQuery(r))
	if err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, common.Page{
		Contents:      page.Employees,
		PageNumber:    page.Page,
		Size:          page.Size,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
	})
}
