// Package rest wires the HTTP surface: routes, middleware and CORS.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"alerta-utec-backend/interfaces/http/rest/handlers"
	"alerta-utec-backend/interfaces/http/rest/middleware"
	"alerta-utec-backend/pkg/common"
)

// Handlers groups the endpoint implementations the router mounts
type Handlers struct {
	Users     *handlers.UserHandler
	Incidents *handlers.IncidentHandler
	Employees *handlers.EmployeeHandler
	Analytics *handlers.AnalyticsHandler
}

// NewRouter builds the chi router with the full route table
func NewRouter(h Handlers, tokens middleware.Authenticator, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogging(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		common.RespondMessage(w, http.StatusOK, "ok")
	})

	r.Post("/usuarios/registro", h.Users.Register)
	r.Post("/usuarios/login", h.Users.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(tokens))

		r.Route("/usuarios", func(r chi.Router) {
			r.Get("/me", h.Users.Me)
			r.Put("/me", h.Users.Update)
			r.Delete("/me", h.Users.Delete)
			r.Delete("/{correo}", h.Users.Delete)
		})

		r.Route("/incidentes", func(r chi.Router) {
			r.Post("/", h.Incidents.Create)
			r.Get("/", h.Incidents.List)
			r.Get("/{incidenteID}", h.Incidents.Get)
			r.Put("/{incidenteID}", h.Incidents.Update)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin())
				r.Patch("/{incidenteID}/estado", h.Incidents.AdminUpdate)
			})
		})

		r.Route("/empleados", func(r chi.Router) {
			r.Use(middleware.RequireAdmin())
			r.Post("/", h.Employees.Create)
			r.Get("/", h.Employees.List)
			r.Get("/{empleadoID}", h.Employees.Get)
			r.Put("/{empleadoID}", h.Employees.Update)
			r.Delete("/{empleadoID}", h.Employees.Delete)
		})

		r.Route("/analitica", func(r chi.Router) {
			r.Use(middleware.RequireAdmin())
			r.Get("/analisis/{analisis}", h.Analytics.RunAnalysis)
			r.Post("/ingesta", h.Analytics.TriggerIngestion)
		})
	})

	return r
}
