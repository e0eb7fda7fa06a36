package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"alerta-utec-backend/infrastructure/analytics"
	"alerta-utec-backend/pkg/common"
	apperrors "alerta-utec-backend/pkg/errors"
)

// QueryService runs SQL against the analytics catalog
type QueryService interface {
	Run(ctx context.Context, sql string) (*analytics.QueryResult, error)
}

// PipelineService triggers a full ingestion run
type PipelineService interface {
	Run(ctx context.Context) (*analytics.PipelineResult, error)
}

// AnalyticsHandler serves the canned analyses and the ingestion trigger.
// Routing gates the whole surface to administrative roles.
type AnalyticsHandler struct {
	queries        QueryService
	pipeline       PipelineService
	incidentsTable string
	logger         *zap.Logger
}

// NewAnalyticsHandler creates an analytics handler. incidentsTable is the
// crawled table name inside the Glue database.
func NewAnalyticsHandler(queries QueryService, pipeline PipelineService, incidentsTable string, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		queries:        queries,
		pipeline:       pipeline,
		incidentsTable: incidentsTable,
		logger:         logger,
	}
}

// RunAnalysis executes one named canned analysis
func (h *AnalyticsHandler) RunAnalysis(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "analisis")
	sql, ok := analytics.AnalysisQuery(name, h.incidentsTable)
	if !ok {
		common.RespondError(w, apperrors.NewNotFoundError("Análisis"))
		return
	}

	result, err := h.queries.Run(r.Context(), sql)
	if err != nil {
		h.logger.Error("analysis failed", zap.String("analisis", name), zap.Error(err))
		common.RespondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"analisis":  name,
		"resultado": result,
	})
}

// TriggerIngestion runs the export pipeline synchronously and reports the
// per-table outcome.
func (h *AnalyticsHandler) TriggerIngestion(w http.ResponseWriter, r *http.Request) {
	result, err := h.pipeline.Run(r.Context())
	if err != nil {
		h.logger.Error("ingestion trigger failed", zap.Error(err))
		common.RespondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Ingesta ejecutada con éxito",
		"resultado": result,
	})
}
