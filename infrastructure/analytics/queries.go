package analytics

import "fmt"

// Analysis names accepted by the analytics endpoints
const (
	AnalysisPorPisoEstado      = "incidentes_por_piso_estado"
	AnalysisPorTipoUrgencia    = "incidentes_por_tipo_urgencia"
	AnalysisTiempoResolucion   = "tiempo_resolucion"
	AnalysisReportesPorUsuario = "reportes_por_usuario"
)

// AnalysisQuery returns the SQL for one named analysis over the crawled
// incident table, or false when the name is unknown.
func AnalysisQuery(name, incidentsTable string) (string, bool) {
	switch name {
	case AnalysisPorPisoEstado:
		return fmt.Sprintf(`SELECT piso, estado, COUNT(*) AS total
FROM %s
GROUP BY piso, estado
ORDER BY piso, estado`, incidentsTable), true

	case AnalysisPorTipoUrgencia:
		return fmt.Sprintf(`SELECT tipo, nivel_urgencia, COUNT(*) AS total
FROM %s
GROUP BY tipo, nivel_urgencia
ORDER BY total DESC`, incidentsTable), true

	case AnalysisTiempoResolucion:
		return fmt.Sprintf(`SELECT tipo,
       AVG(date_diff('minute', from_iso8601_timestamp(created_at), from_iso8601_timestamp(updated_at))) AS minutos_promedio
FROM %s
WHERE estado = 'resuelto'
GROUP BY tipo
ORDER BY minutos_promedio DESC`, incidentsTable), true

	case AnalysisReportesPorUsuario:
		return fmt.Sprintf(`SELECT usuario_correo, COUNT(*) AS reportes
FROM %s
GROUP BY usuario_correo
ORDER BY reportes DESC
LIMIT 50`, incidentsTable), true
	}
	return "", false
}
