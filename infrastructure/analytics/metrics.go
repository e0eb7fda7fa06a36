package analytics

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwTypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// MetricsAPI is the slice of the CloudWatch client the pipeline needs
type MetricsAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

const metricsNamespace = "AlertaUTEC/Analitica"

// Metrics publishes pipeline measurements. Emission is best-effort: a
// rejected datum is logged and never fails the export.
type Metrics struct {
	client MetricsAPI
	logger *zap.Logger
}

// NewMetrics creates a metrics publisher
func NewMetrics(client MetricsAPI, logger *zap.Logger) *Metrics {
	return &Metrics{client: client, logger: logger}
}

// RecordExport publishes the row count and duration of one table export
func (m *Metrics) RecordExport(ctx context.Context, tabla string, filas int, elapsed time.Duration) {
	dims := []cwTypes.Dimension{{
		Name:  aws.String("Tabla"),
		Value: aws.String(tabla),
	}}
	now := time.Now()

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(metricsNamespace),
		MetricData: []cwTypes.MetricDatum{
			{
				MetricName: aws.String("FilasExportadas"),
				Dimensions: dims,
				Timestamp:  aws.Time(now),
				Value:      aws.Float64(float64(filas)),
				Unit:       cwTypes.StandardUnitCount,
			},
			{
				MetricName: aws.String("DuracionExportacion"),
				Dimensions: dims,
				Timestamp:  aws.Time(now),
				Value:      aws.Float64(elapsed.Seconds()),
				Unit:       cwTypes.StandardUnitSeconds,
			},
		},
	})
	if err != nil {
		m.logger.Warn("metric emission failed",
			zap.String("tabla", tabla),
			zap.Error(err),
		)
	}
}
