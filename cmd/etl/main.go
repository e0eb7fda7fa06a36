// Analytics ingestion entry point: exports the operational tables to S3,
// keeps the Glue catalog current and runs the crawler. Triggered by an
// EventBridge schedule or invoked directly.
package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"alerta-utec-backend/infrastructure/analytics"
	"alerta-utec-backend/infrastructure/config"
	"alerta-utec-backend/infrastructure/di"
	"alerta-utec-backend/pkg/observability"
)

var (
	pipeline *analytics.Pipeline
	tracer   *observability.Tracer
	logger   *zap.Logger
)

func init() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}
	if err := cfg.ValidateETL(); err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	logger, err = di.ProvideLogger(cfg)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}

	awsCfg, err := di.ProvideAWSConfig(context.Background(), cfg)
	if err != nil {
		log.Fatalf("aws config failed: %v", err)
	}

	pipeline = di.ProvideAnalyticsPipeline(
		di.ProvideDynamoDBClient(awsCfg),
		di.ProvideS3Client(awsCfg),
		di.ProvideGlueClient(awsCfg),
		di.ProvideCloudWatchClient(awsCfg),
		cfg,
		logger,
	)
	tracer = di.ProvideTracer(cfg)
}

// handler ignores the trigger payload: scheduled and manual invocations
// both run the full ingestion.
func handler(ctx context.Context) (*analytics.PipelineResult, error) {
	var result *analytics.PipelineResult
	err := tracer.TraceFunction(ctx, "ingesta", func(ctx context.Context) error {
		var runErr error
		result, runErr = pipeline.Run(ctx)
		return runErr
	})
	if err != nil {
		logger.Error("ingestion failed", zap.Error(err))
		return nil, err
	}
	return result, nil
}

func main() {
	lambda.Start(handler)
}
