// Bulk seeder: fills the incidents table with generated sample reports
// through the batched worker pool.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"alerta-utec-backend/infrastructure/config"
	"alerta-utec-backend/infrastructure/di"
	dynamorepo "alerta-utec-backend/infrastructure/persistence/dynamodb"
	"alerta-utec-backend/infrastructure/seed"
)

func main() {
	var (
		count    = flag.Int("n", 500, "incidents to generate")
		students = flag.Int("estudiantes", 20, "distinct reporter accounts")
		seedVal  = flag.Int64("seed", time.Now().UnixNano(), "random seed for reproducible runs")
	)
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	logger, err := di.ProvideLogger(cfg)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	awsCfg, err := di.ProvideAWSConfig(ctx, cfg)
	if err != nil {
		logger.Fatal("aws config failed", zap.Error(err))
	}

	generator := seed.NewGenerator(*seedVal)
	items, err := generator.IncidentItems(*count, seed.Correos(*students))
	if err != nil {
		logger.Fatal("sample generation failed", zap.Error(err))
	}

	writer := dynamorepo.NewBulkWriter(di.ProvideDynamoDBClient(awsCfg), logger)
	started := time.Now()
	result, err := writer.Write(ctx, cfg.IncidentsTable, items)
	if err != nil {
		logger.Fatal("bulk write failed", zap.Error(err))
	}

	logger.Info("seeding finished",
		zap.Int("escritos", result.Written),
		zap.Int("fallidos", result.Failed),
		zap.Duration("elapsed", time.Since(started)),
	)
}
