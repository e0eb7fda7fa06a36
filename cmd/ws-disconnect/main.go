// WebSocket $disconnect entry point: removes the connection record.
package main

import (
	"context"
	"log"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"alerta-utec-backend/infrastructure/config"
	"alerta-utec-backend/infrastructure/di"
	dynamorepo "alerta-utec-backend/infrastructure/persistence/dynamodb"
)

var (
	connections *dynamorepo.ConnectionRepository
	logger      *zap.Logger
)

func init() {
	cfg, err := config.LoadConfig()
	if err != nil {
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
	connections = di.ProvideConnectionRepository(di.ProvideDynamoDBClient(awsCfg), cfg, logger)
}

func handler(ctx context.Context, req events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	if err := connections.Delete(ctx, req.RequestContext.ConnectionID); err != nil {
		logger.Error("connection delete failed",
			zap.String("conexion_id", req.RequestContext.ConnectionID),
			zap.Error(err),
		)
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, nil
	}

	logger.Info("connection closed", zap.String("conexion_id", req.RequestContext.ConnectionID))
	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}, nil
}

func main() {
	lambda.Start(handler)
}
