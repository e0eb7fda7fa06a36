// WebSocket $connect entry point: authenticates the client and registers
// the connection.
package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"alerta-utec-backend/domain"
	"alerta-utec-backend/infrastructure/config"
	"alerta-utec-backend/infrastructure/di"
	dynamorepo "alerta-utec-backend/infrastructure/persistence/dynamodb"
	"alerta-utec-backend/pkg/auth"
)

// connections expire server-side even if $disconnect never fires
const connectionTTL = 2 * time.Hour

var (
	connections *dynamorepo.ConnectionRepository
	tokens      *auth.TokenService
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

	tokens, err = di.ProvideTokenService(cfg)
	if err != nil {
		log.Fatalf("token service init failed: %v", err)
	}
	connections = di.ProvideConnectionRepository(di.ProvideDynamoDBClient(awsCfg), cfg, logger)
}

// handler validates the token passed as the "token" query parameter; the
// browser WebSocket API cannot set an Authorization header on upgrade.
func handler(ctx context.Context, req events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	claims, err := tokens.Verify(req.QueryStringParameters["token"])
	if err != nil {
		logger.Warn("connection rejected", zap.Error(err))
		return events.APIGatewayProxyResponse{StatusCode: http.StatusUnauthorized, Body: err.Error()}, nil
	}

	conn := &domain.Connection{
		ConexionID:    req.RequestContext.ConnectionID,
		UsuarioCorreo: claims.Correo,
		Rol:           claims.Rol,
		ConnectedAt:   time.Now().UTC().Format(time.RFC3339),
		TTL:           time.Now().Add(connectionTTL).Unix(),
	}
	if err := connections.Save(ctx, conn); err != nil {
		logger.Error("connection save failed", zap.Error(err))
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, nil
	}

	logger.Info("connection opened",
		zap.String("conexion_id", conn.ConexionID),
		zap.String("correo", conn.UsuarioCorreo),
	)
	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}, nil
}

func main() {
	lambda.Start(handler)
}
