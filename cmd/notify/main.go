// Broadcast entry point: receives a notification and pushes it to every
// live WebSocket connection. The same function sits behind three triggers,
// so the payload may arrive as an API Gateway proxy request, an EventBridge
// event or a direct invocation.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"alerta-utec-backend/domain"
	"alerta-utec-backend/infrastructure/config"
	"alerta-utec-backend/infrastructure/di"
	"alerta-utec-backend/interfaces/websocket"
)

var (
	broadcaster *websocket.Broadcaster
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

	connections := di.ProvideConnectionRepository(di.ProvideDynamoDBClient(awsCfg), cfg, logger)
	management := di.ProvideManagementClient(awsCfg, cfg)
	broadcaster = websocket.NewBroadcaster(management, connections, logger)
}

type proxyResponse struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

func handler(ctx context.Context, raw json.RawMessage) (*proxyResponse, error) {
	notification, viaAPIGateway, err := extractNotification(raw)
	if err != nil {
		logger.Error("unrecognized payload", zap.Error(err))
		if viaAPIGateway {
			return &proxyResponse{StatusCode: http.StatusBadRequest, Body: jsonMessage(err.Error())}, nil
		}
		return nil, err
	}

	result, err := broadcaster.Broadcast(ctx, notification)
	if err != nil {
		logger.Error("broadcast failed", zap.Error(err))
		if viaAPIGateway {
			return &proxyResponse{StatusCode: http.StatusInternalServerError, Body: jsonMessage("Error al difundir la notificación")}, nil
		}
		return nil, err
	}

	body, _ := json.Marshal(result)
	return &proxyResponse{StatusCode: http.StatusOK, Body: string(body)}, nil
}

// extractNotification normalizes the three trigger shapes into the one
// notification payload.
func extractNotification(raw json.RawMessage) (*domain.Notification, bool, error) {
	// API Gateway proxy: the notification travels in the request body.
	var proxy struct {
		Body string `json:"body"`
	}
	if err := json.Unmarshal(raw, &proxy); err == nil && proxy.Body != "" {
		var n domain.Notification
		if err := json.Unmarshal([]byte(proxy.Body), &n); err != nil {
			return nil, true, fmt.Errorf("cuerpo de notificación inválido: %w", err)
		}
		return &n, true, nil
	}

	// EventBridge: the notification is the event detail.
	var event struct {
		Detail *domain.Notification `json:"detail"`
	}
	if err := json.Unmarshal(raw, &event); err == nil && event.Detail != nil && event.Detail.Tipo != "" {
		return event.Detail, false, nil
	}

	// Direct invocation: the payload is the notification itself.
	var n domain.Notification
	if err := json.Unmarshal(raw, &n); err != nil || n.Tipo == "" {
		return nil, false, fmt.Errorf("payload de notificación no reconocido")
	}
	return &n, false, nil
}

func jsonMessage(msg string) string {
	body, _ := json.Marshal(map[string]string{"message": msg})
	return string(body)
}

func main() {
	lambda.Start(handler)
}
