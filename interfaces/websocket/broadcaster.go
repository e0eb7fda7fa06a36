// Package websocket pushes notifications to clients connected through the
// API Gateway WebSocket API.
package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	apigwTypes "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
	"go.uber.org/zap"

	"alerta-utec-backend/domain"
)

// PostAPI is the slice of the management API client the broadcaster needs
type PostAPI interface {
	PostToConnection(ctx context.Context, params *apigatewaymanagementapi.PostToConnectionInput, optFns ...func(*apigatewaymanagementapi.Options)) (*apigatewaymanagementapi.PostToConnectionOutput, error)
}

// ConnectionStore is the registry view the broadcaster depends on
type ConnectionStore interface {
	ListActive(ctx context.Context, destinatarios []string) ([]domain.Connection, error)
	DeleteBatch(ctx context.Context, conexionIDs []string) error
}

// BroadcastResult summarizes one fan-out sweep
type BroadcastResult struct {
	Encontradas int `json:"conexiones_encontradas"`
	Entregadas  int `json:"notificaciones_enviadas"`
}

// Broadcaster fans a notification out to every live connection. A channel
// that reports gone is reaped from the registry after the sweep; any other
// push failure only skips that connection.
type Broadcaster struct {
	client      PostAPI
	connections ConnectionStore
	logger      *zap.Logger
}

// NewBroadcaster creates a broadcaster
func NewBroadcaster(client PostAPI, connections ConnectionStore, logger *zap.Logger) *Broadcaster {
	return &Broadcaster{client: client, connections: connections, logger: logger}
}

// Broadcast delivers the notification to every matching connection
func (b *Broadcaster) Broadcast(ctx context.Context, notification *domain.Notification) (*BroadcastResult, error) {
	if err := notification.Validate(); err != nil {
		return nil, err
	}

	connections, err := b.connections.ListActive(ctx, notification.Destinatarios)
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		return nil, fmt.Errorf("marshal notification: %w", err)
	}

	result := &BroadcastResult{Encontradas: len(connections)}
	var stale []string

	for _, conn := range connections {
		_, err := b.client.PostToConnection(ctx, &apigatewaymanagementapi.PostToConnectionInput{
			ConnectionId: aws.String(conn.ConexionID),
			Data:         payload,
		})
		if err != nil {
			var gone *apigwTypes.GoneException
			if errors.As(err, &gone) {
				stale = append(stale, conn.ConexionID)
				continue
			}
			b.logger.Warn("push failed",
				zap.String("conexion_id", conn.ConexionID),
				zap.Error(err),
			)
			continue
		}
		result.Entregadas++
	}

	if len(stale) > 0 {
		if err := b.connections.DeleteBatch(ctx, stale); err != nil {
			b.logger.Error("stale connection cleanup failed",
				zap.Int("stale", len(stale)),
				zap.Error(err),
			)
		} else {
			b.logger.Info("stale connections reaped", zap.Int("stale", len(stale)))
		}
	}

	b.logger.Info("broadcast finished",
		zap.String("tipo", notification.Tipo),
		zap.Int("encontradas", result.Encontradas),
		zap.Int("entregadas", result.Entregadas),
	)
	return result, nil
}
