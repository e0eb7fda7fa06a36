package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	ebTypes "github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"

	"alerta-utec-backend/domain"
)

// PutEventsAPI is the slice of the EventBridge client the publisher needs
type PutEventsAPI interface {
	PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

const eventSource = "alerta-utec.backend"

// EventBridgeNotifier publishes notifications onto a bus so broadcast and
// any future consumers subscribe through rules instead of direct wiring.
type EventBridgeNotifier struct {
	client  PutEventsAPI
	busName string
	logger  *zap.Logger
}

// NewEventBridgeNotifier creates a publisher for the given bus
func NewEventBridgeNotifier(client PutEventsAPI, busName string, logger *zap.Logger) *EventBridgeNotifier {
	return &EventBridgeNotifier{client: client, busName: busName, logger: logger}
}

// Notify publishes one notification event
func (n *EventBridgeNotifier) Notify(ctx context.Context, notification *domain.Notification) error {
	detail, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	out, err := n.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []ebTypes.PutEventsRequestEntry{{
			EventBusName: aws.String(n.busName),
			Source:       aws.String(eventSource),
			DetailType:   aws.String(notification.Tipo),
			Detail:       aws.String(string(detail)),
			Time:         aws.Time(time.Now()),
		}},
	})
	if err != nil {
		return fmt.Errorf("put events: %w", err)
	}
	if out.FailedEntryCount > 0 {
		entry := out.Entries[0]
		n.logger.Error("event rejected by bus",
			zap.String("tipo", notification.Tipo),
			zap.String("error_code", aws.ToString(entry.ErrorCode)),
			zap.String("error_message", aws.ToString(entry.ErrorMessage)),
		)
		return fmt.Errorf("put events: entry rejected with %s", aws.ToString(entry.ErrorCode))
	}

	n.logger.Debug("notification published",
		zap.String("tipo", notification.Tipo),
		zap.String("bus", n.busName),
	)
	return nil
}
