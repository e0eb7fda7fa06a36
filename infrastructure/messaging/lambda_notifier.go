package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdaTypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"go.uber.org/zap"

	"alerta-utec-backend/domain"
)

// InvokeAPI is the slice of the Lambda client the notifier needs
type InvokeAPI interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// LambdaNotifier fires the broadcast function asynchronously. The Event
// invocation type returns as soon as the payload is queued, so the caller
// never waits on fan-out.
type LambdaNotifier struct {
	client       InvokeAPI
	functionName string
	logger       *zap.Logger
}

// NewLambdaNotifier creates a notifier targeting the given function
func NewLambdaNotifier(client InvokeAPI, functionName string, logger *zap.Logger) *LambdaNotifier {
	return &LambdaNotifier{client: client, functionName: functionName, logger: logger}
}

// Notify queues one notification for the broadcast function
func (n *LambdaNotifier) Notify(ctx context.Context, notification *domain.Notification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	out, err := n.client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(n.functionName),
		InvocationType: lambdaTypes.InvocationTypeEvent,
		Payload:        payload,
	})
	if err != nil {
		return fmt.Errorf("invoke %s: %w", n.functionName, err)
	}
	if out.FunctionError != nil {
		return fmt.Errorf("invoke %s: function error %s", n.functionName, *out.FunctionError)
	}

	n.logger.Debug("notification queued",
		zap.String("tipo", notification.Tipo),
		zap.String("incidente_id", notification.IncidenteID),
	)
	return nil
}
