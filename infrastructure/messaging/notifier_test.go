package messaging

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdaTypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alerta-utec-backend/domain"
)

type fakeInvokeClient struct {
	input *lambda.InvokeInput
}

func (f *fakeInvokeClient) Invoke(_ context.Context, input *lambda.InvokeInput, _ ...func(*lambda.Options)) (*lambda.InvokeOutput, error) {
	f.input = input
	return &lambda.InvokeOutput{StatusCode: 202}, nil
}

type fakePutEventsClient struct {
	input *eventbridge.PutEventsInput
}

func (f *fakePutEventsClient) PutEvents(_ context.Context, input *eventbridge.PutEventsInput, _ ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	f.input = input
	return &eventbridge.PutEventsOutput{}, nil
}

func sampleNotification() *domain.Notification {
	return &domain.Notification{
		Tipo:        domain.NotifIncidenteCreado,
		Titulo:      "Nuevo incidente",
		Mensaje:     "Fuga de agua en piso 3",
		IncidenteID: "inc-1",
	}
}

func TestLambdaNotifierInvokesAsync(t *testing.T) {
	client := &fakeInvokeClient{}
	notifier := NewLambdaNotifier(client, "alerta-notify", zap.NewNop())

	require.NoError(t, notifier.Notify(context.Background(), sampleNotification()))

	require.NotNil(t, client.input)
	assert.Equal(t, "alerta-notify", aws.ToString(client.input.FunctionName))
	assert.Equal(t, lambdaTypes.InvocationTypeEvent, client.input.InvocationType)

	var payload domain.Notification
	require.NoError(t, json.Unmarshal(client.input.Payload, &payload))
	assert.Equal(t, domain.NotifIncidenteCreado, payload.Tipo)
	assert.Equal(t, "inc-1", payload.IncidenteID)
}

func TestEventBridgeNotifierPublishesEntry(t *testing.T) {
	client := &fakePutEventsClient{}
	notifier := NewEventBridgeNotifier(client, "alerta-bus", zap.NewNop())

	require.NoError(t, notifier.Notify(context.Background(), sampleNotification()))

	require.NotNil(t, client.input)
	require.Len(t, client.input.Entries, 1)
	entry := client.input.Entries[0]
	assert.Equal(t, "alerta-bus", aws.ToString(entry.EventBusName))
	assert.Equal(t, domain.NotifIncidenteCreado, aws.ToString(entry.DetailType))
	assert.Contains(t, aws.ToString(entry.Detail), "Fuga de agua")
}

func TestNopNotifierIsSilent(t *testing.T) {
	assert.NoError(t, NopNotifier{}.Notify(context.Background(), sampleNotification()))
}
