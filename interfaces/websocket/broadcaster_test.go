package websocket

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	apigwTypes "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alerta-utec-backend/domain"
)

type fakePostClient struct {
	goneIDs map[string]bool
	posted  []string
}

func (f *fakePostClient) PostToConnection(_ context.Context, input *apigatewaymanagementapi.PostToConnectionInput, _ ...func(*apigatewaymanagementapi.Options)) (*apigatewaymanagementapi.PostToConnectionOutput, error) {
	id := *input.ConnectionId
	if f.goneIDs[id] {
		return nil, &apigwTypes.GoneException{}
	}
	f.posted = append(f.posted, id)
	return &apigatewaymanagementapi.PostToConnectionOutput{}, nil
}

type fakeConnectionStore struct {
	connections  []domain.Connection
	lastFilter   []string
	deletedBatch []string
}

func (f *fakeConnectionStore) ListActive(_ context.Context, destinatarios []string) ([]domain.Connection, error) {
	f.lastFilter = destinatarios
	return f.connections, nil
}

func (f *fakeConnectionStore) DeleteBatch(_ context.Context, ids []string) error {
	f.deletedBatch = append(f.deletedBatch, ids...)
	return nil
}

func testNotification() *domain.Notification {
	return &domain.Notification{
		Tipo:        domain.NotifIncidenteCreado,
		Titulo:      "Nuevo incidente",
		Mensaje:     "Fuga en piso 3",
		IncidenteID: "inc-1",
	}
}

func TestBroadcastReapsGoneConnections(t *testing.T) {
	store := &fakeConnectionStore{connections: []domain.Connection{
		{ConexionID: "c1", UsuarioCorreo: "a@utec.edu.pe"},
		{ConexionID: "c2", UsuarioCorreo: "b@utec.edu.pe"},
		{ConexionID: "c3", UsuarioCorreo: "c@utec.edu.pe"},
	}}
	client := &fakePostClient{goneIDs: map[string]bool{"c2": true}}
	b := NewBroadcaster(client, store, zap.NewNop())

	res, err := b.Broadcast(context.Background(), testNotification())
	require.NoError(t, err)

	assert.Equal(t, 3, res.Encontradas)
	assert.Equal(t, 2, res.Entregadas)
	assert.Equal(t, []string{"c2"}, store.deletedBatch)
	assert.ElementsMatch(t, []string{"c1", "c3"}, client.posted)
}

func TestBroadcastPassesDestinatariosFilter(t *testing.T) {
	store := &fakeConnectionStore{}
	b := NewBroadcaster(&fakePostClient{}, store, zap.NewNop())

	n := testNotification()
	n.Destinatarios = []string{"a@utec.edu.pe"}
	_, err := b.Broadcast(context.Background(), n)
	require.NoError(t, err)

	assert.Equal(t, []string{"a@utec.edu.pe"}, store.lastFilter)
}

func TestBroadcastRejectsInvalidNotification(t *testing.T) {
	b := NewBroadcaster(&fakePostClient{}, &fakeConnectionStore{}, zap.NewNop())

	_, err := b.Broadcast(context.Background(), &domain.Notification{Tipo: "otro"})
	assert.Error(t, err)
}

func TestBroadcastNoConnections(t *testing.T) {
	store := &fakeConnectionStore{}
	b := NewBroadcaster(&fakePostClient{}, store, zap.NewNop())

	res, err := b.Broadcast(context.Background(), testNotification())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Encontradas)
	assert.Equal(t, 0, res.Entregadas)
	assert.Empty(t, store.deletedBatch)
}
