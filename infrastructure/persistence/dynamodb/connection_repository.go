package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"alerta-utec-backend/domain"
)

// ConnectionAPI combines the client operations the connection repository uses
type ConnectionAPI interface {
	ItemAPI
	ScanAPI
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// ConnectionRepository tracks live WebSocket channel memberships
type ConnectionRepository struct {
	client ConnectionAPI
	table  string
	logger *zap.Logger
}

// NewConnectionRepository creates a connection repository
func NewConnectionRepository(client ConnectionAPI, table string, logger *zap.Logger) *ConnectionRepository {
	return &ConnectionRepository{client: client, table: table, logger: logger}
}

// Save registers a connection on channel open
func (r *ConnectionRepository) Save(ctx context.Context, conn *domain.Connection) error {
	item, err := attributevalue.MarshalMap(conn)
	if err != nil {
		return fmt.Errorf("marshal connection: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put connection %s: %w", conn.ConexionID, err)
	}
	return nil
}

// Delete removes a connection on channel close
func (r *ConnectionRepository) Delete(ctx context.Context, conexionID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"conexion_id": &types.AttributeValueMemberS{Value: conexionID},
		},
	})
	if err != nil {
		return fmt.Errorf("delete connection %s: %w", conexionID, err)
	}
	return nil
}

// ListActive returns every live connection, optionally narrowed to the
// given user emails, walking all continuation tokens.
func (r *ConnectionRepository) ListActive(ctx context.Context, destinatarios []string) ([]domain.Connection, error) {
	input := &dynamodb.ScanInput{TableName: aws.String(r.table)}

	if len(destinatarios) > 0 {
		values := make([]expression.OperandBuilder, len(destinatarios))
		for i, correo := range destinatarios {
			values[i] = expression.Value(correo)
		}
		cond := expression.Name("usuario_correo").In(values[0], values[1:]...)
		expr, err := expression.NewBuilder().WithFilter(cond).Build()
		if err != nil {
			return nil, fmt.Errorf("build destinatarios filter: %w", err)
		}
		input.FilterExpression = expr.Filter()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}

	var connections []domain.Connection
	for {
		out, err := r.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("scan connections: %w", err)
		}
		for _, item := range out.Items {
			var conn domain.Connection
			if err := attributevalue.UnmarshalMap(item, &conn); err != nil {
				return nil, fmt.Errorf("unmarshal connection item: %w", err)
			}
			connections = append(connections, conn)
		}
		if out.LastEvaluatedKey == nil {
			return connections, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// DeleteBatch removes the given connections in BatchWriteItem chunks of 25.
// Used by the broadcaster to reap channels that reported gone.
func (r *ConnectionRepository) DeleteBatch(ctx context.Context, conexionIDs []string) error {
	const maxBatch = 25

	for start := 0; start < len(conexionIDs); start += maxBatch {
		end := start + maxBatch
		if end > len(conexionIDs) {
			end = len(conexionIDs)
		}

		requests := make([]types.WriteRequest, 0, end-start)
		for _, id := range conexionIDs[start:end] {
			requests = append(requests, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{
					Key: map[string]types.AttributeValue{
						"conexion_id": &types.AttributeValueMemberS{Value: id},
					},
				},
			})
		}

		_, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{r.table: requests},
		})
		if err != nil {
			return fmt.Errorf("batch delete connections: %w", err)
		}
	}
	return nil
}
