package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alerta-utec-backend/domain"
)

// AuditRepository appends activity records to the logs table. Writers treat
// it as best-effort; a failed append is logged and never propagated.
type AuditRepository struct {
	client ItemAPI
	table  string
	logger *zap.Logger
}

// NewAuditRepository creates an audit repository
func NewAuditRepository(client ItemAPI, table string, logger *zap.Logger) *AuditRepository {
	return &AuditRepository{client: client, table: table, logger: logger}
}

// Append writes one audit record with a fresh id and timestamp
func (r *AuditRepository) Append(ctx context.Context, servicio, nivel, mensaje, correo string) error {
	record := domain.AuditRecord{
		RegistroID:  uuid.New().String(),
		MarcaTiempo: time.Now().UTC().Format(time.RFC3339),
		Servicio:    servicio,
		Nivel:       nivel,
		Mensaje:     mensaje,
		Correo:      correo,
	}

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put audit record: %w", err)
	}
	return nil
}

// TryAppend logs instead of failing when the audit write cannot complete
func (r *AuditRepository) TryAppend(ctx context.Context, servicio, nivel, mensaje, correo string) {
	if r == nil || r.table == "" {
		return
	}
	if err := r.Append(ctx, servicio, nivel, mensaje, correo); err != nil {
		r.logger.Warn("audit append failed", zap.Error(err))
	}
}
