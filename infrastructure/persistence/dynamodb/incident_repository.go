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
	"alerta-utec-backend/pkg/common"
	apperrors "alerta-utec-backend/pkg/errors"
)

// ItemAPI is the single-item slice of the DynamoDB client
type ItemAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// IncidentAPI combines the client operations the incident repository uses
type IncidentAPI interface {
	ItemAPI
	ScanAPI
}

// IncidentRepository persists incidents in DynamoDB. Updates are whole-item
// overwrites; there is no conditional write, so concurrent editors follow
// last-write-wins.
type IncidentRepository struct {
	client IncidentAPI
	table  string
	pager  *ScanPager
	logger *zap.Logger
}

// NewIncidentRepository creates an incident repository
func NewIncidentRepository(client IncidentAPI, table string, logger *zap.Logger) *IncidentRepository {
	return &IncidentRepository{
		client: client,
		table:  table,
		pager:  NewScanPager(client, table),
		logger: logger,
	}
}

// Save writes the full incident record, replacing any previous version
func (r *IncidentRepository) Save(ctx context.Context, incident *domain.Incident) error {
	item, err := attributevalue.MarshalMap(incident)
	if err != nil {
		return fmt.Errorf("marshal incident: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put incident %s: %w", incident.IncidenteID, err)
	}
	return nil
}

// Get loads one incident by id
func (r *IncidentRepository) Get(ctx context.Context, incidenteID string) (*domain.Incident, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"incidente_id": &types.AttributeValueMemberS{Value: incidenteID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get incident %s: %w", incidenteID, err)
	}
	if len(out.Item) == 0 {
		return nil, apperrors.NewNotFoundError("Incidente")
	}

	var incident domain.Incident
	if err := attributevalue.UnmarshalMap(out.Item, &incident); err != nil {
		return nil, fmt.Errorf("unmarshal incident: %w", err)
	}
	return &incident, nil
}

// IncidentPage is one page of incidents with scan totals
type IncidentPage struct {
	Incidents     []domain.Incident
	Page          int
	Size          int
	TotalElements int
	TotalPages    int
}

// List returns one page of incidents. ownerCorreo, when non-empty, filters
// the scan to that reporter's incidents (the estudiante view).
func (r *IncidentRepository) List(ctx context.Context, req common.PageRequest, ownerCorreo string) (*IncidentPage, error) {
	var filter *expression.ConditionBuilder
	if ownerCorreo != "" {
		cond := expression.Name("usuario_correo").Equal(expression.Value(ownerCorreo))
		filter = &cond
	}

	res, err := r.pager.Page(ctx, req, filter)
	if err != nil {
		return nil, err
	}

	incidents := make([]domain.Incident, 0, len(res.Items))
	for _, item := range res.Items {
		var incident domain.Incident
		if err := attributevalue.UnmarshalMap(item, &incident); err != nil {
			return nil, fmt.Errorf("unmarshal incident item: %w", err)
		}
		incidents = append(incidents, incident)
	}

	return &IncidentPage{
		Incidents:     incidents,
		Page:          res.Page,
		Size:          res.Size,
		TotalElements: res.TotalElements,
		TotalPages:    res.TotalPages,
	}, nil
}
