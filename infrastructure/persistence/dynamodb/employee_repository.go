package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"alerta-utec-backend/domain"
	"alerta-utec-backend/pkg/common"
	apperrors "alerta-utec-backend/pkg/errors"
)

// EmployeeAPI combines the client operations the employee repository uses
type EmployeeAPI interface {
	ItemAPI
	ScanAPI
}

// EmployeeRepository persists maintenance staff records
type EmployeeRepository struct {
	client EmployeeAPI
	table  string
	pager  *ScanPager
	logger *zap.Logger
}

// NewEmployeeRepository creates an employee repository
func NewEmployeeRepository(client EmployeeAPI, table string, logger *zap.Logger) *EmployeeRepository {
	return &EmployeeRepository{
		client: client,
		table:  table,
		pager:  NewScanPager(client, table),
		logger: logger,
	}
}

func employeeKey(empleadoID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"empleado_id": &types.AttributeValueMemberS{Value: empleadoID},
	}
}

// Get loads an employee by id
func (r *EmployeeRepository) Get(ctx context.Context, empleadoID string) (*domain.Employee, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       employeeKey(empleadoID),
	})
	if err != nil {
		return nil, fmt.Errorf("get employee %s: %w", empleadoID, err)
	}
	if len(out.Item) == 0 {
		return nil, apperrors.NewNotFoundError("Empleado")
	}

	var employee domain.Employee
	if err := attributevalue.UnmarshalMap(out.Item, &employee); err != nil {
		return nil, fmt.Errorf("unmarshal employee: %w", err)
	}
	return &employee, nil
}

// Save writes the full employee record
func (r *EmployeeRepository) Save(ctx context.Context, employee *domain.Employee) error {
	item, err := attributevalue.MarshalMap(employee)
	if err != nil {
		return fmt.Errorf("marshal employee: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put employee %s: %w", employee.EmpleadoID, err)
	}
	return nil
}

// Delete removes an employee by id
func (r *EmployeeRepository) Delete(ctx context.Context, empleadoID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key:       employeeKey(empleadoID),
	})
	if err != nil {
		return fmt.Errorf("delete employee %s: %w", empleadoID, err)
	}
	return nil
}

// EmployeePage is one page of employees with scan totals
type EmployeePage struct {
	Employees     []domain.Employee
	Page          int
	Size          int
	TotalElements int
	TotalPages    int
}

// List returns one page of employees
func (r *EmployeeRepository) List(ctx context.Context, req common.PageRequest) (*EmployeePage, error) {
	res, err := r.pager.Page(ctx, req, nil)
	if err != nil {
		return nil, err
	}

	employees := make([]domain.Employee, 0, len(res.Items))
	for _, item := range res.Items {
		var employee domain.Employee
		if err := attributevalue.UnmarshalMap(item, &employee); err != nil {
			return nil, fmt.Errorf("unmarshal employee item: %w", err)
		}
		employees = append(employees, employee)
	}

	return &EmployeePage{
		Employees:     employees,
		Page:          res.Page,
		Size:          res.Size,
		TotalElements: res.TotalElements,
		TotalPages:    res.TotalPages,
	}, nil
}
