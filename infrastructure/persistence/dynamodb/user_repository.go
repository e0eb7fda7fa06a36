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
	apperrors "alerta-utec-backend/pkg/errors"
)

// UserRepository persists user accounts keyed by correo
type UserRepository struct {
	client ItemAPI
	table  string
	logger *zap.Logger
}

// NewUserRepository creates a user repository
func NewUserRepository(client ItemAPI, table string, logger *zap.Logger) *UserRepository {
	return &UserRepository{client: client, table: table, logger: logger}
}

func userKey(correo string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"correo": &types.AttributeValueMemberS{Value: correo},
	}
}

// Get loads a user by correo
func (r *UserRepository) Get(ctx context.Context, correo string) (*domain.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       userKey(correo),
	})
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", correo, err)
	}
	if len(out.Item) == 0 {
		return nil, apperrors.NewNotFoundError("Usuario")
	}

	var user domain.User
	if err := attributevalue.UnmarshalMap(out.Item, &user); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	return &user, nil
}

// Exists reports whether a user with the given correo is registered
func (r *UserRepository) Exists(ctx context.Context, correo string) (bool, error) {
	_, err := r.Get(ctx, correo)
	if err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok && appErr.Type == apperrors.ErrorTypeNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Save writes the full user record
func (r *UserRepository) Save(ctx context.Context, user *domain.User) error {
	item, err := attributevalue.MarshalMap(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put user %s: %w", user.Correo, err)
	}
	return nil
}

// Delete removes a user by correo
func (r *UserRepository) Delete(ctx context.Context, correo string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key:       userKey(correo),
	})
	if err != nil {
		return fmt.Errorf("delete user %s: %w", correo, err)
	}
	return nil
}
