// Package s3 holds the object storage adapters: evidence uploads made by
// incident reporters and export objects written by the analytics ingestion.
package s3

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "alerta-utec-backend/pkg/errors"
)

// ObjectAPI is the slice of the S3 client the stores need
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// EvidenceStore uploads incident evidence images under a per-incident prefix
type EvidenceStore struct {
	client ObjectAPI
	bucket string
	logger *zap.Logger
}

// NewEvidenceStore creates an evidence store for the given bucket
func NewEvidenceStore(client ObjectAPI, bucket string, logger *zap.Logger) *EvidenceStore {
	return &EvidenceStore{client: client, bucket: bucket, logger: logger}
}

// Upload decodes one base64 payload and stores it under
// evidencias/{incidenteID}/{uuid}.{ext}, returning the object key.
func (s *EvidenceStore) Upload(ctx context.Context, incidenteID, payload, contentType string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(stripDataURI(payload))
	if err != nil {
		return "", apperrors.NewValidationError("Evidencia no es base64 válido")
	}

	key := fmt.Sprintf("evidencias/%s/%s%s", incidenteID, uuid.New().String(), extensionFor(contentType))
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", mapPutError(err, s.bucket)
	}

	s.logger.Info("evidence stored",
		zap.String("incidente_id", incidenteID),
		zap.String("key", key),
		zap.Int("bytes", len(data)),
	)
	return key, nil
}

// UploadAll stores every payload and returns the keys in order. One bad
// payload fails the whole set so the incident never references half its
// evidence.
func (s *EvidenceStore) UploadAll(ctx context.Context, incidenteID string, payloads []string) ([]string, error) {
	keys := make([]string, 0, len(payloads))
	for _, payload := range payloads {
		key, err := s.Upload(ctx, incidenteID, payload, "image/jpeg")
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// ExportStore writes analytics export objects
type ExportStore struct {
	client ObjectAPI
	bucket string
}

// NewExportStore creates an export store for the analytics bucket
func NewExportStore(client ObjectAPI, bucket string) *ExportStore {
	return &ExportStore{client: client, bucket: bucket}
}

// Put writes one export object and returns its s3:// URI
func (s *ExportStore) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", mapPutError(err, s.bucket)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

// stripDataURI drops a leading "data:image/png;base64," style prefix
func stripDataURI(payload string) string {
	if idx := strings.Index(payload, ","); idx >= 0 && strings.HasPrefix(payload, "data:") {
		return payload[idx+1:]
	}
	return payload
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}

// mapPutError turns S3 service codes into the error taxonomy: a denied
// bucket is a permission problem, a missing bucket a caller configuration
// problem, everything else an external failure.
func mapPutError(err error, bucket string) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied":
			return apperrors.NewForbiddenError(fmt.Sprintf("Sin permisos para escribir en el bucket %s", bucket))
		case "NoSuchBucket":
			return apperrors.NewValidationError(fmt.Sprintf("El bucket %s no existe", bucket))
		}
	}
	return apperrors.NewExternalError("Error al subir objeto a S3").WithCause(err)
}

// ExportKey builds the timestamped object key for a table export
func ExportKey(prefix, logical string, now time.Time) string {
	return fmt.Sprintf("%s/%s/%s_%s.json", strings.TrimSuffix(prefix, "/"), logical, now.UTC().Format("20060102T150405Z"), logical)
}
