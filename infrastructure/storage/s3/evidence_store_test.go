package s3

import (
	"context"
	"encoding/base64"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "alerta-utec-backend/pkg/errors"
)

type fakeObjectClient struct {
	keys    []string
	bodies  [][]byte
	failErr error
}

func (f *fakeObjectClient) PutObject(_ context.Context, input *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.failErr != nil {
		return nil, f.failErr
	}
	body, _ := io.ReadAll(input.Body)
	f.keys = append(f.keys, *input.Key)
	f.bodies = append(f.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

func TestEvidenceUploadDecodesAndStores(t *testing.T) {
	client := &fakeObjectClient{}
	store := NewEvidenceStore(client, "incidentes-bucket", zap.NewNop())

	payload := base64.StdEncoding.EncodeToString([]byte("fake-image-bytes"))
	key, err := store.Upload(context.Background(), "inc-1", payload, "image/png")
	require.NoError(t, err)

	assert.Contains(t, key, "evidencias/inc-1/")
	assert.Contains(t, key, ".png")
	require.Len(t, client.bodies, 1)
	assert.Equal(t, []byte("fake-image-bytes"), client.bodies[0])
}

func TestEvidenceUploadStripsDataURI(t *testing.T) {
	client := &fakeObjectClient{}
	store := NewEvidenceStore(client, "incidentes-bucket", zap.NewNop())

	payload := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("foto"))
	_, err := store.Upload(context.Background(), "inc-2", payload, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, []byte("foto"), client.bodies[0])
}

func TestEvidenceUploadRejectsBadBase64(t *testing.T) {
	store := NewEvidenceStore(&fakeObjectClient{}, "incidentes-bucket", zap.NewNop())

	_, err := store.Upload(context.Background(), "inc-3", "no-es-base64!!!", "image/jpeg")
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}

func TestPutErrorMapping(t *testing.T) {
	tests := []struct {
		code string
		want apperrors.ErrorType
	}{
		{code: "AccessDenied", want: apperrors.ErrorTypeForbidden},
		{code: "NoSuchBucket", want: apperrors.ErrorTypeValidation},
		{code: "SlowDown", want: apperrors.ErrorTypeExternal},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			client := &fakeObjectClient{failErr: &smithy.GenericAPIError{Code: tt.code, Message: tt.code}}
			store := NewEvidenceStore(client, "incidentes-bucket", zap.NewNop())

			payload := base64.StdEncoding.EncodeToString([]byte("x"))
			_, err := store.Upload(context.Background(), "inc-4", payload, "image/jpeg")
			appErr, ok := apperrors.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, tt.want, appErr.Type)
		})
	}
}

func TestExportStoreReturnsURI(t *testing.T) {
	client := &fakeObjectClient{}
	store := NewExportStore(client, "analitica-bucket")

	uri, err := store.Put(context.Background(), "analitica/ingesta/incidentes/a.json", []byte("[]"), "application/json")
	require.NoError(t, err)
	assert.Equal(t, "s3://analitica-bucket/analitica/ingesta/incidentes/a.json", uri)
}
