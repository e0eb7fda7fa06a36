package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbTypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	s3store "alerta-utec-backend/infrastructure/storage/s3"
)

// fakeTableClient pages a fixed item set two items at a time so the
// exporter has to follow continuation keys.
type fakeTableClient struct {
	items []map[string]ddbTypes.AttributeValue
}

func (f *fakeTableClient) Scan(_ context.Context, input *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	const pageLen = 2

	start := 0
	if input.ExclusiveStartKey != nil {
		n, _ := strconv.Atoi(input.ExclusiveStartKey["cursor"].(*ddbTypes.AttributeValueMemberN).Value)
		start = n
	}
	end := start + pageLen
	if end > len(f.items) {
		end = len(f.items)
	}

	out := &dynamodb.ScanOutput{Items: f.items[start:end]}
	if end < len(f.items) {
		out.LastEvaluatedKey = map[string]ddbTypes.AttributeValue{
			"cursor": &ddbTypes.AttributeValueMemberN{Value: strconv.Itoa(end)},
		}
	}
	return out, nil
}

type capturingObjectClient struct {
	objects map[string][]byte
	onPut   func(key string)
}

func (c *capturingObjectClient) PutObject(_ context.Context, input *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, _ := io.ReadAll(input.Body)
	if c.objects == nil {
		c.objects = map[string][]byte{}
	}
	c.objects[*input.Key] = body
	if c.onPut != nil {
		c.onPut(*input.Key)
	}
	return &s3.PutObjectOutput{}, nil
}

// countingTableClient counts scan calls so tests can order flushes against
// scan progress
type countingTableClient struct {
	inner *fakeTableClient
	scans int
}

func (c *countingTableClient) Scan(ctx context.Context, input *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	c.scans++
	return c.inner.Scan(ctx, input, optFns...)
}

func incidentItems(n int) []map[string]ddbTypes.AttributeValue {
	items := make([]map[string]ddbTypes.AttributeValue, n)
	for i := range items {
		items[i] = map[string]ddbTypes.AttributeValue{
			"incidente_id": &ddbTypes.AttributeValueMemberS{Value: fmt.Sprintf("inc-%04d", i)},
			"piso":         &ddbTypes.AttributeValueMemberN{Value: strconv.Itoa(i % 12)},
		}
	}
	return items
}

func newTestExporter(db dynamodb.ScanAPIClient, objects *capturingObjectClient) *Exporter {
	exp := NewExporter(db, s3store.NewExportStore(objects, "analitica"), nil, "analitica/ingesta", zap.NewNop())
	exp.now = func() time.Time { return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC) }
	return exp
}

func TestExportTableFollowsContinuationKeys(t *testing.T) {
	objects := &capturingObjectClient{}
	exp := newTestExporter(&fakeTableClient{items: incidentItems(5)}, objects)

	res, err := exp.ExportTable(context.Background(), "incidentes", "tabla-incidentes", FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, "incidentes", res.Tabla)
	assert.Equal(t, 5, res.Filas)
	assert.Equal(t, "s3://analitica/analitica/ingesta/incidentes/20260828T120000Z_incidentes.json", res.Ubicacion)

	body := objects.objects["analitica/ingesta/incidentes/20260828T120000Z_incidentes.json"]
	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &rows))
	require.Len(t, rows, 5)
	assert.Equal(t, "inc-0000", rows[0]["incidente_id"])
}

func TestExportTableEmptyWritesEmptyArray(t *testing.T) {
	objects := &capturingObjectClient{}
	exp := newTestExporter(&fakeTableClient{}, objects)

	res, err := exp.ExportTable(context.Background(), "usuarios", "tabla-usuarios", FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Filas)
	body := objects.objects["analitica/ingesta/usuarios/20260828T120000Z_usuarios.json"]
	assert.JSONEq(t, "[]", string(body))
}

func TestExportTableJSONLChunks(t *testing.T) {
	objects := &capturingObjectClient{}
	exp := newTestExporter(&fakeTableClient{items: incidentItems(chunkRows + 3)}, objects)

	res, err := exp.ExportTable(context.Background(), "incidentes", "tabla-incidentes", FormatJSONL)
	require.NoError(t, err)
	assert.Equal(t, chunkRows+3, res.Filas)

	dir := "analitica/ingesta/incidentes/20260828T120000Z"
	first := objects.objects[dir+"/part-0000.jsonl"]
	second := objects.objects[dir+"/part-0001.jsonl"]
	require.NotNil(t, first)
	require.NotNil(t, second)

	assert.Equal(t, chunkRows, strings.Count(string(first), "\n"))
	assert.Equal(t, 3, strings.Count(string(second), "\n"))
	_, hasThird := objects.objects[dir+"/part-0002.jsonl"]
	assert.False(t, hasThird)
}

func TestExportTableJSONLFlushesDuringScan(t *testing.T) {
	table := &countingTableClient{inner: &fakeTableClient{items: incidentItems(chunkRows + 3)}}
	objects := &capturingObjectClient{}

	scansAtFirstFlush := -1
	objects.onPut = func(key string) {
		if strings.HasSuffix(key, "part-0000.jsonl") {
			scansAtFirstFlush = table.scans
		}
	}

	exp := newTestExporter(table, objects)
	res, err := exp.ExportTable(context.Background(), "incidentes", "tabla-incidentes", FormatJSONL)
	require.NoError(t, err)
	assert.Equal(t, chunkRows+3, res.Filas)

	// The first chunk closes mid-scan; only the current chunk is ever
	// buffered.
	require.NotEqual(t, -1, scansAtFirstFlush)
	assert.Less(t, scansAtFirstFlush, table.scans)
}

func TestExportAllKeepsLogicalOrder(t *testing.T) {
	objects := &capturingObjectClient{}
	exp := newTestExporter(&fakeTableClient{items: incidentItems(2)}, objects)

	mapping := map[string]string{"usuarios": "t-u", "incidentes": "t-i"}
	results, err := exp.ExportAll(context.Background(), mapping, []string{"incidentes", "usuarios"}, FormatJSON)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "incidentes", results[0].Tabla)
	assert.Equal(t, "usuarios", results[1].Tabla)
}
