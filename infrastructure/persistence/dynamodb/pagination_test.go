package dynamodb

import (
	"context"
	"fmt"
	"strconv"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alerta-utec-backend/pkg/common"
)

// fakeScanClient serves a fixed item set through the scan contract:
// Limit-bounded pages, opaque continuation keys, COUNT mode.
type fakeScanClient struct {
	items     []map[string]types.AttributeValue
	scanCalls int
}

func (f *fakeScanClient) Scan(_ context.Context, input *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.scanCalls++

	start := 0
	if input.ExclusiveStartKey != nil {
		cursor := input.ExclusiveStartKey["cursor"].(*types.AttributeValueMemberN)
		n, _ := strconv.Atoi(cursor.Value)
		start = n
	}

	if input.Select == types.SelectCount {
		return &dynamodb.ScanOutput{Count: int32(len(f.items) - start)}, nil
	}

	end := len(f.items)
	if input.Limit != nil && start+int(*input.Limit) < end {
		end = start + int(*input.Limit)
	}

	out := &dynamodb.ScanOutput{
		Items: f.items[start:end],
		Count: int32(end - start),
	}
	if end < len(f.items) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"cursor": &types.AttributeValueMemberN{Value: strconv.Itoa(end)},
		}
	}
	return out, nil
}

func makeItems(n int) []map[string]types.AttributeValue {
	items := make([]map[string]types.AttributeValue, n)
	for i := range items {
		items[i] = map[string]types.AttributeValue{
			"incidente_id": &types.AttributeValueMemberS{Value: fmt.Sprintf("inc-%02d", i)},
		}
	}
	return items
}

func TestScanPagerPageSizes(t *testing.T) {
	client := &fakeScanClient{items: makeItems(25)}
	pager := NewScanPager(client, "incidentes")

	tests := []struct {
		page      int
		wantItems int
	}{
		{page: 0, wantItems: 10},
		{page: 1, wantItems: 10},
		{page: 2, wantItems: 5},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("page %d", tt.page), func(t *testing.T) {
			res, err := pager.Page(context.Background(), common.PageRequest{Page: tt.page, Size: 10}, nil)
			require.NoError(t, err)
			assert.Len(t, res.Items, tt.wantItems)
			assert.Equal(t, 25, res.TotalElements)
			assert.Equal(t, 3, res.TotalPages)
		})
	}
}

func TestScanPagerPageBeyondEndIsEmpty(t *testing.T) {
	client := &fakeScanClient{items: makeItems(25)}
	pager := NewScanPager(client, "incidentes")

	res, err := pager.Page(context.Background(), common.PageRequest{Page: 3, Size: 10}, nil)
	require.NoError(t, err)

	assert.Empty(t, res.Items)
	assert.Equal(t, 25, res.TotalElements)
	assert.Equal(t, 3, res.TotalPages)
	// Only the count scan ran; the seek must be skipped entirely.
	assert.Equal(t, 1, client.scanCalls)
}

func TestScanPagerCompleteness(t *testing.T) {
	client := &fakeScanClient{items: makeItems(25)}
	pager := NewScanPager(client, "incidentes")

	seen := make(map[string]bool)
	for page := 0; page < 3; page++ {
		res, err := pager.Page(context.Background(), common.PageRequest{Page: page, Size: 10}, nil)
		require.NoError(t, err)
		for _, item := range res.Items {
			id := item["incidente_id"].(*types.AttributeValueMemberS).Value
			assert.False(t, seen[id], "item %s repeated across pages", id)
			seen[id] = true
		}
	}
	assert.Len(t, seen, 25)
}

func TestScanPagerNormalizesRequest(t *testing.T) {
	client := &fakeScanClient{items: makeItems(5)}
	pager := NewScanPager(client, "incidentes")

	res, err := pager.Page(context.Background(), common.PageRequest{Page: -3, Size: 500}, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Page)
	assert.Equal(t, common.DefaultPageSize, res.Size)
	assert.Len(t, res.Items, 5)
}

func TestScanPagerEmptyTable(t *testing.T) {
	client := &fakeScanClient{}
	pager := NewScanPager(client, "incidentes")

	res, err := pager.Page(context.Background(), common.PageRequest{Page: 0, Size: 10}, nil)
	require.NoError(t, err)

	assert.Empty(t, res.Items)
	assert.Equal(t, 0, res.TotalElements)
	assert.Equal(t, 0, res.TotalPages)
}
