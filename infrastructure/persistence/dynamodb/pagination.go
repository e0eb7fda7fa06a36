package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"alerta-utec-backend/pkg/common"
)

// ScanAPI is the slice of the DynamoDB client the pager needs
type ScanAPI interface {
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// ScanPager emulates page/size listing over a table that only exposes
// cursor-based scans. It counts the whole table first, then walks forward
// discarding pages until the requested one. O(page*size) seek plus a full
// count scan per call, which is fine at the volumes this system holds;
// it is deliberately not an indexed range query.
type ScanPager struct {
	client ScanAPI
	table  string
}

// NewScanPager creates a pager for one table
func NewScanPager(client ScanAPI, table string) *ScanPager {
	return &ScanPager{client: client, table: table}
}

// PageResult is one page of raw items plus the totals computed for it
type PageResult struct {
	Items         []map[string]types.AttributeValue
	Page          int
	Size          int
	TotalElements int
	TotalPages    int
}

// Page returns the requested page. filter is an optional equality filter
// applied identically to the count and seek phases.
func (p *ScanPager) Page(ctx context.Context, req common.PageRequest, filter *expression.ConditionBuilder) (*PageResult, error) {
	req = req.Normalize()

	var filterExpr *string
	var names map[string]string
	var values map[string]types.AttributeValue
	if filter != nil {
		expr, err := expression.NewBuilder().WithFilter(*filter).Build()
		if err != nil {
			return nil, fmt.Errorf("build filter expression: %w", err)
		}
		filterExpr = expr.Filter()
		names = expr.Names()
		values = expr.Values()
	}

	total, err := p.count(ctx, filterExpr, names, values)
	if err != nil {
		return nil, err
	}

	result := &PageResult{
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    common.TotalPages(total, req.Size),
	}

	// Requests beyond the last page skip the seek entirely.
	if result.TotalPages > 0 && req.Page >= result.TotalPages {
		return result, nil
	}

	input := &dynamodb.ScanInput{
		TableName:                 aws.String(p.table),
		Limit:                     aws.Int32(int32(req.Size)),
		FilterExpression:          filterExpr,
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	}

	// Seek: one discarded scan per preceding page, keeping only the cursor.
	var startKey map[string]types.AttributeValue
	for i := 0; i < req.Page; i++ {
		input.ExclusiveStartKey = startKey
		out, err := p.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("scan table %s: %w", p.table, err)
		}
		startKey = out.LastEvaluatedKey
		if startKey == nil {
			// Table exhausted before the target page; the count is kept.
			return result, nil
		}
	}

	input.ExclusiveStartKey = startKey
	out, err := p.client.Scan(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("scan table %s: %w", p.table, err)
	}
	result.Items = out.Items
	return result, nil
}

// count scans the whole table in COUNT mode across continuation tokens
func (p *ScanPager) count(ctx context.Context, filterExpr *string, names map[string]string, values map[string]types.AttributeValue) (int, error) {
	input := &dynamodb.ScanInput{
		TableName:                 aws.String(p.table),
		Select:                    types.SelectCount,
		FilterExpression:          filterExpr,
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	}

	total := 0
	for {
		out, err := p.client.Scan(ctx, input)
		if err != nil {
			return 0, fmt.Errorf("count scan table %s: %w", p.table, err)
		}
		total += int(out.Count)
		if out.LastEvaluatedKey == nil {
			return total, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}
