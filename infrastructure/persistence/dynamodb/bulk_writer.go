package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// BatchWriteAPI is the slice of the DynamoDB client the bulk writer needs
type BatchWriteAPI interface {
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

const (
	batchSize        = 25
	defaultWorkers   = 10
	maxBatchAttempts = 5
)

// BulkWriter loads many items into one table through a bounded worker pool.
// Each worker owns one batch at a time; on throttling it retries its whole
// batch with exponential backoff plus jitter, independently of the other
// workers. The only shared state is the progress counter.
type BulkWriter struct {
	client  BatchWriteAPI
	workers int
	logger  *zap.Logger

	// sleep is swappable for tests
	sleep func(time.Duration)
}

// BulkResult aggregates success/error counts across workers
type BulkResult struct {
	Written int
	Failed  int
}

// NewBulkWriter creates a bulk writer with the default pool size
func NewBulkWriter(client BatchWriteAPI, logger *zap.Logger) *BulkWriter {
	return &BulkWriter{client: client, workers: defaultWorkers, logger: logger, sleep: time.Sleep}
}

// Write stores all items in the table, 25 per batch, up to w.workers batches
// in flight. Items that still fail after the retry budget are reported in
// the failure count rather than raised.
func (w *BulkWriter) Write(ctx context.Context, table string, items []map[string]types.AttributeValue) (*BulkResult, error) {
	if len(items) == 0 {
		return &BulkResult{}, nil
	}

	var batches [][]map[string]types.AttributeValue
	for start := 0; start < len(items); start += batchSize {
		end := start + batchSize
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[start:end])
	}

	workers := w.workers
	if workers > len(batches) {
		workers = len(batches)
	}

	var (
		mu     sync.Mutex
		result BulkResult
		wg     sync.WaitGroup
	)
	jobs := make(chan []map[string]types.AttributeValue)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for batch := range jobs {
				written, err := w.writeBatch(ctx, table, batch)
				mu.Lock()
				result.Written += written
				result.Failed += len(batch) - written
				mu.Unlock()
				if err != nil {
					w.logger.Warn("batch write gave up",
						zap.Int("batch_size", len(batch)),
						zap.Error(err),
					)
				}
			}
		}()
	}

	for _, batch := range batches {
		jobs <- batch
	}
	close(jobs)
	wg.Wait()

	return &result, nil
}

// writeBatch submits one batch, retrying throttled or unprocessed writes
// with exponential backoff (base 2) plus jitter.
func (w *BulkWriter) writeBatch(ctx context.Context, table string, batch []map[string]types.AttributeValue) (int, error) {
	pending := make([]types.WriteRequest, 0, len(batch))
	for _, item := range batch {
		pending = append(pending, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: item},
		})
	}

	for attempt := 0; attempt < maxBatchAttempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			backoff += time.Duration(rand.Int63n(int64(time.Second)))
			w.sleep(backoff)
		}

		out, err := w.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{table: pending},
		})
		if err != nil {
			if isThroughputExceeded(err) {
				continue
			}
			// Items that landed before pending shrank still count as written.
			return len(batch) - len(pending), fmt.Errorf("batch write table %s: %w", table, err)
		}

		unprocessed := out.UnprocessedItems[table]
		if len(unprocessed) == 0 {
			return len(batch), nil
		}
		// Retry only the leftovers; the rest already landed.
		pending = unprocessed
	}

	return len(batch) - len(pending), fmt.Errorf("batch write table %s: retry budget exhausted", table)
}

func isThroughputExceeded(err error) bool {
	var throughput *types.ProvisionedThroughputExceededException
	return errors.As(err, &throughput)
}
