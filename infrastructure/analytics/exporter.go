// Package analytics implements the ingestion pipeline that moves the
// operational DynamoDB tables into the analytics bucket and keeps the Glue
// catalog and Athena queries over them working.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"alerta-utec-backend/infrastructure/persistence/dynamodb/attrcodec"
	s3store "alerta-utec-backend/infrastructure/storage/s3"
)

// ExportFormat selects the object layout an export run produces
type ExportFormat string

const (
	// FormatJSON writes each table as a single JSON array object
	FormatJSON ExportFormat = "json"
	// FormatJSONL writes newline-delimited chunks of up to chunkRows rows
	FormatJSONL ExportFormat = "jsonl"

	chunkRows = 10000
)

// TableExport describes the outcome of exporting one logical table
type TableExport struct {
	Tabla     string `json:"tabla"`
	Ubicacion string `json:"ubicacion_s3"`
	Filas     int    `json:"filas"`
}

// Exporter scans whole tables and lands them in the analytics bucket.
// Reruns overwrite nothing: every run writes under a fresh timestamp.
type Exporter struct {
	db      dynamodb.ScanAPIClient
	store   *s3store.ExportStore
	metrics *Metrics
	prefix  string
	logger  *zap.Logger

	now func() time.Time
}

// NewExporter creates an exporter. metrics may be nil when metric emission
// is not configured.
func NewExporter(db dynamodb.ScanAPIClient, store *s3store.ExportStore, metrics *Metrics, prefix string, logger *zap.Logger) *Exporter {
	return &Exporter{
		db:      db,
		store:   store,
		metrics: metrics,
		prefix:  prefix,
		logger:  logger,
		now:     time.Now,
	}
}

// ExportAll exports every logical→physical mapping entry and returns the
// per-table results. The first failing table aborts the run.
func (e *Exporter) ExportAll(ctx context.Context, mapping map[string]string, logicalOrder []string, format ExportFormat) ([]TableExport, error) {
	results := make([]TableExport, 0, len(mapping))
	for _, logical := range logicalOrder {
		physical, ok := mapping[logical]
		if !ok {
			continue
		}
		res, err := e.ExportTable(ctx, logical, physical, format)
		if err != nil {
			return nil, fmt.Errorf("export table %s: %w", logical, err)
		}
		results = append(results, *res)
	}
	return results, nil
}

// ExportTable scans one physical table completely and writes it under
// {prefix}/{logical}/.
func (e *Exporter) ExportTable(ctx context.Context, logical, physical string, format ExportFormat) (*TableExport, error) {
	started := e.now()

	var (
		location string
		total    int
		err      error
	)
	switch format {
	case FormatJSONL:
		location, total, err = e.exportJSONL(ctx, logical, physical)
	default:
		location, total, err = e.exportJSON(ctx, logical, physical)
	}
	if err != nil {
		return nil, err
	}

	e.logger.Info("table exported",
		zap.String("tabla", logical),
		zap.String("ubicacion", location),
		zap.Int("filas", total),
	)
	if e.metrics != nil {
		e.metrics.RecordExport(ctx, logical, total, e.now().Sub(started))
	}

	return &TableExport{Tabla: logical, Ubicacion: location, Filas: total}, nil
}

// scanTable walks the whole physical table across continuation keys,
// calling fn once per decoded row.
func (e *Exporter) scanTable(ctx context.Context, physical string, fn func(map[string]interface{}) error) error {
	paginator := dynamodb.NewScanPaginator(e.db, &dynamodb.ScanInput{
		TableName: aws.String(physical),
	})
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("scan %s: %w", physical, err)
		}
		for _, item := range out.Items {
			decoded, err := attrcodec.DecodeItem(item)
			if err != nil {
				return fmt.Errorf("decode item from %s: %w", physical, err)
			}
			if err := fn(decoded); err != nil {
				return err
			}
		}
	}
	return nil
}

// exportJSON stores the whole table as one array object. The array form
// cannot close until the last row, so this variant holds the table in memory.
func (e *Exporter) exportJSON(ctx context.Context, logical, physical string) (string, int, error) {
	rows := []map[string]interface{}{}
	err := e.scanTable(ctx, physical, func(row map[string]interface{}) error {
		rows = append(rows, row)
		return nil
	})
	if err != nil {
		return "", 0, err
	}

	body, err := json.Marshal(rows)
	if err != nil {
		return "", 0, fmt.Errorf("marshal export %s: %w", logical, err)
	}
	uri, err := e.store.Put(ctx, s3store.ExportKey(e.prefix, logical, e.now()), body, "application/json")
	if err != nil {
		return "", 0, err
	}
	return uri, len(rows), nil
}

// exportJSONL streams the table as newline-delimited chunks so Athena can
// split large tables. A part is flushed mid-scan every chunkRows rows, so
// memory stays bounded by one chunk regardless of table size.
func (e *Exporter) exportJSONL(ctx context.Context, logical, physical string) (string, int, error) {
	ts := e.now().UTC().Format("20060102T150405Z")
	dir := fmt.Sprintf("%s/%s/%s", e.prefix, logical, ts)

	var (
		body     []byte
		buffered int
		part     int
		location string
		total    int
	)
	flush := func() error {
		key := fmt.Sprintf("%s/part-%04d.jsonl", dir, part)
		uri, err := e.store.Put(ctx, key, body, "application/x-ndjson")
		if err != nil {
			return err
		}
		if part == 0 {
			location = uri
		}
		part++
		body = nil
		buffered = 0
		return nil
	}

	err := e.scanTable(ctx, physical, func(row map[string]interface{}) error {
		line, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("marshal export row %s: %w", logical, err)
		}
		body = append(body, line...)
		body = append(body, '\n')
		buffered++
		total++
		if buffered == chunkRows {
			return flush()
		}
		return nil
	})
	if err != nil {
		return "", 0, err
	}

	// Leftover rows close the final part; an empty table still lands an
	// empty part-0000 so the prefix exists for the crawler.
	if buffered > 0 || part == 0 {
		if err := flush(); err != nil {
			return "", 0, err
		}
	}
	return location, total, nil
}
