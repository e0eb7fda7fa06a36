package analytics

import (
	"context"

	"go.uber.org/zap"
)

// PipelineResult is the outcome of one full ingestion run
type PipelineResult struct {
	Tablas  []TableExport `json:"tablas"`
	Crawler *CrawlStatus  `json:"crawler,omitempty"`
}

// Pipeline chains the full ingestion: export every table, make sure the
// catalog exists, run the crawler over the fresh objects.
type Pipeline struct {
	exporter *Exporter
	catalog  *CatalogManager
	mapping  map[string]string
	order    []string
	format   ExportFormat
	logger   *zap.Logger
}

// NewPipeline creates a pipeline. catalog may be nil to export without
// cataloging (useful for local runs against a plain bucket).
func NewPipeline(exporter *Exporter, catalog *CatalogManager, mapping map[string]string, order []string, format ExportFormat, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		exporter: exporter,
		catalog:  catalog,
		mapping:  mapping,
		order:    order,
		format:   format,
		logger:   logger,
	}
}

// Run executes the ingestion end to end
func (p *Pipeline) Run(ctx context.Context) (*PipelineResult, error) {
	exports, err := p.exporter.ExportAll(ctx, p.mapping, p.order, p.format)
	if err != nil {
		return nil, err
	}
	result := &PipelineResult{Tablas: exports}

	if p.catalog == nil {
		return result, nil
	}
	if err := p.catalog.EnsureDatabase(ctx); err != nil {
		return nil, err
	}
	if err := p.catalog.EnsureCrawler(ctx); err != nil {
		return nil, err
	}
	status, err := p.catalog.StartAndWait(ctx)
	if err != nil {
		return nil, err
	}
	result.Crawler = status

	p.logger.Info("ingestion finished",
		zap.Int("tablas", len(result.Tablas)),
		zap.Bool("crawler_timeout", status.TimedOut),
	)
	return result, nil
}
