package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/glue"
	glueTypes "github.com/aws/aws-sdk-go-v2/service/glue/types"
	"go.uber.org/zap"
)

// GlueAPI is the slice of the Glue client the catalog manager needs
type GlueAPI interface {
	GetDatabase(ctx context.Context, params *glue.GetDatabaseInput, optFns ...func(*glue.Options)) (*glue.GetDatabaseOutput, error)
	CreateDatabase(ctx context.Context, params *glue.CreateDatabaseInput, optFns ...func(*glue.Options)) (*glue.CreateDatabaseOutput, error)
	GetCrawler(ctx context.Context, params *glue.GetCrawlerInput, optFns ...func(*glue.Options)) (*glue.GetCrawlerOutput, error)
	CreateCrawler(ctx context.Context, params *glue.CreateCrawlerInput, optFns ...func(*glue.Options)) (*glue.CreateCrawlerOutput, error)
	UpdateCrawler(ctx context.Context, params *glue.UpdateCrawlerInput, optFns ...func(*glue.Options)) (*glue.UpdateCrawlerOutput, error)
	StartCrawler(ctx context.Context, params *glue.StartCrawlerInput, optFns ...func(*glue.Options)) (*glue.StartCrawlerOutput, error)
}

const (
	crawlPollInterval = 30 * time.Second
	crawlTimeout      = 600 * time.Second
)

// CrawlStatus reports how a crawl run ended
type CrawlStatus struct {
	Estado   string `json:"estado"`
	TimedOut bool   `json:"timeout"`
}

// CatalogManager keeps the Glue database and crawler in sync with the
// export layout and drives crawl runs. All upserts are idempotent so the
// pipeline can run on a schedule without drift.
type CatalogManager struct {
	client   GlueAPI
	database string
	crawler  string
	roleARN  string
	s3Target string
	logger   *zap.Logger

	pollInterval time.Duration
	timeout      time.Duration
	sleep        func(time.Duration)
}

// NewCatalogManager creates a catalog manager. s3Target is the full
// s3://bucket/prefix the crawler should classify.
func NewCatalogManager(client GlueAPI, database, crawler, roleARN, s3Target string, logger *zap.Logger) *CatalogManager {
	return &CatalogManager{
		client:       client,
		database:     database,
		crawler:      crawler,
		roleARN:      roleARN,
		s3Target:     s3Target,
		logger:       logger,
		pollInterval: crawlPollInterval,
		timeout:      crawlTimeout,
		sleep:        time.Sleep,
	}
}

// EnsureDatabase creates the catalog database if it does not exist yet
func (m *CatalogManager) EnsureDatabase(ctx context.Context) error {
	_, err := m.client.GetDatabase(ctx, &glue.GetDatabaseInput{Name: aws.String(m.database)})
	if err == nil {
		return nil
	}

	var notFound *glueTypes.EntityNotFoundException
	if !errors.As(err, &notFound) {
		return fmt.Errorf("get database %s: %w", m.database, err)
	}

	_, err = m.client.CreateDatabase(ctx, &glue.CreateDatabaseInput{
		DatabaseInput: &glueTypes.DatabaseInput{Name: aws.String(m.database)},
	})
	if err != nil {
		return fmt.Errorf("create database %s: %w", m.database, err)
	}
	m.logger.Info("catalog database created", zap.String("database", m.database))
	return nil
}

// EnsureCrawler upserts the crawler definition over the export prefix
func (m *CatalogManager) EnsureCrawler(ctx context.Context) error {
	targets := &glueTypes.CrawlerTargets{
		S3Targets: []glueTypes.S3Target{{Path: aws.String(m.s3Target)}},
	}

	_, err := m.client.GetCrawler(ctx, &glue.GetCrawlerInput{Name: aws.String(m.crawler)})
	if err == nil {
		_, err = m.client.UpdateCrawler(ctx, &glue.UpdateCrawlerInput{
			Name:         aws.String(m.crawler),
			Role:         aws.String(m.roleARN),
			DatabaseName: aws.String(m.database),
			Targets:      targets,
		})
		if err != nil {
			return fmt.Errorf("update crawler %s: %w", m.crawler, err)
		}
		return nil
	}

	var notFound *glueTypes.EntityNotFoundException
	if !errors.As(err, &notFound) {
		return fmt.Errorf("get crawler %s: %w", m.crawler, err)
	}

	_, err = m.client.CreateCrawler(ctx, &glue.CreateCrawlerInput{
		Name:         aws.String(m.crawler),
		Role:         aws.String(m.roleARN),
		DatabaseName: aws.String(m.database),
		Targets:      targets,
	})
	if err != nil {
		return fmt.Errorf("create crawler %s: %w", m.crawler, err)
	}
	m.logger.Info("crawler created", zap.String("crawler", m.crawler))
	return nil
}

// StartAndWait kicks the crawler and polls until it returns to READY or
// the wait budget runs out. A crawler already mid-run is fine: the poll
// just waits for that run instead.
func (m *CatalogManager) StartAndWait(ctx context.Context) (*CrawlStatus, error) {
	_, err := m.client.StartCrawler(ctx, &glue.StartCrawlerInput{Name: aws.String(m.crawler)})
	if err != nil {
		var running *glueTypes.CrawlerRunningException
		if !errors.As(err, &running) {
			return nil, fmt.Errorf("start crawler %s: %w", m.crawler, err)
		}
		m.logger.Info("crawler already running", zap.String("crawler", m.crawler))
	}

	deadline := time.Now().Add(m.timeout)
	for {
		// The state flips to RUNNING shortly after Start; polling without an
		// initial wait would read the stale READY.
		m.sleep(m.pollInterval)

		out, err := m.client.GetCrawler(ctx, &glue.GetCrawlerInput{Name: aws.String(m.crawler)})
		if err != nil {
			return nil, fmt.Errorf("poll crawler %s: %w", m.crawler, err)
		}

		state := out.Crawler.State
		if state == glueTypes.CrawlerStateReady {
			return &CrawlStatus{Estado: string(state)}, nil
		}
		if time.Now().After(deadline) {
			m.logger.Warn("crawler wait budget exhausted",
				zap.String("crawler", m.crawler),
				zap.String("estado", string(state)),
			)
			return &CrawlStatus{Estado: string(state), TimedOut: true}, nil
		}
	}
}
