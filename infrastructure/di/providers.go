// Package di wires the application together with plain provider functions.
// Each binary builds only the slice of the graph it needs.
package di

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsapigw "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	awsathena "github.com/aws/aws-sdk-go-v2/service/athena"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	awsglue "github.com/aws/aws-sdk-go-v2/service/glue"
	awslambda "github.com/aws/aws-sdk-go-v2/service/lambda"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"alerta-utec-backend/infrastructure/analytics"
	"alerta-utec-backend/infrastructure/config"
	"alerta-utec-backend/infrastructure/email"
	"alerta-utec-backend/infrastructure/messaging"
	"alerta-utec-backend/infrastructure/persistence/dynamodb"
	s3store "alerta-utec-backend/infrastructure/storage/s3"
	"alerta-utec-backend/pkg/auth"
	"alerta-utec-backend/pkg/observability"
)

// ProvideLogger creates the logger, production encoding outside development
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig loads the default AWS configuration for the region
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideS3Client creates an S3 client
func ProvideS3Client(awsCfg aws.Config) *awss3.Client {
	return awss3.NewFromConfig(awsCfg)
}

// ProvideGlueClient creates a Glue client
func ProvideGlueClient(awsCfg aws.Config) *awsglue.Client {
	return awsglue.NewFromConfig(awsCfg)
}

// ProvideAthenaClient creates an Athena client
func ProvideAthenaClient(awsCfg aws.Config) *awsathena.Client {
	return awsathena.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideLambdaClient creates a Lambda client
func ProvideLambdaClient(awsCfg aws.Config) *awslambda.Client {
	return awslambda.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideManagementClient creates the WebSocket management client against
// the configured callback endpoint.
func ProvideManagementClient(awsCfg aws.Config, cfg *config.Config) *awsapigw.Client {
	return awsapigw.NewFromConfig(awsCfg, func(o *awsapigw.Options) {
		if cfg.WebSocketEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.WebSocketEndpoint)
		}
	})
}

// ProvideTokenService creates the JWT service from config
func ProvideTokenService(cfg *config.Config) (*auth.TokenService, error) {
	return auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpiryHours)
}

// ProvideTracer creates the tracer, enabled by config
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer("alerta-utec", cfg.EnableTracing)
}

// ProvideUserRepository creates the user repository
func ProvideUserRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) *dynamodb.UserRepository {
	return dynamodb.NewUserRepository(client, cfg.UsersTable, logger)
}

// ProvideIncidentRepository creates the incident repository
func ProvideIncidentRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) *dynamodb.IncidentRepository {
	return dynamodb.NewIncidentRepository(client, cfg.IncidentsTable, logger)
}

// ProvideEmployeeRepository creates the employee repository
func ProvideEmployeeRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) *dynamodb.EmployeeRepository {
	return dynamodb.NewEmployeeRepository(client, cfg.EmployeesTable, logger)
}

// ProvideConnectionRepository creates the connection repository
func ProvideConnectionRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) *dynamodb.ConnectionRepository {
	return dynamodb.NewConnectionRepository(client, cfg.ConnectionsTable, logger)
}

// ProvideAuditRepository creates the audit repository over the logs table
func ProvideAuditRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) *dynamodb.AuditRepository {
	return dynamodb.NewAuditRepository(client, cfg.LogsTable, logger)
}

// ProvideEvidenceStore creates the evidence store
func ProvideEvidenceStore(client *awss3.Client, cfg *config.Config, logger *zap.Logger) *s3store.EvidenceStore {
	return s3store.NewEvidenceStore(client, cfg.EvidenceBucket, logger)
}

// ProvideNotifier picks the notification transport from config: direct
// Lambda invoke when a function name is set, EventBridge when a bus is,
// otherwise a no-op.
func ProvideNotifier(lambdaClient *awslambda.Client, ebClient *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) messaging.Notifier {
	switch {
	case cfg.NotifyFunctionName != "":
		return messaging.NewLambdaNotifier(lambdaClient, cfg.NotifyFunctionName, logger)
	case cfg.NotifyEventBus != "":
		return messaging.NewEventBridgeNotifier(ebClient, cfg.NotifyEventBus, logger)
	default:
		logger.Warn("no notification transport configured, broadcasts disabled")
		return messaging.NopNotifier{}
	}
}

// ProvideEmailSender creates the SendGrid sender; nil when unconfigured
func ProvideEmailSender(cfg *config.Config, logger *zap.Logger) *email.Sender {
	return email.NewSender(cfg.SendGridAPIKey, cfg.EmailFrom, logger)
}

// ProvideAnalyticsPipeline assembles exporter, catalog and metrics into the
// full ingestion pipeline.
func ProvideAnalyticsPipeline(
	db *awsdynamodb.Client,
	s3Client *awss3.Client,
	glueClient *awsglue.Client,
	cwClient *awscloudwatch.Client,
	cfg *config.Config,
	logger *zap.Logger,
) *analytics.Pipeline {
	metrics := analytics.NewMetrics(cwClient, logger)
	store := s3store.NewExportStore(s3Client, cfg.AnalyticsBucket)
	exporter := analytics.NewExporter(db, store, metrics, cfg.ExportPrefix, logger)

	var catalog *analytics.CatalogManager
	if cfg.GlueDatabase != "" && cfg.GlueCrawler != "" {
		target := "s3://" + cfg.AnalyticsBucket + "/" + cfg.ExportPrefix
		catalog = analytics.NewCatalogManager(glueClient, cfg.GlueDatabase, cfg.GlueCrawler, cfg.GlueRoleARN, target, logger)
	}

	return analytics.NewPipeline(exporter, catalog, cfg.AnalyticsTables, cfg.SortedLogicalTables(), analytics.FormatJSON, logger)
}

// ProvideQueryRunner creates the Athena query runner
func ProvideQueryRunner(client *awsathena.Client, cfg *config.Config, logger *zap.Logger) *analytics.QueryRunner {
	return analytics.NewQueryRunner(client, cfg.GlueDatabase, cfg.AthenaOutput, logger)
}
