package di

import (
	"context"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"alerta-utec-backend/infrastructure/config"
	"alerta-utec-backend/infrastructure/messaging"
	"alerta-utec-backend/infrastructure/persistence/dynamodb"
	s3store "alerta-utec-backend/infrastructure/storage/s3"
	"alerta-utec-backend/interfaces/http/rest"
	"alerta-utec-backend/interfaces/http/rest/handlers"
	"alerta-utec-backend/pkg/auth"
)

// Container holds the wired API application
type Container struct {
	Config *config.Config
	Logger *zap.Logger
	Router *chi.Mux

	Tokens      *auth.TokenService
	Users       *dynamodb.UserRepository
	Incidents   *dynamodb.IncidentRepository
	Employees   *dynamodb.EmployeeRepository
	Connections *dynamodb.ConnectionRepository
	Audit       *dynamodb.AuditRepository
	Evidence    *s3store.EvidenceStore
	Notifier    messaging.Notifier
}

// NewContainer builds the API dependency graph from configuration
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, err
	}

	awsCfg, err := ProvideAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tokens, err := ProvideTokenService(cfg)
	if err != nil {
		return nil, err
	}

	dbClient := ProvideDynamoDBClient(awsCfg)
	s3Client := ProvideS3Client(awsCfg)
	lambdaClient := ProvideLambdaClient(awsCfg)
	ebClient := ProvideEventBridgeClient(awsCfg)
	glueClient := ProvideGlueClient(awsCfg)
	athenaClient := ProvideAthenaClient(awsCfg)
	cwClient := ProvideCloudWatchClient(awsCfg)

	c := &Container{
		Config:      cfg,
		Logger:      logger,
		Tokens:      tokens,
		Users:       ProvideUserRepository(dbClient, cfg, logger),
		Incidents:   ProvideIncidentRepository(dbClient, cfg, logger),
		Employees:   ProvideEmployeeRepository(dbClient, cfg, logger),
		Connections: ProvideConnectionRepository(dbClient, cfg, logger),
		Audit:       ProvideAuditRepository(dbClient, cfg, logger),
		Evidence:    ProvideEvidenceStore(s3Client, cfg, logger),
		Notifier:    ProvideNotifier(lambdaClient, ebClient, cfg, logger),
	}

	mailer := ProvideEmailSender(cfg, logger)
	pipeline := ProvideAnalyticsPipeline(dbClient, s3Client, glueClient, cwClient, cfg, logger)
	queries := ProvideQueryRunner(athenaClient, cfg, logger)

	var welcomeMailer handlers.WelcomeMailer
	if mailer != nil {
		welcomeMailer = mailer
	}

	c.Router = rest.NewRouter(rest.Handlers{
		Users:     handlers.NewUserHandler(c.Users, tokens, welcomeMailer, c.Audit, logger),
		Incidents: handlers.NewIncidentHandler(c.Incidents, c.Evidence, c.Notifier, c.Audit, logger),
		Employees: handlers.NewEmployeeHandler(c.Employees, logger),
		Analytics: handlers.NewAnalyticsHandler(queries, pipeline, "incidentes", logger),
	}, tokens, logger)

	return c, nil
}
