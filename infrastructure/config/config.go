package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion string

	// DynamoDB tables
	UsersTable       string
	IncidentsTable   string
	EmployeesTable   string
	LogsTable        string
	ConnectionsTable string

	// Object storage
	EvidenceBucket  string
	AnalyticsBucket string
	ExportPrefix    string

	// Glue / Athena catalog
	GlueDatabase    string
	GlueCrawler     string
	GlueRoleARN     string
	AthenaOutput    string
	AnalyticsTables map[string]string // logical name -> physical table

	// Notifications
	NotifyFunctionName string
	NotifyEventBus     string
	WebSocketEndpoint  string

	// Authentication
	JWTSecret      string
	JWTExpiryHours int

	// Email
	SendGridAPIKey string
	EmailFrom      string

	// Logging and features
	LogLevel      string
	EnableTracing bool
}

// LoadConfig loads configuration from environment variables. Missing
// required values are a fatal startup error; only documented fallbacks
// (region, expiry hours, export prefix) default silently.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		AWSRegion:     getEnv("AWS_REGION", "us-east-1"),

		UsersTable:       getEnv("TABLE_USUARIOS", ""),
		IncidentsTable:   getEnv("TABLE_INCIDENTES", ""),
		EmployeesTable:   getEnv("TABLE_EMPLEADOS", ""),
		LogsTable:        getEnv("TABLE_LOGS", ""),
		ConnectionsTable: getEnv("TABLE_CONEXIONES", ""),

		EvidenceBucket:  getEnv("INCIDENTES_BUCKET", ""),
		AnalyticsBucket: getEnv("ANALITICA_S3_BUCKET", ""),
		ExportPrefix:    getEnv("ANALITICA_S3_PREFIX", "analitica/ingesta"),

		GlueDatabase: getEnv("ANALITICA_GLUE_DATABASE", ""),
		GlueCrawler:  getEnv("ANALITICA_GLUE_CRAWLER", ""),
		GlueRoleARN:  getEnv("ANALITICA_GLUE_ROLE", ""),

		NotifyFunctionName: getEnv("NOTIFY_FUNCTION_NAME", ""),
		NotifyEventBus:     getEnv("NOTIFY_EVENT_BUS", ""),
		WebSocketEndpoint:  getEnv("WEBSOCKET_API_ENDPOINT", ""),

		JWTSecret:      getEnv("JWT_SECRET", ""),
		JWTExpiryHours: getEnvInt("JWT_EXPIRATION_HOURS", 24),

		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		EmailFrom:      getEnv("EMAIL_FROM", "no-reply@example.com"),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableTracing: getEnvBool("ENABLE_TRACING", false),
	}

	if raw := os.Getenv("ANALITICA_TABLES"); raw != "" {
		cfg.AnalyticsTables = ParseTableMapping(raw)
	}
	if cfg.AnalyticsBucket != "" {
		cfg.AthenaOutput = getEnv("ATHENA_OUTPUT_LOCATION",
			fmt.Sprintf("s3://%s/athena-results/", cfg.AnalyticsBucket))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required configuration for the API surface
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.UsersTable == "" {
		return fmt.Errorf("TABLE_USUARIOS is required")
	}
	if c.IncidentsTable == "" {
		return fmt.Errorf("TABLE_INCIDENTES is required")
	}
	return nil
}

// ValidateETL checks the configuration the export pipeline needs
func (c *Config) ValidateETL() error {
	if len(c.AnalyticsTables) == 0 {
		return fmt.Errorf("ANALITICA_TABLES is required")
	}
	if c.AnalyticsBucket == "" {
		return fmt.Errorf("ANALITICA_S3_BUCKET is required")
	}
	if c.GlueDatabase == "" || c.GlueCrawler == "" {
		return fmt.Errorf("ANALITICA_GLUE_DATABASE and ANALITICA_GLUE_CRAWLER are required")
	}
	return nil
}

// ParseTableMapping parses "logical=physical,logical=physical" pairs.
// Malformed pairs are skipped rather than fatal.
func ParseTableMapping(raw string) map[string]string {
	mapping := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		logical, physical, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		logical = strings.TrimSpace(logical)
		physical = strings.TrimSpace(physical)
		if logical != "" && physical != "" {
			mapping[logical] = physical
		}
	}
	return mapping
}

// SortedLogicalTables returns the logical table names in stable order
func (c *Config) SortedLogicalTables() []string {
	names := make([]string, 0, len(c.AnalyticsTables))
	for name := range c.AnalyticsTables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
