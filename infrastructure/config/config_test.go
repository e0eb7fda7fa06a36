package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "secreto")
	t.Setenv("TABLE_USUARIOS", "usuarios")
	t.Setenv("TABLE_INCIDENTES", "incidentes")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "us-east-1", cfg.AWSRegion)
	assert.Equal(t, 24, cfg.JWTExpiryHours)
	assert.Equal(t, "analitica/ingesta", cfg.ExportPrefix)
	assert.Equal(t, ":8080", cfg.ServerAddress)
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("TABLE_USUARIOS", "usuarios")
	t.Setenv("TABLE_INCIDENTES", "incidentes")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestAthenaOutputDerivedFromBucket(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ANALITICA_S3_BUCKET", "analitica-bucket")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "s3://analitica-bucket/athena-results/", cfg.AthenaOutput)
}

func TestParseTableMapping(t *testing.T) {
	mapping := ParseTableMapping("incidentes=tabla-inc, usuarios = tabla-usr,malformado,=vacio,clave=")

	assert.Equal(t, map[string]string{
		"incidentes": "tabla-inc",
		"usuarios":   "tabla-usr",
	}, mapping)
}

func TestSortedLogicalTables(t *testing.T) {
	cfg := &Config{AnalyticsTables: map[string]string{
		"usuarios":   "t-u",
		"incidentes": "t-i",
		"empleados":  "t-e",
	}}
	assert.Equal(t, []string{"empleados", "incidentes", "usuarios"}, cfg.SortedLogicalTables())
}

func TestValidateETL(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.ValidateETL())

	cfg.AnalyticsTables = map[string]string{"incidentes": "t-i"}
	cfg.AnalyticsBucket = "bucket"
	cfg.GlueDatabase = "db"
	cfg.GlueCrawler = "crawler"
	assert.NoError(t, cfg.ValidateETL())
}
