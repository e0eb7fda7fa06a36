package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	athenaTypes "github.com/aws/aws-sdk-go-v2/service/athena/types"
	"go.uber.org/zap"

	apperrors "alerta-utec-backend/pkg/errors"
)

// AthenaAPI is the slice of the Athena client the query runner needs
type AthenaAPI interface {
	StartQueryExecution(ctx context.Context, params *athena.StartQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.StartQueryExecutionOutput, error)
	GetQueryExecution(ctx context.Context, params *athena.GetQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.GetQueryExecutionOutput, error)
	GetQueryResults(ctx context.Context, params *athena.GetQueryResultsInput, optFns ...func(*athena.Options)) (*athena.GetQueryResultsOutput, error)
}

const (
	queryPollInterval = time.Second
	queryMaxPolls     = 30
)

// QueryResult is a parsed Athena result set
type QueryResult struct {
	Columns []string            `json:"columnas"`
	Rows    []map[string]string `json:"filas"`
}

// QueryRunner executes SQL against the analytics catalog and parses the
// result set into plain rows.
type QueryRunner struct {
	client   AthenaAPI
	database string
	output   string
	logger   *zap.Logger

	sleep func(time.Duration)
}

// NewQueryRunner creates a query runner. output is the s3:// location for
// Athena result spills.
func NewQueryRunner(client AthenaAPI, database, output string, logger *zap.Logger) *QueryRunner {
	return &QueryRunner{
		client:   client,
		database: database,
		output:   output,
		logger:   logger,
		sleep:    time.Sleep,
	}
}

// Run starts the query, waits for it to finish and returns the parsed rows
func (r *QueryRunner) Run(ctx context.Context, sql string) (*QueryResult, error) {
	start, err := r.client.StartQueryExecution(ctx, &athena.StartQueryExecutionInput{
		QueryString: aws.String(sql),
		QueryExecutionContext: &athenaTypes.QueryExecutionContext{
			Database: aws.String(r.database),
		},
		ResultConfiguration: &athenaTypes.ResultConfiguration{
			OutputLocation: aws.String(r.output),
		},
	})
	if err != nil {
		return nil, apperrors.NewExternalError("No se pudo iniciar la consulta Athena").WithCause(err)
	}
	queryID := aws.ToString(start.QueryExecutionId)

	if err := r.waitForQuery(ctx, queryID); err != nil {
		return nil, err
	}
	return r.fetchResults(ctx, queryID)
}

func (r *QueryRunner) waitForQuery(ctx context.Context, queryID string) error {
	for attempt := 0; attempt < queryMaxPolls; attempt++ {
		out, err := r.client.GetQueryExecution(ctx, &athena.GetQueryExecutionInput{
			QueryExecutionId: aws.String(queryID),
		})
		if err != nil {
			return fmt.Errorf("poll query %s: %w", queryID, err)
		}

		status := out.QueryExecution.Status
		switch status.State {
		case athenaTypes.QueryExecutionStateSucceeded:
			return nil
		case athenaTypes.QueryExecutionStateFailed, athenaTypes.QueryExecutionStateCancelled:
			reason := aws.ToString(status.StateChangeReason)
			r.logger.Error("athena query failed",
				zap.String("query_id", queryID),
				zap.String("estado", string(status.State)),
				zap.String("motivo", reason),
			)
			return apperrors.NewExternalError(fmt.Sprintf("Consulta Athena terminó en %s: %s", status.State, reason))
		}
		r.sleep(queryPollInterval)
	}
	return apperrors.NewTimeoutError("La consulta Athena no terminó a tiempo")
}

// fetchResults parses the result set; the first row carries the column
// headers, every following row one record.
func (r *QueryRunner) fetchResults(ctx context.Context, queryID string) (*QueryResult, error) {
	out, err := r.client.GetQueryResults(ctx, &athena.GetQueryResultsInput{
		QueryExecutionId: aws.String(queryID),
	})
	if err != nil {
		return nil, fmt.Errorf("fetch query results %s: %w", queryID, err)
	}

	result := &QueryResult{Rows: []map[string]string{}}
	if out.ResultSet == nil || len(out.ResultSet.Rows) == 0 {
		return result, nil
	}

	for _, datum := range out.ResultSet.Rows[0].Data {
		result.Columns = append(result.Columns, aws.ToString(datum.VarCharValue))
	}

	for _, row := range out.ResultSet.Rows[1:] {
		record := make(map[string]string, len(result.Columns))
		for i, datum := range row.Data {
			if i >= len(result.Columns) {
				break
			}
			record[result.Columns[i]] = aws.ToString(datum.VarCharValue)
		}
		result.Rows = append(result.Rows, record)
	}
	return result, nil
}
