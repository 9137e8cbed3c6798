package bigquery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/google/uuid"

	"github.com/finkit/empower-extract/internal/logger"
)

// ExtractorVersion tags every run so reprocessed snapshots can be told
// apart after matcher changes.
const ExtractorVersion = "v1"

// StartExtractionRun inserts a new extraction_runs row with
// status=RUNNING and returns the generated run_id.
func StartExtractionRun(ctx context.Context, snapshotID string) (string, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return "", fmt.Errorf("StartExtractionRun: bigquery client: %w", err)
	}
	defer client.Close()

	return StartExtractionRunWithClient(ctx, client, snapshotID)
}

// StartExtractionRunWithClient inserts a new extraction_runs row with
// status=RUNNING using the provided BigQuery client.
func StartExtractionRunWithClient(ctx context.Context, client *bigquery.Client, snapshotID string) (string, error) {
	runID := uuid.NewString()

	q := client.Query(fmt.Sprintf(`
		INSERT %s.%s (
			run_id,
			snapshot_id,
			started_ts,
			extractor_version,
			status
		)
		VALUES (
			@run_id,
			@snapshot_id,
			@started_ts,
			@extractor_version,
			@status
		)
	`, datasetID, extractionRunsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "run_id", Value: runID},
		{Name: "snapshot_id", Value: snapshotID},
		{Name: "started_ts", Value: time.Now()},
		{Name: "extractor_version", Value: ExtractorVersion},
		{Name: "status", Value: "RUNNING"},
	}

	job, err := q.Run(ctx)
	if err != nil {
		return "", fmt.Errorf("StartExtractionRun: running insert query: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return "", fmt.Errorf("StartExtractionRun: waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return "", fmt.Errorf("StartExtractionRun: job error: %w", err)
	}

	return runID, nil
}

// MarkExtractionRunFailed sets status=FAILED, finished_ts and
// error_message. Errors are logged rather than returned since this runs
// on failure paths that already carry an error.
func MarkExtractionRunFailed(ctx context.Context, runID string, extractErr error) {
	log := logger.FromContext(ctx)

	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		log.Error().Err(err).Str("run_id", runID).Msg("MarkExtractionRunFailed: bigquery client error")
		return
	}
	defer client.Close()

	MarkExtractionRunFailedWithClient(ctx, client, runID, extractErr)
}

// MarkExtractionRunFailedWithClient sets status=FAILED using the
// provided BigQuery client.
func MarkExtractionRunFailedWithClient(ctx context.Context, client *bigquery.Client, runID string, extractErr error) {
	log := logger.FromContext(ctx)

	errMsg := ""
	if extractErr != nil {
		errMsg = extractErr.Error()
		const maxLen = 2000
		if len(errMsg) > maxLen {
			errMsg = errMsg[:maxLen]
		}
	}

	q := client.Query(fmt.Sprintf(`
		UPDATE %s.%s
		SET status = @status,
		    finished_ts = @finished_ts,
		    error_message = @error_message
		WHERE run_id = @run_id
	`, datasetID, extractionRunsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "status", Value: "FAILED"},
		{Name: "finished_ts", Value: time.Now()},
		{Name: "error_message", Value: errMsg},
		{Name: "run_id", Value: runID},
	}

	job, err := q.Run(ctx)
	if err != nil {
		log.Error().Err(err).Str("run_id", runID).Msg("MarkExtractionRunFailed: running update query")
		return
	}
	status, err := job.Wait(ctx)
	if err != nil {
		log.Error().Err(err).Str("run_id", runID).Msg("MarkExtractionRunFailed: waiting for job")
		return
	}
	if err := status.Err(); err != nil {
		log.Error().Err(err).Str("run_id", runID).Msg("MarkExtractionRunFailed: job completed with error")
	}
}

// MarkExtractionRunSucceeded sets status=SUCCESS, finished_ts, row
// counts and any reconciliation warnings.
func MarkExtractionRunSucceeded(ctx context.Context, runID string, holdingsCount, accountsCount int, warnings []string) error {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return fmt.Errorf("MarkExtractionRunSucceeded: bigquery client: %w", err)
	}
	defer client.Close()

	return MarkExtractionRunSucceededWithClient(ctx, client, runID, holdingsCount, accountsCount, warnings)
}

// MarkExtractionRunSucceededWithClient sets status=SUCCESS using the
// provided BigQuery client.
func MarkExtractionRunSucceededWithClient(ctx context.Context, client *bigquery.Client, runID string, holdingsCount, accountsCount int, warnings []string) error {
	q := client.Query(fmt.Sprintf(`
		UPDATE %s.%s
		SET status = @status,
		    finished_ts = @finished_ts,
		    error_message = "",
		    warnings = @warnings,
		    holdings_count = @holdings_count,
		    accounts_count = @accounts_count
		WHERE run_id = @run_id
	`, datasetID, extractionRunsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "status", Value: "SUCCESS"},
		{Name: "finished_ts", Value: time.Now()},
		{Name: "warnings", Value: strings.Join(warnings, "; ")},
		{Name: "holdings_count", Value: int64(holdingsCount)},
		{Name: "accounts_count", Value: int64(accountsCount)},
		{Name: "run_id", Value: runID},
	}

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("MarkExtractionRunSucceeded: running update query: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("MarkExtractionRunSucceeded: waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("MarkExtractionRunSucceeded: job error: %w", err)
	}
	return nil
}

// MarkExtractionRunsSuperseded marks all previous runs for a snapshot as
// SUPERSEDED so reprocessing keeps a single authoritative run.
func MarkExtractionRunsSuperseded(ctx context.Context, snapshotID string) error {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return fmt.Errorf("MarkExtractionRunsSuperseded: bigquery client: %w", err)
	}
	defer client.Close()

	return MarkExtractionRunsSupersededWithClient(ctx, client, snapshotID)
}

// MarkExtractionRunsSupersededWithClient marks previous runs SUPERSEDED
// using the provided BigQuery client.
func MarkExtractionRunsSupersededWithClient(ctx context.Context, client *bigquery.Client, snapshotID string) error {
	q := client.Query(fmt.Sprintf(`
		UPDATE %s.%s
		SET status = "SUPERSEDED"
		WHERE snapshot_id = @snapshot_id
		  AND status = "SUCCESS"
	`, datasetID, extractionRunsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "snapshot_id", Value: snapshotID},
	}

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("MarkExtractionRunsSuperseded: running update query: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("MarkExtractionRunsSuperseded: waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("MarkExtractionRunsSuperseded: job error: %w", err)
	}
	return nil
}
