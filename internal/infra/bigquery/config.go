// Package bigquery stores snapshots, extraction runs and their extracted
// holdings and account balances in BigQuery.
package bigquery

import "os"

const (
	defaultProjectID = "studious-union-470122-v7"
	defaultDatasetID = "empower"

	snapshotsTable      = "snapshots"
	extractionRunsTable = "extraction_runs"
	holdingsTable       = "holdings"
	accountsTable       = "accounts"
)

var (
	projectID = envOr("BQ_PROJECT", defaultProjectID)
	datasetID = envOr("BQ_DATASET", defaultDatasetID)
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
