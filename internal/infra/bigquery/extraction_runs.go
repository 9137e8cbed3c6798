package bigquery

import (
	"time"

	"cloud.google.com/go/bigquery"
)

// ExtractionRunRow records one attempt to run the extraction engine over
// a snapshot.
type ExtractionRunRow struct {
	RunID      string `bigquery:"run_id"`      // REQUIRED
	SnapshotID string `bigquery:"snapshot_id"` // REQUIRED

	StartedTS  time.Time              `bigquery:"started_ts"`  // REQUIRED
	FinishedTS bigquery.NullTimestamp `bigquery:"finished_ts"` // NULLABLE

	ExtractorVersion string `bigquery:"extractor_version"` // NULLABLE

	Status       string `bigquery:"status"`        // NULLABLE
	ErrorMessage string `bigquery:"error_message"` // NULLABLE

	// Warnings carries non-fatal findings, like a grand total that does
	// not reconcile with the summed holdings.
	Warnings string `bigquery:"warnings"` // NULLABLE

	HoldingsCount bigquery.NullInt64 `bigquery:"holdings_count"` // NULLABLE
	AccountsCount bigquery.NullInt64 `bigquery:"accounts_count"` // NULLABLE

	Metadata bigquery.NullJSON `bigquery:"metadata"` // NULLABLE
}
