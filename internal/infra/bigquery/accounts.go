package bigquery

import (
	"math/big"
	"time"
)

// AccountRow is one extracted net-worth account balance.
type AccountRow struct {
	SnapshotID string `bigquery:"snapshot_id"` // REQUIRED
	RunID      string `bigquery:"run_id"`      // REQUIRED

	AccountName string `bigquery:"account_name"` // REQUIRED
	AccountType string `bigquery:"account_type"` // NULLABLE

	Balance *big.Rat `bigquery:"balance"` // REQUIRED

	Category string `bigquery:"category"` // NULLABLE
	Provider string `bigquery:"provider"` // NULLABLE

	// AsOfDate keeps the date string the dashboard printed, e.g.
	// "7/15/2025" or "Calculated" for the synthetic total row.
	AsOfDate string `bigquery:"as_of_date"` // NULLABLE

	ExtractedTS time.Time `bigquery:"extracted_ts"` // REQUIRED
}
