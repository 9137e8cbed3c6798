package bigquery

import (
	"math/big"
	"time"
)

// HoldingRow is one extracted portfolio position. NUMERIC columns map to
// *big.Rat in the BigQuery client.
type HoldingRow struct {
	SnapshotID string `bigquery:"snapshot_id"` // REQUIRED
	RunID      string `bigquery:"run_id"`      // REQUIRED

	Ticker string `bigquery:"ticker"` // REQUIRED
	Name   string `bigquery:"name"`   // NULLABLE

	Shares    *big.Rat `bigquery:"shares"`      // NULLABLE
	Price     *big.Rat `bigquery:"price"`       // NULLABLE
	DayChange *big.Rat `bigquery:"day_change"`  // NULLABLE
	DayPct    string   `bigquery:"day_percent"` // NULLABLE, as printed
	DayDollar *big.Rat `bigquery:"day_dollar"`  // NULLABLE
	Value     *big.Rat `bigquery:"value"`       // REQUIRED

	ExtractedTS time.Time `bigquery:"extracted_ts"` // REQUIRED
}
