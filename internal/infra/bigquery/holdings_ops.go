package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

// InsertHoldings streams a batch of holding rows.
func InsertHoldings(ctx context.Context, rows []*HoldingRow) error {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return fmt.Errorf("InsertHoldings: bigquery client: %w", err)
	}
	defer client.Close()

	return InsertHoldingsWithClient(ctx, client, rows)
}

// InsertHoldingsWithClient streams a batch of holding rows using the
// provided BigQuery client.
func InsertHoldingsWithClient(ctx context.Context, client *bigquery.Client, rows []*HoldingRow) error {
	if len(rows) == 0 {
		return nil
	}

	inserter := client.Dataset(datasetID).Table(holdingsTable).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("InsertHoldings: inserting %d rows: %w", len(rows), err)
	}
	return nil
}

// QueryHoldingsByRun retrieves all holdings written by one extraction
// run, largest position first.
func QueryHoldingsByRunWithClient(ctx context.Context, client *bigquery.Client, runID string) ([]*HoldingRow, error) {
	query := fmt.Sprintf(`
		SELECT
			snapshot_id,
			run_id,
			ticker,
			name,
			shares,
			price,
			day_change,
			day_percent,
			day_dollar,
			value,
			extracted_ts
		FROM `+"`%s.%s.%s`"+`
		WHERE run_id = @run_id
		ORDER BY value DESC
	`, projectID, datasetID, holdingsTable)

	q := client.Query(query)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "run_id", Value: runID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("QueryHoldingsByRun: reading query: %w", err)
	}

	var holdings []*HoldingRow
	for {
		var row HoldingRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("QueryHoldingsByRun: iterating: %w", err)
		}
		holdings = append(holdings, &row)
	}
	return holdings, nil
}
