package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

// InsertAccounts streams a batch of account rows.
func InsertAccounts(ctx context.Context, rows []*AccountRow) error {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return fmt.Errorf("InsertAccounts: bigquery client: %w", err)
	}
	defer client.Close()

	return InsertAccountsWithClient(ctx, client, rows)
}

// InsertAccountsWithClient streams a batch of account rows using the
// provided BigQuery client.
func InsertAccountsWithClient(ctx context.Context, client *bigquery.Client, rows []*AccountRow) error {
	if len(rows) == 0 {
		return nil
	}

	inserter := client.Dataset(datasetID).Table(accountsTable).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("InsertAccounts: inserting %d rows: %w", len(rows), err)
	}
	return nil
}

// QueryAccountsByRun retrieves all account balances written by one
// extraction run in insertion order.
func QueryAccountsByRunWithClient(ctx context.Context, client *bigquery.Client, runID string) ([]*AccountRow, error) {
	query := fmt.Sprintf(`
		SELECT
			snapshot_id,
			run_id,
			account_name,
			account_type,
			balance,
			category,
			provider,
			as_of_date,
			extracted_ts
		FROM `+"`%s.%s.%s`"+`
		WHERE run_id = @run_id
	`, projectID, datasetID, accountsTable)

	q := client.Query(query)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "run_id", Value: runID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("QueryAccountsByRun: reading query: %w", err)
	}

	var accounts []*AccountRow
	for {
		var row AccountRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("QueryAccountsByRun: iterating: %w", err)
		}
		accounts = append(accounts, &row)
	}
	return accounts, nil
}
