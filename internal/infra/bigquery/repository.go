package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
)

// SnapshotRepository is the storage interface the pipeline and API
// handlers program against.
type SnapshotRepository interface {
	InsertSnapshot(ctx context.Context, row *SnapshotRow) error
	ListAllSnapshots(ctx context.Context) ([]*SnapshotRow, error)
	FindSnapshotByChecksum(ctx context.Context, checksum string) (*SnapshotRow, error)
	MarkSnapshotProcessed(ctx context.Context, snapshotID, status string) error

	StartExtractionRun(ctx context.Context, snapshotID string) (string, error)
	MarkExtractionRunFailed(ctx context.Context, runID string, extractErr error)
	MarkExtractionRunSucceeded(ctx context.Context, runID string, holdingsCount, accountsCount int, warnings []string) error
	MarkExtractionRunsSuperseded(ctx context.Context, snapshotID string) error

	InsertHoldings(ctx context.Context, rows []*HoldingRow) error
	InsertAccounts(ctx context.Context, rows []*AccountRow) error
	QueryHoldingsByRun(ctx context.Context, runID string) ([]*HoldingRow, error)
	QueryAccountsByRun(ctx context.Context, runID string) ([]*AccountRow, error)

	Close() error
}

// BigQuerySnapshotRepository implements SnapshotRepository over a shared
// BigQuery client so each operation doesn't pay for a new connection.
type BigQuerySnapshotRepository struct {
	client *bigquery.Client
}

// NewBigQuerySnapshotRepository creates a repository with a shared
// BigQuery client.
func NewBigQuerySnapshotRepository(ctx context.Context) (*BigQuerySnapshotRepository, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewBigQuerySnapshotRepository: creating client: %w", err)
	}
	return &BigQuerySnapshotRepository{client: client}, nil
}

// Close closes the BigQuery client connection.
func (r *BigQuerySnapshotRepository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

func (r *BigQuerySnapshotRepository) InsertSnapshot(ctx context.Context, row *SnapshotRow) error {
	return InsertSnapshotWithClient(ctx, r.client, row)
}

func (r *BigQuerySnapshotRepository) ListAllSnapshots(ctx context.Context) ([]*SnapshotRow, error) {
	return ListAllSnapshotsWithClient(ctx, r.client)
}

func (r *BigQuerySnapshotRepository) FindSnapshotByChecksum(ctx context.Context, checksum string) (*SnapshotRow, error) {
	return FindSnapshotByChecksumWithClient(ctx, r.client, checksum)
}

func (r *BigQuerySnapshotRepository) MarkSnapshotProcessed(ctx context.Context, snapshotID, status string) error {
	return MarkSnapshotProcessedWithClient(ctx, r.client, snapshotID, status)
}

func (r *BigQuerySnapshotRepository) StartExtractionRun(ctx context.Context, snapshotID string) (string, error) {
	return StartExtractionRunWithClient(ctx, r.client, snapshotID)
}

func (r *BigQuerySnapshotRepository) MarkExtractionRunFailed(ctx context.Context, runID string, extractErr error) {
	MarkExtractionRunFailedWithClient(ctx, r.client, runID, extractErr)
}

func (r *BigQuerySnapshotRepository) MarkExtractionRunSucceeded(ctx context.Context, runID string, holdingsCount, accountsCount int, warnings []string) error {
	return MarkExtractionRunSucceededWithClient(ctx, r.client, runID, holdingsCount, accountsCount, warnings)
}

func (r *BigQuerySnapshotRepository) MarkExtractionRunsSuperseded(ctx context.Context, snapshotID string) error {
	return MarkExtractionRunsSupersededWithClient(ctx, r.client, snapshotID)
}

func (r *BigQuerySnapshotRepository) InsertHoldings(ctx context.Context, rows []*HoldingRow) error {
	return InsertHoldingsWithClient(ctx, r.client, rows)
}

func (r *BigQuerySnapshotRepository) InsertAccounts(ctx context.Context, rows []*AccountRow) error {
	return InsertAccountsWithClient(ctx, r.client, rows)
}

func (r *BigQuerySnapshotRepository) QueryHoldingsByRun(ctx context.Context, runID string) ([]*HoldingRow, error) {
	return QueryHoldingsByRunWithClient(ctx, r.client, runID)
}

func (r *BigQuerySnapshotRepository) QueryAccountsByRun(ctx context.Context, runID string) ([]*AccountRow, error) {
	return QueryAccountsByRunWithClient(ctx, r.client, runID)
}

var _ SnapshotRepository = (*BigQuerySnapshotRepository)(nil)
