package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

// InsertSnapshot inserts a single SnapshotRow.
func InsertSnapshot(ctx context.Context, row *SnapshotRow) error {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return fmt.Errorf("InsertSnapshot: bigquery client: %w", err)
	}
	defer client.Close()

	return InsertSnapshotWithClient(ctx, client, row)
}

// InsertSnapshotWithClient inserts a single SnapshotRow using the
// provided BigQuery client.
func InsertSnapshotWithClient(ctx context.Context, client *bigquery.Client, row *SnapshotRow) error {
	inserter := client.Dataset(datasetID).Table(snapshotsTable).Inserter()
	if err := inserter.Put(ctx, row); err != nil {
		return fmt.Errorf("InsertSnapshot: inserting row: %w", err)
	}
	return nil
}

// ListAllSnapshots retrieves all snapshots, newest first.
func ListAllSnapshots(ctx context.Context) ([]*SnapshotRow, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("ListAllSnapshots: creating client: %w", err)
	}
	defer client.Close()

	return ListAllSnapshotsWithClient(ctx, client)
}

// ListAllSnapshotsWithClient retrieves all snapshots using the provided
// BigQuery client.
func ListAllSnapshotsWithClient(ctx context.Context, client *bigquery.Client) ([]*SnapshotRow, error) {
	query := fmt.Sprintf(`
		SELECT
			snapshot_id,
			user_id,
			gcs_uri,
			container_kind,
			content_type,
			upload_ts,
			processed_ts,
			extraction_status,
			original_filename,
			file_mime_type,
			checksum_sha256,
			metadata
		FROM `+"`%s.%s.%s`"+`
		ORDER BY upload_ts DESC
	`, projectID, datasetID, snapshotsTable)

	it, err := client.Query(query).Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListAllSnapshotsWithClient: reading query: %w", err)
	}

	var snapshots []*SnapshotRow
	for {
		var row SnapshotRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListAllSnapshotsWithClient: iterating: %w", err)
		}
		snapshots = append(snapshots, &row)
	}
	return snapshots, nil
}

// FindSnapshotByChecksum retrieves a snapshot by its SHA-256 checksum.
// Returns nil when no snapshot matches, so re-uploads can be detected
// without an error path.
func FindSnapshotByChecksum(ctx context.Context, checksum string) (*SnapshotRow, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("FindSnapshotByChecksum: creating client: %w", err)
	}
	defer client.Close()

	return FindSnapshotByChecksumWithClient(ctx, client, checksum)
}

// FindSnapshotByChecksumWithClient retrieves a snapshot by checksum using
// the provided BigQuery client.
func FindSnapshotByChecksumWithClient(ctx context.Context, client *bigquery.Client, checksum string) (*SnapshotRow, error) {
	query := fmt.Sprintf(`
		SELECT
			snapshot_id,
			user_id,
			gcs_uri,
			container_kind,
			content_type,
			upload_ts,
			processed_ts,
			extraction_status,
			original_filename,
			file_mime_type,
			checksum_sha256,
			metadata
		FROM `+"`%s.%s.%s`"+`
		WHERE checksum_sha256 = @checksum
		LIMIT 1
	`, projectID, datasetID, snapshotsTable)

	q := client.Query(query)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "checksum", Value: checksum},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("FindSnapshotByChecksumWithClient: reading query: %w", err)
	}

	var row SnapshotRow
	err = it.Next(&row)
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindSnapshotByChecksumWithClient: reading row: %w", err)
	}
	return &row, nil
}

// MarkSnapshotProcessed sets extraction_status and processed_ts on a
// snapshot row.
func MarkSnapshotProcessedWithClient(ctx context.Context, client *bigquery.Client, snapshotID, status string) error {
	query := fmt.Sprintf(`
		UPDATE `+"`%s.%s.%s`"+`
		SET extraction_status = @status,
		    processed_ts = CURRENT_TIMESTAMP()
		WHERE snapshot_id = @snapshot_id
	`, projectID, datasetID, snapshotsTable)

	q := client.Query(query)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "status", Value: status},
		{Name: "snapshot_id", Value: snapshotID},
	}

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("MarkSnapshotProcessed: running update query: %w", err)
	}
	jobStatus, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("MarkSnapshotProcessed: waiting for job: %w", err)
	}
	if err := jobStatus.Err(); err != nil {
		return fmt.Errorf("MarkSnapshotProcessed: job error: %w", err)
	}
	return nil
}
