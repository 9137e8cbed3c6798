package bigquery

import (
	"time"

	"cloud.google.com/go/bigquery"
)

// SnapshotRow is one uploaded dashboard snapshot file.
type SnapshotRow struct {
	SnapshotID string `bigquery:"snapshot_id"` // REQUIRED
	UserID     string `bigquery:"user_id"`     // NULLABLE
	GCSURI     string `bigquery:"gcs_uri"`     // REQUIRED

	// ContainerKind is webarchive, mhtml or json.
	ContainerKind string `bigquery:"container_kind"` // NULLABLE

	// ContentType is portfolio or net_worth.
	ContentType string `bigquery:"content_type"` // NULLABLE

	UploadTS    time.Time              `bigquery:"upload_ts"`    // REQUIRED
	ProcessedTS bigquery.NullTimestamp `bigquery:"processed_ts"` // NULLABLE

	ExtractionStatus string `bigquery:"extraction_status"` // NULLABLE

	OriginalFilename string `bigquery:"original_filename"` // NULLABLE
	FileMimeType     string `bigquery:"file_mime_type"`    // NULLABLE

	ChecksumSHA256 string `bigquery:"checksum_sha256"` // NULLABLE

	Metadata bigquery.NullJSON `bigquery:"metadata"` // NULLABLE
}
