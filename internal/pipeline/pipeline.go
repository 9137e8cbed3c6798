// Package pipeline orchestrates snapshot ingestion: fetch the container
// from GCS, decode it to flattened text, run the extraction engine, and
// persist the results with a run record.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finkit/empower-extract/internal/archive"
	"github.com/finkit/empower-extract/internal/extract"
	"github.com/finkit/empower-extract/internal/gcsuploader"
	infra "github.com/finkit/empower-extract/internal/infra/bigquery"
	"github.com/finkit/empower-extract/internal/logger"
)

// ExtractSnapshotFromGCS processes a single snapshot file stored in GCS.
// gcsURI should look like "gs://bucket/path/to/dashboard.webarchive".
func ExtractSnapshotFromGCS(ctx context.Context, gcsURI string) error {
	repo, err := infra.NewBigQuerySnapshotRepository(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	storage, err := gcsuploader.NewGCSStorageService(ctx)
	if err != nil {
		return err
	}
	defer storage.Close()

	return ExtractSnapshotFromGCSWithDeps(ctx, gcsURI, repo, storage)
}

// ExtractSnapshotFromGCSWithDeps runs the pipeline with injected
// dependencies, which is what the tests exercise.
func ExtractSnapshotFromGCSWithDeps(ctx context.Context, gcsURI string, repo infra.SnapshotRepository, storage StorageService) error {
	log := logger.FromContext(ctx)

	filename := storage.ExtractFilenameFromGCSURI(gcsURI)
	kind := archive.DetectKind(filename)
	contentType := archive.DetectContentType(filename)

	// 1. Fetch the container bytes first: a snapshot row for a file we
	// cannot read is noise.
	data, err := storage.FetchFromGCS(ctx, gcsURI)
	if err != nil {
		return fmt.Errorf("fetch snapshot %s: %w", gcsURI, err)
	}

	checksum := sha256.Sum256(data)
	checksumHex := hex.EncodeToString(checksum[:])

	// 2. Create the snapshot record, or reuse the existing one when
	// these exact bytes were ingested before. A re-extraction gets a
	// fresh run against the same snapshot row.
	existing, err := repo.FindSnapshotByChecksum(ctx, checksumHex)
	if err != nil {
		return fmt.Errorf("find snapshot by checksum: %w", err)
	}

	var snapshot *infra.SnapshotRow
	if existing != nil {
		snapshot = existing
		log.Info().
			Str("snapshot_id", snapshot.SnapshotID).
			Str("checksum", checksumHex).
			Msg("snapshot already ingested, re-extracting")
	} else {
		snapshot = &infra.SnapshotRow{
			SnapshotID:       uuid.NewString(),
			UserID:           DefaultUserID,
			GCSURI:           gcsURI,
			ContainerKind:    string(kind),
			ContentType:      string(contentType),
			UploadTS:         time.Now(),
			ExtractionStatus: StatusPending,
			OriginalFilename: filename,
			ChecksumSHA256:   checksumHex,
		}
		if err := repo.InsertSnapshot(ctx, snapshot); err != nil {
			return fmt.Errorf("insert snapshot: %w", err)
		}
	}
	snapshotID := snapshot.SnapshotID

	// 3. Start an extraction run. On a re-extraction the earlier
	// successful runs stop being current.
	runID, err := repo.StartExtractionRun(ctx, snapshotID)
	if err != nil {
		return fmt.Errorf("start extraction run: %w", err)
	}
	if existing != nil {
		if err := repo.MarkExtractionRunsSuperseded(ctx, snapshotID); err != nil {
			log.Error().Err(err).Str("snapshot_id", snapshotID).Msg("mark earlier runs superseded")
		}
	}

	if err := runExtraction(ctx, repo, snapshot, runID, filename, data, contentType); err != nil {
		repo.MarkExtractionRunFailed(ctx, runID, err)
		if markErr := repo.MarkSnapshotProcessed(ctx, snapshotID, StatusFailed); markErr != nil {
			log.Error().Err(markErr).Str("snapshot_id", snapshotID).Msg("mark snapshot failed status")
		}
		return err
	}

	if err := repo.MarkSnapshotProcessed(ctx, snapshotID, StatusSuccess); err != nil {
		return fmt.Errorf("mark snapshot processed: %w", err)
	}

	log.Info().
		Str("snapshot_id", snapshotID).
		Str("run_id", runID).
		Str("content_type", string(contentType)).
		Msg("snapshot extraction completed")
	return nil
}

// runExtraction decodes the container, runs the matching engine and
// inserts the extracted rows.
func runExtraction(ctx context.Context, repo infra.SnapshotRepository, snapshot *infra.SnapshotRow, runID, filename string, data []byte, contentType archive.ContentType) error {
	log := logger.FromContext(ctx)

	text, err := archive.ExtractText(filename, data)
	if err != nil {
		return fmt.Errorf("decode snapshot container: %w", err)
	}

	now := time.Now()
	switch contentType {
	case archive.ContentPortfolio:
		res, err := extract.ExtractHoldings(text)
		if err != nil {
			return fmt.Errorf("extract holdings: %w", err)
		}
		if err := validateHoldings(res); err != nil {
			return fmt.Errorf("validate holdings: %w", err)
		}

		warnings := reconciliationWarnings(res.GrandTotals)
		for _, w := range warnings {
			log.Warn().Str("run_id", runID).Msg(w)
		}

		rows := holdingsToRows(res, snapshot.SnapshotID, runID, now)
		if err := repo.InsertHoldings(ctx, rows); err != nil {
			return fmt.Errorf("insert holdings: %w", err)
		}
		return repo.MarkExtractionRunSucceeded(ctx, runID, len(rows), 0, warnings)

	case archive.ContentNetWorth:
		accounts, err := extract.ExtractNetWorth(text)
		if err != nil {
			return fmt.Errorf("extract net worth: %w", err)
		}
		if err := validateAccounts(accounts); err != nil {
			return fmt.Errorf("validate accounts: %w", err)
		}

		rows := accountsToRows(accounts, snapshot.SnapshotID, runID, now)
		if err := repo.InsertAccounts(ctx, rows); err != nil {
			return fmt.Errorf("insert accounts: %w", err)
		}
		return repo.MarkExtractionRunSucceeded(ctx, runID, 0, len(rows), nil)

	default:
		return fmt.Errorf("unsupported content type %q", contentType)
	}
}
