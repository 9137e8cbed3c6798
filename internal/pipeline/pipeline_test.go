package pipeline_test

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"

	infra "github.com/finkit/empower-extract/internal/infra/bigquery"
	"github.com/finkit/empower-extract/internal/pipeline"
)

// mockSnapshotRepository implements infra.SnapshotRepository with
// overridable functions so each test wires only what it asserts on.
type mockSnapshotRepository struct {
	InsertSnapshotFunc             func(ctx context.Context, row *infra.SnapshotRow) error
	FindSnapshotByChecksumFunc     func(ctx context.Context, checksum string) (*infra.SnapshotRow, error)
	MarkRunsSupersededFunc         func(ctx context.Context, snapshotID string) error
	MarkSnapshotProcessedFunc      func(ctx context.Context, snapshotID, status string) error
	StartExtractionRunFunc         func(ctx context.Context, snapshotID string) (string, error)
	MarkExtractionRunFailedFunc    func(ctx context.Context, runID string, extractErr error)
	MarkExtractionRunSucceededFunc func(ctx context.Context, runID string, holdingsCount, accountsCount int, warnings []string) error
	InsertHoldingsFunc             func(ctx context.Context, rows []*infra.HoldingRow) error
	InsertAccountsFunc             func(ctx context.Context, rows []*infra.AccountRow) error
}

func (m *mockSnapshotRepository) InsertSnapshot(ctx context.Context, row *infra.SnapshotRow) error {
	if m.InsertSnapshotFunc != nil {
		return m.InsertSnapshotFunc(ctx, row)
	}
	return nil
}

func (m *mockSnapshotRepository) ListAllSnapshots(ctx context.Context) ([]*infra.SnapshotRow, error) {
	return nil, nil
}

func (m *mockSnapshotRepository) FindSnapshotByChecksum(ctx context.Context, checksum string) (*infra.SnapshotRow, error) {
	if m.FindSnapshotByChecksumFunc != nil {
		return m.FindSnapshotByChecksumFunc(ctx, checksum)
	}
	return nil, nil
}

func (m *mockSnapshotRepository) MarkSnapshotProcessed(ctx context.Context, snapshotID, status string) error {
	if m.MarkSnapshotProcessedFunc != nil {
		return m.MarkSnapshotProcessedFunc(ctx, snapshotID, status)
	}
	return nil
}

func (m *mockSnapshotRepository) StartExtractionRun(ctx context.Context, snapshotID string) (string, error) {
	if m.StartExtractionRunFunc != nil {
		return m.StartExtractionRunFunc(ctx, snapshotID)
	}
	return "run-1", nil
}

func (m *mockSnapshotRepository) MarkExtractionRunFailed(ctx context.Context, runID string, extractErr error) {
	if m.MarkExtractionRunFailedFunc != nil {
		m.MarkExtractionRunFailedFunc(ctx, runID, extractErr)
	}
}

func (m *mockSnapshotRepository) MarkExtractionRunSucceeded(ctx context.Context, runID string, holdingsCount, accountsCount int, warnings []string) error {
	if m.MarkExtractionRunSucceededFunc != nil {
		return m.MarkExtractionRunSucceededFunc(ctx, runID, holdingsCount, accountsCount, warnings)
	}
	return nil
}

func (m *mockSnapshotRepository) MarkExtractionRunsSuperseded(ctx context.Context, snapshotID string) error {
	if m.MarkRunsSupersededFunc != nil {
		return m.MarkRunsSupersededFunc(ctx, snapshotID)
	}
	return nil
}

func (m *mockSnapshotRepository) InsertHoldings(ctx context.Context, rows []*infra.HoldingRow) error {
	if m.InsertHoldingsFunc != nil {
		return m.InsertHoldingsFunc(ctx, rows)
	}
	return nil
}

func (m *mockSnapshotRepository) InsertAccounts(ctx context.Context, rows []*infra.AccountRow) error {
	if m.InsertAccountsFunc != nil {
		return m.InsertAccountsFunc(ctx, rows)
	}
	return nil
}

func (m *mockSnapshotRepository) QueryHoldingsByRun(ctx context.Context, runID string) ([]*infra.HoldingRow, error) {
	return nil, nil
}

func (m *mockSnapshotRepository) QueryAccountsByRun(ctx context.Context, runID string) ([]*infra.AccountRow, error) {
	return nil, nil
}

func (m *mockSnapshotRepository) Close() error { return nil }

var _ infra.SnapshotRepository = (*mockSnapshotRepository)(nil)

// mockStorageService implements pipeline.StorageService.
type mockStorageService struct {
	FetchFromGCSFunc              func(ctx context.Context, gcsURI string) ([]byte, error)
	ExtractFilenameFromGCSURIFunc func(uri string) string
}

func (m *mockStorageService) FetchFromGCS(ctx context.Context, gcsURI string) ([]byte, error) {
	return m.FetchFromGCSFunc(ctx, gcsURI)
}

func (m *mockStorageService) ExtractFilenameFromGCSURI(uri string) string {
	return m.ExtractFilenameFromGCSURIFunc(uri)
}

// webArchiveFixture wraps the given flattened lines in a minimal html
// document and packs it as an XML plist webarchive.
func webArchiveFixture(text string) []byte {
	htmlDoc := "<html><body><pre>" + text + "</pre></body></html>"
	return []byte(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>WebMainResource</key>
	<dict>
		<key>WebResourceData</key>
		<data>%s</data>
		<key>WebResourceMIMEType</key>
		<string>text/html</string>
		<key>WebResourceURL</key>
		<string>https://home.personalcapital.com/page/login/app</string>
	</dict>
</dict>
</plist>`, base64.StdEncoding.EncodeToString([]byte(htmlDoc))))
}

const portfolioText = "Holding Shares Price Change 1 Day % 1 day $ Value\n" +
	"AAPL Apple Inc 10 $150.00 $1.00 +0.67% +$10.00 $1,500.00\n" +
	"Grand total +$10.00 $1,500.00\n"

const mismatchedPortfolioText = "Holding Shares Price Change 1 Day % 1 day $ Value\n" +
	"AAPL Apple Inc 10 $100.00 $1.00 +0.67% +$10.00 $1,000.00\n" +
	"Grand total +$10.00 $1,500.00\n"

const netWorthText = "Net worth\n" +
	"$501,234.56\n" +
	"Account\n" +
	"Type\n" +
	"Balance\n" +
	"Cash\n" +
	"$51,234.56\n" +
	"Apple Federal Credit Union\n" +
	"Advantage Checking - Ending in 1234\n" +
	"Checking\n" +
	"$51,234.56\n" +
	"6/1/2025 9:15 AM\n" +
	"Charles Schwab\n" +
	"Schwab Brokerage Individual\n" +
	"Investment\n" +
	"$450,000.00\n" +
	"6/1/2025 9:20 AM\n"

func TestExtractSnapshotFromGCS_Portfolio(t *testing.T) {
	var (
		insertedSnapshot *infra.SnapshotRow
		insertedRows     []*infra.HoldingRow
		succeededRunID   string
		holdingsCount    int
		accountsCount    int
		snapshotStatus   string
	)

	repo := &mockSnapshotRepository{
		InsertSnapshotFunc: func(ctx context.Context, row *infra.SnapshotRow) error {
			insertedSnapshot = row
			return nil
		},
		StartExtractionRunFunc: func(ctx context.Context, snapshotID string) (string, error) {
			return "run-42", nil
		},
		InsertHoldingsFunc: func(ctx context.Context, rows []*infra.HoldingRow) error {
			insertedRows = rows
			return nil
		},
		MarkExtractionRunSucceededFunc: func(ctx context.Context, runID string, hc, ac int, warnings []string) error {
			succeededRunID = runID
			holdingsCount = hc
			accountsCount = ac
			if len(warnings) != 0 {
				t.Errorf("unexpected warnings: %v", warnings)
			}
			return nil
		},
		MarkSnapshotProcessedFunc: func(ctx context.Context, snapshotID, status string) error {
			snapshotStatus = status
			return nil
		},
	}

	storage := &mockStorageService{
		FetchFromGCSFunc: func(ctx context.Context, gcsURI string) ([]byte, error) {
			return webArchiveFixture(portfolioText), nil
		},
		ExtractFilenameFromGCSURIFunc: func(uri string) string {
			return "Empower Personal Dashboard.webarchive"
		},
	}

	uri := "gs://snapshots/Empower Personal Dashboard.webarchive"
	if err := pipeline.ExtractSnapshotFromGCSWithDeps(context.Background(), uri, repo, storage); err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	if insertedSnapshot == nil {
		t.Fatal("snapshot row not inserted")
	}
	if insertedSnapshot.GCSURI != uri {
		t.Errorf("snapshot gcs uri = %q, want %q", insertedSnapshot.GCSURI, uri)
	}
	if insertedSnapshot.ContentType != "portfolio" {
		t.Errorf("snapshot content type = %q, want portfolio", insertedSnapshot.ContentType)
	}
	if insertedSnapshot.ChecksumSHA256 == "" {
		t.Error("snapshot checksum not recorded")
	}

	if len(insertedRows) != 1 {
		t.Fatalf("got %d holding rows, want 1", len(insertedRows))
	}
	row := insertedRows[0]
	if row.Ticker != "AAPL" || row.Name != "Apple Inc" {
		t.Errorf("row = %q/%q, want AAPL/Apple Inc", row.Ticker, row.Name)
	}
	if row.RunID != "run-42" {
		t.Errorf("row run id = %q, want run-42", row.RunID)
	}
	if row.Value == nil || row.Value.RatString() != "1500" {
		t.Errorf("row value = %v, want 1500", row.Value)
	}

	if succeededRunID != "run-42" {
		t.Errorf("succeeded run id = %q, want run-42", succeededRunID)
	}
	if holdingsCount != 1 || accountsCount != 0 {
		t.Errorf("counts = %d/%d, want 1/0", holdingsCount, accountsCount)
	}
	if snapshotStatus != pipeline.StatusSuccess {
		t.Errorf("snapshot status = %q, want %q", snapshotStatus, pipeline.StatusSuccess)
	}
}

func TestExtractSnapshotFromGCS_MismatchProducesWarnings(t *testing.T) {
	var gotWarnings []string

	repo := &mockSnapshotRepository{
		MarkExtractionRunSucceededFunc: func(ctx context.Context, runID string, hc, ac int, warnings []string) error {
			gotWarnings = warnings
			return nil
		},
	}
	storage := &mockStorageService{
		FetchFromGCSFunc: func(ctx context.Context, gcsURI string) ([]byte, error) {
			return webArchiveFixture(mismatchedPortfolioText), nil
		},
		ExtractFilenameFromGCSURIFunc: func(uri string) string {
			return "dashboard.webarchive"
		},
	}

	err := pipeline.ExtractSnapshotFromGCSWithDeps(context.Background(), "gs://snapshots/dashboard.webarchive", repo, storage)
	if err != nil {
		t.Fatalf("pipeline failed: a reconciliation mismatch must not fail the run: %v", err)
	}
	if len(gotWarnings) == 0 {
		t.Fatal("expected reconciliation warnings on the run record")
	}
	found := false
	for _, w := range gotWarnings {
		if strings.Contains(w, "differs from") {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings do not mention the mismatch: %v", gotWarnings)
	}
}

func TestExtractSnapshotFromGCS_NetWorth(t *testing.T) {
	var (
		insertedRows  []*infra.AccountRow
		holdingsCount int
		accountsCount int
	)

	repo := &mockSnapshotRepository{
		InsertAccountsFunc: func(ctx context.Context, rows []*infra.AccountRow) error {
			insertedRows = rows
			return nil
		},
		MarkExtractionRunSucceededFunc: func(ctx context.Context, runID string, hc, ac int, warnings []string) error {
			holdingsCount = hc
			accountsCount = ac
			return nil
		},
	}
	storage := &mockStorageService{
		FetchFromGCSFunc: func(ctx context.Context, gcsURI string) ([]byte, error) {
			return webArchiveFixture(netWorthText), nil
		},
		ExtractFilenameFromGCSURIFunc: func(uri string) string {
			return "Net Worth - Empower.webarchive"
		},
	}

	err := pipeline.ExtractSnapshotFromGCSWithDeps(context.Background(), "gs://snapshots/Net Worth - Empower.webarchive", repo, storage)
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	if len(insertedRows) < 3 {
		t.Fatalf("got %d account rows, want at least 3 (two accounts plus the total)", len(insertedRows))
	}
	last := insertedRows[len(insertedRows)-1]
	if last.Category != "Total" {
		t.Errorf("last row category = %q, want Total", last.Category)
	}
	if last.AsOfDate != "Calculated" {
		t.Errorf("total row as-of date = %q, want Calculated", last.AsOfDate)
	}
	if holdingsCount != 0 || accountsCount != len(insertedRows) {
		t.Errorf("counts = %d/%d, want 0/%d", holdingsCount, accountsCount, len(insertedRows))
	}
}

func TestExtractSnapshotFromGCS_DecodeFailureMarksRunFailed(t *testing.T) {
	var (
		failedRunID    string
		failedErr      error
		snapshotStatus string
	)

	repo := &mockSnapshotRepository{
		StartExtractionRunFunc: func(ctx context.Context, snapshotID string) (string, error) {
			return "run-9", nil
		},
		MarkExtractionRunFailedFunc: func(ctx context.Context, runID string, extractErr error) {
			failedRunID = runID
			failedErr = extractErr
		},
		MarkSnapshotProcessedFunc: func(ctx context.Context, snapshotID, status string) error {
			snapshotStatus = status
			return nil
		},
	}
	storage := &mockStorageService{
		FetchFromGCSFunc: func(ctx context.Context, gcsURI string) ([]byte, error) {
			return []byte("not a plist at all"), nil
		},
		ExtractFilenameFromGCSURIFunc: func(uri string) string {
			return "dashboard.webarchive"
		},
	}

	err := pipeline.ExtractSnapshotFromGCSWithDeps(context.Background(), "gs://snapshots/dashboard.webarchive", repo, storage)
	if err == nil {
		t.Fatal("expected error for undecodable container")
	}
	if failedRunID != "run-9" {
		t.Errorf("failed run id = %q, want run-9", failedRunID)
	}
	if failedErr == nil {
		t.Error("run failure error not recorded")
	}
	if snapshotStatus != pipeline.StatusFailed {
		t.Errorf("snapshot status = %q, want %q", snapshotStatus, pipeline.StatusFailed)
	}
}

func TestExtractSnapshotFromGCS_ReextractionReusesSnapshot(t *testing.T) {
	var (
		supersededSnapshot string
		startedSnapshot    string
	)

	repo := &mockSnapshotRepository{
		FindSnapshotByChecksumFunc: func(ctx context.Context, checksum string) (*infra.SnapshotRow, error) {
			return &infra.SnapshotRow{SnapshotID: "snap-existing", ChecksumSHA256: checksum}, nil
		},
		InsertSnapshotFunc: func(ctx context.Context, row *infra.SnapshotRow) error {
			t.Error("new snapshot row inserted for already-ingested bytes")
			return nil
		},
		StartExtractionRunFunc: func(ctx context.Context, snapshotID string) (string, error) {
			startedSnapshot = snapshotID
			return "run-2", nil
		},
		MarkRunsSupersededFunc: func(ctx context.Context, snapshotID string) error {
			supersededSnapshot = snapshotID
			return nil
		},
	}
	storage := &mockStorageService{
		FetchFromGCSFunc: func(ctx context.Context, gcsURI string) ([]byte, error) {
			return webArchiveFixture(portfolioText), nil
		},
		ExtractFilenameFromGCSURIFunc: func(uri string) string {
			return "dashboard.webarchive"
		},
	}

	err := pipeline.ExtractSnapshotFromGCSWithDeps(context.Background(), "gs://snapshots/dashboard.webarchive", repo, storage)
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	if startedSnapshot != "snap-existing" {
		t.Errorf("run started for snapshot %q, want snap-existing", startedSnapshot)
	}
	if supersededSnapshot != "snap-existing" {
		t.Errorf("superseded snapshot = %q, want snap-existing", supersededSnapshot)
	}
}

func TestExtractSnapshotFromGCS_FetchFailureSkipsSnapshotRow(t *testing.T) {
	fetchErr := errors.New("object not found")

	repo := &mockSnapshotRepository{
		InsertSnapshotFunc: func(ctx context.Context, row *infra.SnapshotRow) error {
			t.Error("snapshot row inserted for an unreadable object")
			return nil
		},
	}
	storage := &mockStorageService{
		FetchFromGCSFunc: func(ctx context.Context, gcsURI string) ([]byte, error) {
			return nil, fetchErr
		},
		ExtractFilenameFromGCSURIFunc: func(uri string) string {
			return "dashboard.webarchive"
		},
	}

	err := pipeline.ExtractSnapshotFromGCSWithDeps(context.Background(), "gs://snapshots/dashboard.webarchive", repo, storage)
	if !errors.Is(err, fetchErr) {
		t.Fatalf("err = %v, want wrapped fetch error", err)
	}
}
