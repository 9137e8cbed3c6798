package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/finkit/empower-extract/internal/archive"
	"github.com/finkit/empower-extract/internal/extract"
	"github.com/finkit/empower-extract/internal/gcsuploader"
	infraBQ "github.com/finkit/empower-extract/internal/infra/bigquery"
	"github.com/finkit/empower-extract/internal/insights"
	"github.com/finkit/empower-extract/internal/logger"
	"github.com/finkit/empower-extract/internal/pipeline"
	"github.com/finkit/empower-extract/internal/report"
	"github.com/finkit/empower-extract/internal/stats"
	"github.com/finkit/empower-extract/internal/timeline"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "holdings":
		runHoldings(log)
	case "networth":
		runNetWorth(log)
	case "timeline":
		runTimeline(log)
	case "stats":
		runStats(log)
	case "insights":
		runInsights(log)
	case "upload":
		runUpload(log)
	case "ingest":
		runIngest(log)
	case "inspect":
		runInspect(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Empower Extract CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  holdings  Extract portfolio holdings from a local snapshot file")
	fmt.Println("  networth  Extract account balances from a local snapshot file")
	fmt.Println("  timeline  Convert a net-worth history JSON export")
	fmt.Println("  stats     Portfolio concentration statistics for a snapshot")
	fmt.Println("  insights  Model-written portfolio commentary for a snapshot")
	fmt.Println("  upload    Upload a snapshot file to GCS")
	fmt.Println("  ingest    Run the extraction pipeline against a GCS snapshot")
	fmt.Println("  inspect   Inspect a snapshot and its extracted rows")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

// flattenLocalFile reads a snapshot from disk and returns its flattened
// text.
func flattenLocalFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return archive.ExtractText(filepath.Base(path), data)
}

// writeOutput writes content to the given path, or stdout when the path
// is empty.
func writeOutput(path, content string) error {
	if path == "" {
		fmt.Println(content)
		return nil
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

func runHoldings(log zerolog.Logger) {
	fs := flag.NewFlagSet("holdings", flag.ExitOnError)
	file := fs.String("file", "", "Path to a .webarchive or .mhtml snapshot")
	csvOut := fs.String("csv", "", "Write holdings CSV to this path")
	textOut := fs.String("text", "", "Write the text report to this path (default stdout)")
	tolerance := fs.Float64("tolerance", extract.DefaultGrandTotalTolerance, "Relative tolerance for grand-total reconciliation")
	fs.Parse(os.Args[2:])

	if *file == "" {
		log.Fatal().Msg("Error: --file is required")
	}

	text, err := flattenLocalFile(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read snapshot")
	}

	res, err := extract.ExtractHoldingsTolerance(text, *tolerance)
	if err != nil {
		log.Fatal().Err(err).Msg("Holdings extraction failed")
	}

	log.Info().Int("holdings", len(res.Holdings)).Msg("Extraction completed")

	if *csvOut != "" {
		f, err := os.Create(*csvOut)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create CSV file")
		}
		defer f.Close()
		if err := report.WriteHoldingsCSV(f, res); err != nil {
			log.Fatal().Err(err).Msg("Failed to write CSV")
		}
		fmt.Printf("Wrote %d holdings to %s\n", len(res.Holdings), *csvOut)
	}

	if err := writeOutput(*textOut, report.FormatHoldingsText(res)); err != nil {
		log.Fatal().Err(err).Msg("Failed to write text report")
	}
}

func runNetWorth(log zerolog.Logger) {
	fs := flag.NewFlagSet("networth", flag.ExitOnError)
	file := fs.String("file", "", "Path to a .webarchive or .mhtml snapshot")
	csvOut := fs.String("csv", "", "Write accounts CSV to this path")
	textOut := fs.String("text", "", "Write the text report to this path (default stdout)")
	fs.Parse(os.Args[2:])

	if *file == "" {
		log.Fatal().Msg("Error: --file is required")
	}

	text, err := flattenLocalFile(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read snapshot")
	}

	accounts, err := extract.ExtractNetWorth(text)
	if err != nil {
		log.Fatal().Err(err).Msg("Net worth extraction failed")
	}

	log.Info().Int("accounts", len(accounts)).Msg("Extraction completed")

	if *csvOut != "" {
		f, err := os.Create(*csvOut)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create CSV file")
		}
		defer f.Close()
		if err := report.WriteAccountsCSV(f, accounts); err != nil {
			log.Fatal().Err(err).Msg("Failed to write CSV")
		}
		fmt.Printf("Wrote %d accounts to %s\n", len(accounts), *csvOut)
	}

	if err := writeOutput(*textOut, report.FormatNetWorthText(accounts)); err != nil {
		log.Fatal().Err(err).Msg("Failed to write text report")
	}
}

func runTimeline(log zerolog.Logger) {
	fs := flag.NewFlagSet("timeline", flag.ExitOnError)
	file := fs.String("file", "", "Path to a net-worth history JSON export")
	csvOut := fs.String("csv", "", "Write the timeline CSV to this path")
	textOut := fs.String("text", "", "Write the text report to this path (default stdout)")
	fs.Parse(os.Args[2:])

	if *file == "" {
		log.Fatal().Msg("Error: --file is required")
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read JSON export")
	}

	points, err := timeline.Parse(data)
	if err != nil {
		log.Fatal().Err(err).Msg("Timeline parse failed")
	}

	log.Info().Int("points", len(points)).Msg("Timeline parsed")

	if *csvOut != "" {
		f, err := os.Create(*csvOut)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create CSV file")
		}
		defer f.Close()
		if err := report.WriteTimelineCSV(f, points); err != nil {
			log.Fatal().Err(err).Msg("Failed to write CSV")
		}
		fmt.Printf("Wrote %d points to %s\n", len(points), *csvOut)
	}

	if err := writeOutput(*textOut, report.FormatTimelineText(points)); err != nil {
		log.Fatal().Err(err).Msg("Failed to write text report")
	}
}

// summarizeFile extracts holdings from a local snapshot and computes
// the portfolio summary. Shared by stats and insights.
func summarizeFile(log zerolog.Logger, file string) (*extract.HoldingsResult, stats.Summary) {
	text, err := flattenLocalFile(file)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read snapshot")
	}

	res, err := extract.ExtractHoldings(text)
	if err != nil {
		log.Fatal().Err(err).Msg("Holdings extraction failed")
	}

	return res, stats.Summarize(res.Holdings)
}

func printSummary(s stats.Summary) {
	fmt.Println("\n=== Portfolio Statistics ===")
	fmt.Printf("Positions:     %d\n", s.Positions)
	fmt.Printf("Total value:   $%.2f\n", s.TotalValue)
	fmt.Printf("Mean value:    $%.2f\n", s.MeanValue)
	fmt.Printf("Median value:  $%.2f\n", s.MedianValue)
	fmt.Printf("Std dev:       $%.2f\n", s.StdDevValue)
	fmt.Printf("Top 5 weight:  %.1f%%\n", s.Top5Weight*100)
	fmt.Printf("Top 10 weight: %.1f%%\n", s.Top10Weight*100)
	fmt.Printf("HHI:           %.4f\n", s.HHI)
	fmt.Printf("Concentration: %s\n", s.Concentration)
}

func runStats(log zerolog.Logger) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	file := fs.String("file", "", "Path to a portfolio snapshot")
	fs.Parse(os.Args[2:])

	if *file == "" {
		log.Fatal().Msg("Error: --file is required")
	}

	_, summary := summarizeFile(log, *file)
	printSummary(summary)
}

func runInsights(log zerolog.Logger) {
	fs := flag.NewFlagSet("insights", flag.ExitOnError)
	file := fs.String("file", "", "Path to a portfolio snapshot")
	fs.Parse(os.Args[2:])

	if *file == "" {
		log.Fatal().Msg("Error: --file is required")
	}

	res, summary := summarizeFile(log, *file)
	printSummary(summary)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	gen, err := insights.NewGenerator(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create insights generator")
	}

	commentary, err := gen.Commentary(ctx, res.Holdings, summary)
	if err != nil {
		log.Fatal().Err(err).Msg("Commentary generation failed")
	}

	fmt.Println("\n=== Commentary ===")
	fmt.Println(commentary)
}

func runUpload(log zerolog.Logger) {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	bucketName := fs.String("bucket", "", "GCS bucket name")
	objectName := fs.String("object", "", "GCS object name (defaults to filename)")
	filePath := fs.String("file", "", "Path to local snapshot file")
	fs.Parse(os.Args[2:])

	if *bucketName == "" || *filePath == "" {
		log.Fatal().Msg("Usage: cli upload -bucket NAME -file PATH")
	}

	if *objectName == "" {
		*objectName = filepath.Base(*filePath)
	}

	ctx := context.Background()
	ctx = logger.WithContext(ctx, log)

	log.Info().
		Str("bucket", *bucketName).
		Str("object", *objectName).
		Str("file", *filePath).
		Msg("Uploading snapshot to GCS")

	if err := gcsuploader.UploadFile(ctx, *bucketName, *objectName, *filePath); err != nil {
		log.Fatal().Err(err).Msg("Upload failed")
	}

	fmt.Printf("Uploaded %s to gs://%s/%s\n", *filePath, *bucketName, *objectName)
}

func runIngest(log zerolog.Logger) {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	gcsURI := fs.String("gcs-uri", "", "GCS URI of the snapshot file")
	fs.Parse(os.Args[2:])

	if *gcsURI == "" {
		log.Fatal().Msg("Error: --gcs-uri is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	log.Info().Str("gcs_uri", *gcsURI).Msg("Starting extraction")

	if err := pipeline.ExtractSnapshotFromGCS(ctx, *gcsURI); err != nil {
		log.Fatal().Err(err).Msg("Extraction failed")
	}

	fmt.Println("Extraction completed successfully.")
}

func runInspect(log zerolog.Logger) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	snapshotID := fs.String("snapshot-id", "", "Snapshot ID to inspect")
	runID := fs.String("run-id", "", "Extraction run whose rows to print")
	fs.Parse(os.Args[2:])

	if *snapshotID == "" && *runID == "" {
		log.Fatal().Msg("Error: --snapshot-id or --run-id is required")
	}

	ctx := context.Background()
	ctx = logger.WithContext(ctx, log)

	repo, err := infraBQ.NewBigQuerySnapshotRepository(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create repository")
	}
	defer repo.Close()

	if *snapshotID != "" {
		snapshots, err := repo.ListAllSnapshots(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to list snapshots")
		}

		var snap *infraBQ.SnapshotRow
		for _, s := range snapshots {
			if s.SnapshotID == *snapshotID {
				snap = s
				break
			}
		}

		if snap == nil {
			log.Fatal().Msg("Snapshot not found")
		}

		fmt.Println("\n=== Snapshot Details ===")
		fmt.Printf("ID:        %s\n", snap.SnapshotID)
		fmt.Printf("File:      %s\n", snap.OriginalFilename)
		fmt.Printf("GCS URI:   %s\n", snap.GCSURI)
		fmt.Printf("Kind:      %s\n", snap.ContainerKind)
		fmt.Printf("Content:   %s\n", snap.ContentType)
		fmt.Printf("Uploaded:  %s\n", snap.UploadTS)
		fmt.Printf("Status:    %s\n", snap.ExtractionStatus)
		fmt.Printf("Checksum:  %s\n", snap.ChecksumSHA256)
	}

	if *runID == "" {
		return
	}

	holdings, err := repo.QueryHoldingsByRun(ctx, *runID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to query holdings")
	}

	if len(holdings) > 0 {
		fmt.Printf("\n=== Holdings (%d) ===\n", len(holdings))
		for i, h := range holdings {
			fmt.Printf("\n%d. %s (%s)\n", i+1, h.Name, h.Ticker)
			fmt.Printf("   Shares: %s\n", h.Shares.FloatString(4))
			fmt.Printf("   Price:  %s\n", h.Price.FloatString(2))
			fmt.Printf("   Value:  %s\n", h.Value.FloatString(2))
		}
	}

	accounts, err := repo.QueryAccountsByRun(ctx, *runID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to query accounts")
	}

	if len(accounts) > 0 {
		fmt.Printf("\n=== Accounts (%d) ===\n", len(accounts))
		for i, a := range accounts {
			fmt.Printf("\n%d. %s\n", i+1, a.AccountName)
			fmt.Printf("   Type:     %s\n", a.AccountType)
			fmt.Printf("   Category: %s\n", a.Category)
			fmt.Printf("   Provider: %s\n", a.Provider)
			fmt.Printf("   Balance:  %s\n", a.Balance.FloatString(2))
			fmt.Printf("   As of:    %s\n", a.AsOfDate)
		}
	}
	fmt.Println()
}
