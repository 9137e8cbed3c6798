package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/finkit/empower-extract/internal/jobs"
	"github.com/finkit/empower-extract/internal/jobs/inmemory"
	"github.com/finkit/empower-extract/internal/logger"
	"github.com/finkit/empower-extract/internal/pipeline"
)

func main() {
	log := logger.New()

	// In production the in-memory queue would be replaced with Cloud
	// Tasks or Pub/Sub.
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, jobStore)

	log.Info().Msg("Starting extraction worker")

	ctx, cancel := context.WithCancel(logger.WithContext(context.Background(), log))
	defer cancel()

	handler := func(ctx context.Context, job jobs.Job) error {
		extractJob, ok := job.(*jobs.ExtractSnapshotJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log.Info().
			Str("job_id", extractJob.JobID).
			Str("gcs_uri", extractJob.GCSURI).
			Msg("Processing extraction job")

		if err := pipeline.ExtractSnapshotFromGCS(ctx, extractJob.GCSURI); err != nil {
			log.Error().
				Err(err).
				Str("job_id", extractJob.JobID).
				Str("gcs_uri", extractJob.GCSURI).
				Msg("Extraction pipeline failed")
			return err
		}

		log.Info().
			Str("job_id", extractJob.JobID).
			Msg("Extraction pipeline completed")
		return nil
	}

	if err := jobQueue.Start(ctx, handler); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job consumer")
	}

	log.Info().Msg("Extraction worker started, waiting for jobs...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down extraction worker...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during graceful shutdown")
	}

	if err := jobQueue.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close job queue")
	}

	log.Info().Msg("Extraction worker exited")
}
