package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/finkit/empower-extract/internal/api/middleware"
	"github.com/finkit/empower-extract/internal/archive"
	"github.com/finkit/empower-extract/internal/gcsuploader"
	infra "github.com/finkit/empower-extract/internal/infra/bigquery"
	"github.com/finkit/empower-extract/internal/jobs"
)

// SnapshotsHandler handles snapshot upload and extraction endpoints.
type SnapshotsHandler struct {
	repo      infra.SnapshotRepository
	storage   gcsuploader.StorageService
	publisher jobs.Publisher
	bucket    string
	log       zerolog.Logger
}

// NewSnapshotsHandler creates a new snapshots handler.
func NewSnapshotsHandler(repo infra.SnapshotRepository, storage gcsuploader.StorageService, publisher jobs.Publisher, bucket string, log zerolog.Logger) *SnapshotsHandler {
	return &SnapshotsHandler{
		repo:      repo,
		storage:   storage,
		publisher: publisher,
		bucket:    bucket,
		log:       log,
	}
}

// ListSnapshots handles GET /api/snapshots
func (h *SnapshotsHandler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	snapshots, err := h.repo.ListAllSnapshots(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list snapshots")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list snapshots")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"snapshots": snapshots,
		"count":     len(snapshots),
	})
}

// CreateUploadURL handles POST /api/snapshots/upload-url
func (h *SnapshotsHandler) CreateUploadURL(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filename    string `json:"filename"`
		ContentType string `json:"content_type"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Filename == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Filename is required")
		return
	}
	if archive.DetectKind(req.Filename) == archive.KindUnknown {
		middleware.WriteError(w, http.StatusBadRequest, "Unsupported snapshot type; expected .webarchive, .mhtml or .json")
		return
	}

	// Generate unique object name
	objectName := fmt.Sprintf("snapshots/%s/%s", time.Now().Format("2006/01/02"), uuid.New().String()+"-"+req.Filename)
	gcsURI := fmt.Sprintf("gs://%s/%s", h.bucket, objectName)
	uploadID := uuid.New().String()

	// For local development with user credentials, return direct upload URL
	// In production with service accounts, this would use signed URLs
	uploadURL := fmt.Sprintf("/api/snapshots/upload/%s?object_name=%s&filename=%s", uploadID, url.QueryEscape(objectName), url.QueryEscape(req.Filename))

	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"upload_url":  uploadURL,
		"gcs_uri":     gcsURI,
		"object_name": objectName,
		"upload_id":   uploadID,
	})
}

// UploadSnapshot handles POST /api/snapshots/upload/:uploadId
// Direct upload endpoint for local development with user credentials.
// The body is streamed straight into GCS while a checksum accumulates,
// so a re-upload of an already ingested snapshot is flagged without
// storing the file twice in BigQuery.
func (h *SnapshotsHandler) UploadSnapshot(w http.ResponseWriter, r *http.Request, uploadID string) {
	ctx := r.Context()

	// Object name comes from CreateUploadURL via query parameter.
	objectName := r.URL.Query().Get("object_name")
	if objectName == "" {
		middleware.WriteError(w, http.StatusBadRequest, "object_name is required")
		return
	}

	filename := r.URL.Query().Get("filename")
	if filename == "" {
		filename = filepath.Base(objectName)
	}
	if idx := strings.Index(filename, "?"); idx > 0 {
		filename = filename[:idx]
	}
	filename = filepath.Base(filename)

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	gcsURI := fmt.Sprintf("gs://%s/%s", h.bucket, objectName)

	hasher := sha256.New()
	written, err := h.storage.UploadStream(ctx, h.bucket, objectName, contentType, io.TeeReader(r.Body, hasher))
	if err != nil {
		h.log.Error().Err(err).Str("gcs_uri", gcsURI).Msg("Failed to write to GCS")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to upload file")
		return
	}
	checksum := hex.EncodeToString(hasher.Sum(nil))

	h.log.Info().
		Str("upload_id", uploadID).
		Str("gcs_uri", gcsURI).
		Int64("bytes", written).
		Str("checksum", checksum).
		Msg("Snapshot uploaded")

	existing, err := h.repo.FindSnapshotByChecksum(ctx, checksum)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to check snapshot checksum")
	}
	if existing != nil {
		middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"upload_id":   uploadID,
			"gcs_uri":     gcsURI,
			"status":      "duplicate",
			"snapshot_id": existing.SnapshotID,
		})
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"upload_id":    uploadID,
		"gcs_uri":      gcsURI,
		"filename":     filename,
		"content_type": string(archive.DetectContentType(filename)),
		"status":       "uploaded",
	})
}

// EnqueueExtraction handles POST /api/snapshots/extract
func (h *SnapshotsHandler) EnqueueExtraction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GCSURI      string `json:"gcs_uri"`
		ContentType string `json:"content_type"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.GCSURI == "" {
		middleware.WriteError(w, http.StatusBadRequest, "gcs_uri is required")
		return
	}

	ctx := r.Context()

	job := &jobs.ExtractSnapshotJob{
		GCSURI:      req.GCSURI,
		ContentType: req.ContentType,
	}

	if err := h.publisher.PublishExtractSnapshot(ctx, job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue extraction job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue extraction job")
		return
	}

	h.log.Info().Str("job_id", job.JobID).Str("gcs_uri", req.GCSURI).Msg("Extraction job enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id":  job.JobID,
		"gcs_uri": req.GCSURI,
		"status":  string(job.Status),
	})
}

// ResultsHandler serves extracted holdings and account balances.
type ResultsHandler struct {
	repo infra.SnapshotRepository
	log  zerolog.Logger
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(repo infra.SnapshotRepository, log zerolog.Logger) *ResultsHandler {
	return &ResultsHandler{
		repo: repo,
		log:  log,
	}
}

// holdingResponse renders HoldingRow numerics as fixed-point strings;
// *big.Rat marshals as a fraction otherwise.
type holdingResponse struct {
	Ticker     string `json:"ticker"`
	Name       string `json:"name"`
	Shares     string `json:"shares"`
	Price      string `json:"price"`
	DayChange  string `json:"day_change"`
	DayPercent string `json:"day_percent"`
	DayDollar  string `json:"day_dollar"`
	Value      string `json:"value"`
}

type accountResponse struct {
	AccountName string `json:"account_name"`
	AccountType string `json:"account_type"`
	Balance     string `json:"balance"`
	Category    string `json:"category"`
	Provider    string `json:"provider"`
	AsOfDate    string `json:"as_of_date"`
}

func ratString(r *big.Rat) string {
	if r == nil {
		return ""
	}
	return r.FloatString(2)
}

// ListHoldings handles GET /api/holdings?run_id=...
func (h *ResultsHandler) ListHoldings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	runID := r.URL.Query().Get("run_id")
	if runID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "run_id is required")
		return
	}

	rows, err := h.repo.QueryHoldingsByRun(ctx, runID)
	if err != nil {
		h.log.Error().Err(err).Str("run_id", runID).Msg("Failed to query holdings")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to query holdings")
		return
	}

	holdings := make([]holdingResponse, 0, len(rows))
	for _, row := range rows {
		holdings = append(holdings, holdingResponse{
			Ticker:     row.Ticker,
			Name:       row.Name,
			Shares:     ratString(row.Shares),
			Price:      ratString(row.Price),
			DayChange:  ratString(row.DayChange),
			DayPercent: row.DayPct,
			DayDollar:  ratString(row.DayDollar),
			Value:      ratString(row.Value),
		})
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":   runID,
		"holdings": holdings,
		"count":    len(holdings),
	})
}

// ListAccounts handles GET /api/accounts?run_id=...
func (h *ResultsHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	runID := r.URL.Query().Get("run_id")
	if runID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "run_id is required")
		return
	}

	rows, err := h.repo.QueryAccountsByRun(ctx, runID)
	if err != nil {
		h.log.Error().Err(err).Str("run_id", runID).Msg("Failed to query accounts")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to query accounts")
		return
	}

	accounts := make([]accountResponse, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, accountResponse{
			AccountName: row.AccountName,
			AccountType: row.AccountType,
			Balance:     ratString(row.Balance),
			Category:    row.Category,
			Provider:    row.Provider,
			AsOfDate:    row.AsOfDate,
		})
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":   runID,
		"accounts": accounts,
		"count":    len(accounts),
	})
}

// JobsHandler handles job-related endpoints.
type JobsHandler struct {
	store jobs.JobStore
	log   zerolog.Logger
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(store jobs.JobStore, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{
		store: store,
		log:   log,
	}
}

// GetJob handles GET /api/jobs/{id}
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	ctx := r.Context()

	job, err := h.store.GetJob(ctx, jobID)
	if err != nil {
		h.log.Error().Err(err).Str("job_id", jobID).Msg("Failed to get job")
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// ListJobs handles GET /api/jobs
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := r.URL.Query()
	filter := jobs.JobFilter{
		SnapshotID: query.Get("snapshot_id"),
		Status:     jobs.JobStatus(query.Get("status")),
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}

	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	jobsList, err := h.store.ListJobs(ctx, filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobsList,
		"count": len(jobsList),
	})
}
