// Package jobs defines the asynchronous snapshot-extraction jobs and the
// queue abstractions they flow through.
package jobs

import (
	"context"
	"time"
)

// JobType represents the type of job to be executed.
type JobType string

const (
	// JobTypeExtractSnapshot represents a snapshot extraction job.
	JobTypeExtractSnapshot JobType = "extract_snapshot"
)

// JobStatus represents the current status of a job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusRetrying  JobStatus = "retrying"
)

// ExtractSnapshotJob is a request to run the extraction pipeline against
// one uploaded dashboard snapshot in GCS.
type ExtractSnapshotJob struct {
	JobID string `json:"job_id"`

	// SnapshotID is the snapshot's row ID in BigQuery.
	SnapshotID string `json:"snapshot_id"`

	// GCSURI points at the uploaded container file.
	GCSURI string `json:"gcs_uri"`

	// ContentType is "portfolio" or "net_worth"; empty means sniff from
	// the filename.
	ContentType string `json:"content_type,omitempty"`

	// RunID is the extraction run created for this job, once started.
	RunID string `json:"run_id,omitempty"`

	Status      JobStatus  `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Error holds failure details for the last attempt.
	Error string `json:"error,omitempty"`

	RetryCount int `json:"retry_count"`
	MaxRetries int `json:"max_retries"`
}

// Job is a generic interface for all job types.
type Job interface {
	GetID() string
	GetType() JobType
	GetStatus() JobStatus
}

func (j *ExtractSnapshotJob) GetID() string        { return j.JobID }
func (j *ExtractSnapshotJob) GetType() JobType     { return JobTypeExtractSnapshot }
func (j *ExtractSnapshotJob) GetStatus() JobStatus { return j.Status }

// Publisher defines the interface for publishing jobs to a queue.
// Different queue backends (in-memory, Cloud Tasks, Pub/Sub) implement it.
type Publisher interface {
	PublishExtractSnapshot(ctx context.Context, job *ExtractSnapshotJob) error
	Close() error
}

// Consumer defines the interface for consuming jobs from a queue.
type Consumer interface {
	// Start begins consuming jobs; the handler is called for each job.
	Start(ctx context.Context, handler JobHandler) error

	// Stop stops consuming and waits for in-flight jobs to finish.
	Stop(ctx context.Context) error
}

// JobHandler processes a job. A non-nil error marks the attempt failed
// and eligible for retry.
type JobHandler func(ctx context.Context, job Job) error

// JobStore persists job state so callers can poll progress.
type JobStore interface {
	SaveJob(ctx context.Context, job *ExtractSnapshotJob) error
	GetJob(ctx context.Context, jobID string) (*ExtractSnapshotJob, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]*ExtractSnapshotJob, error)
	UpdateJobStatus(ctx context.Context, jobID string, status JobStatus, errorMsg string) error
}

// JobFilter defines filtering criteria for listing jobs.
type JobFilter struct {
	SnapshotID string
	Status     JobStatus
	Limit      int
	Offset     int
}
