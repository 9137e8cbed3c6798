package inmemory

import (
	"context"
	"testing"

	"github.com/finkit/empower-extract/internal/jobs"
)

func TestStoreSaveAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	job := &jobs.ExtractSnapshotJob{
		JobID:      "j1",
		SnapshotID: "s1",
		GCSURI:     "gs://bucket/snap.webarchive",
		Status:     jobs.JobStatusPending,
	}
	if err := store.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob: %v", err)
	}

	got, err := store.GetJob(ctx, "j1")
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if got.SnapshotID != "s1" {
		t.Errorf("SnapshotID = %q", got.SnapshotID)
	}

	// Returned job is a copy; mutating it must not affect the store.
	got.Status = jobs.JobStatusFailed
	again, _ := store.GetJob(ctx, "j1")
	if again.Status != jobs.JobStatusPending {
		t.Errorf("store mutated through returned copy: %q", again.Status)
	}
}

func TestStoreSaveRequiresID(t *testing.T) {
	if err := NewStore().SaveJob(context.Background(), &jobs.ExtractSnapshotJob{}); err == nil {
		t.Fatal("expected error for job without ID")
	}
}

func TestStoreListJobsFilter(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	for _, j := range []*jobs.ExtractSnapshotJob{
		{JobID: "a", SnapshotID: "s1", Status: jobs.JobStatusCompleted},
		{JobID: "b", SnapshotID: "s1", Status: jobs.JobStatusFailed},
		{JobID: "c", SnapshotID: "s2", Status: jobs.JobStatusCompleted},
	} {
		if err := store.SaveJob(ctx, j); err != nil {
			t.Fatalf("SaveJob(%s): %v", j.JobID, err)
		}
	}

	bySnapshot, err := store.ListJobs(ctx, jobs.JobFilter{SnapshotID: "s1"})
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(bySnapshot) != 2 {
		t.Errorf("got %d jobs for s1, want 2", len(bySnapshot))
	}

	byStatus, err := store.ListJobs(ctx, jobs.JobFilter{Status: jobs.JobStatusFailed})
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(byStatus) != 1 || byStatus[0].JobID != "b" {
		t.Errorf("failed filter returned %v", byStatus)
	}

	limited, err := store.ListJobs(ctx, jobs.JobFilter{Limit: 1})
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("got %d jobs with limit 1", len(limited))
	}
}

func TestStoreUpdateJobStatus(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	if err := store.SaveJob(ctx, &jobs.ExtractSnapshotJob{JobID: "j1", Status: jobs.JobStatusRunning}); err != nil {
		t.Fatalf("SaveJob: %v", err)
	}
	if err := store.UpdateJobStatus(ctx, "j1", jobs.JobStatusFailed, "decode failed"); err != nil {
		t.Fatalf("UpdateJobStatus: %v", err)
	}

	got, _ := store.GetJob(ctx, "j1")
	if got.Status != jobs.JobStatusFailed || got.Error != "decode failed" {
		t.Errorf("job after update = %+v", got)
	}

	if err := store.UpdateJobStatus(ctx, "missing", jobs.JobStatusFailed, ""); err == nil {
		t.Error("expected error for unknown job")
	}
}
