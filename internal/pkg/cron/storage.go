package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/file"
)

type StorageJobs struct {
	fileService file.FileService
	schedule    string
	timeout     time.Duration
}

func NewStorageJobs(fileService file.FileService, schedule string, timeout time.Duration) *StorageJobs {
	return &StorageJobs{
		fileService: fileService,
		schedule:    schedule,
		timeout:     timeout,
	}
}

// RegisterJobs is a no-op when no schedule is configured.
func (j *StorageJobs) RegisterJobs(scheduler *Scheduler) error {
	if j.schedule == "" {
		slog.Info("Cron: storage cleanup schedule not set, skipping")
		return nil
	}
	return scheduler.AddJob("cleanup_unused_files", j.schedule, j.timeout, j.CleanupUnusedFiles)
}

func (j *StorageJobs) CleanupUnusedFiles(ctx context.Context) error {
	slog.Info("Cron: Starting unused file cleanup job")

	result, err := j.fileService.RunCleanup(ctx)
	if err != nil {
		return err
	}

	for _, f := range result.Failed {
		slog.Warn("Cron: failed to delete unused file", "public_id", f.PublicID, "error", f.Error)
	}
	slog.Info("Cron: Unused file cleanup finished",
		"scanned", result.Scanned,
		"deleted", result.TotalDeleted,
		"skipped", result.Skipped,
		"failed", len(result.Failed),
	)
	return nil
}
