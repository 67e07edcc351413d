package file

import (
	"context"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/auth"
)

type FileService interface {
	// Upload stores each file under the caller's folder.
	Upload(ctx context.Context, identity auth.Identity, files []UploadInput) ([]UploadedFile, error)

	// Usage covers every object for admins and the caller's own folder otherwise.
	Usage(ctx context.Context, identity auth.Identity) (Usage, error)

	// Cleanup deletes stored objects no attachment references (admin only).
	Cleanup(ctx context.Context, identity auth.Identity) (CleanupResult, error)

	// RunCleanup is Cleanup without an identity, for scheduled jobs.
	RunCleanup(ctx context.Context) (CleanupResult, error)
}
