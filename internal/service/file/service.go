package file

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Import for PNG decoding support
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/file"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	// MaxUploadBytes caps a single uploaded file.
	MaxUploadBytes = 10 << 20
	// compressThreshold is the size above which JPEG and PNG uploads are recompressed.
	compressThreshold = 1 << 20
)

// AttachmentIndex reports which stored objects are still referenced.
type AttachmentIndex interface {
	ListAttachmentPublicIDs(ctx context.Context) ([]string, error)
}

type fileServiceImpl struct {
	storage     storage.FileStorage
	attachments AttachmentIndex
	// Objects modified within minAge are exempt from the sweep.
	minAge time.Duration
	now    func() time.Time
}

func NewFileService(storage storage.FileStorage, attachments AttachmentIndex, minAge time.Duration) file.FileService {
	return &fileServiceImpl{
		storage:     storage,
		attachments: attachments,
		minAge:      minAge,
		now:         time.Now,
	}
}

// Upload implements file.FileService.
func (s *fileServiceImpl) Upload(ctx context.Context, identity auth.Identity, files []file.UploadInput) ([]file.UploadedFile, error) {
	if identity.IsZero() {
		return nil, auth.ErrUnauthorized
	}
	if len(files) == 0 {
		return nil, file.ErrNoFiles
	}
	for _, f := range files {
		if f.Size > MaxUploadBytes {
			return nil, fmt.Errorf("%w: %s", file.ErrFileTooLarge, f.Filename)
		}
	}

	uploaded := make([]file.UploadedFile, 0, len(files))
	for _, f := range files {
		result, err := s.uploadOne(ctx, identity.EmployeeID, f)
		if err != nil {
			slog.Error("failed to upload file", "employee_id", identity.EmployeeID, "filename", f.Filename, "error", err)
			return nil, err
		}
		uploaded = append(uploaded, result)
	}
	return uploaded, nil
}

func (s *fileServiceImpl) uploadOne(ctx context.Context, employeeID string, in file.UploadInput) (file.UploadedFile, error) {
	ext := strings.ToLower(filepath.Ext(in.Filename))
	contentType := in.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = storage.ContentTypeOf(in.Filename)
	}

	var body io.Reader = in.Content
	if isCompressible(contentType) && in.Size > compressThreshold {
		buffer, err := io.ReadAll(in.Content)
		if err != nil {
			return file.UploadedFile{}, fmt.Errorf("failed to read image: %w", err)
		}
		compressed, err := compressImage(buffer, compressThreshold)
		if err != nil {
			return file.UploadedFile{}, fmt.Errorf("failed to compress image: %w", err)
		}
		// Always JPEG after compression
		body = bytes.NewReader(compressed)
		contentType = "image/jpeg"
		ext = ".jpg"
	}

	key := fmt.Sprintf("%s%s%s", file.ObjectPrefix(employeeID), uuid.New().String(), ext)
	storedKey, err := s.storage.Upload(ctx, body, key, contentType)
	if err != nil {
		return file.UploadedFile{}, fmt.Errorf("failed to store file: %w", err)
	}

	url, err := s.storage.GetURL(ctx, storedKey, 0)
	if err != nil {
		return file.UploadedFile{}, fmt.Errorf("failed to build file url: %w", err)
	}

	return file.UploadedFile{
		Name:     in.Filename,
		URL:      url,
		Type:     file.ResourceType(contentType),
		PublicID: storedKey,
	}, nil
}

func isCompressible(contentType string) bool {
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg", "image/png":
		return true
	}
	return false
}

// Usage implements file.FileService.
func (s *fileServiceImpl) Usage(ctx context.Context, identity auth.Identity) (file.Usage, error) {
	if identity.IsZero() {
		return file.Usage{}, auth.ErrUnauthorized
	}

	prefix := file.RootFolder + "/"
	if !identity.IsAdmin() {
		prefix = file.ObjectPrefix(identity.EmployeeID)
	}

	objects, err := s.storage.List(ctx, prefix)
	if err != nil {
		return file.Usage{}, fmt.Errorf("failed to list stored files: %w", err)
	}

	var usage file.Usage
	for _, obj := range objects {
		usage.TotalFiles++
		usage.TotalBytes += obj.Size
		if file.ResourceType(obj.ContentType()) == file.ResourceImage {
			usage.Images++
		} else {
			usage.Raw++
		}
	}
	return usage, nil
}

// Cleanup implements file.FileService.
func (s *fileServiceImpl) Cleanup(ctx context.Context, identity auth.Identity) (file.CleanupResult, error) {
	if !identity.IsAdmin() {
		return file.CleanupResult{}, auth.ErrForbidden
	}
	return s.RunCleanup(ctx)
}

// RunCleanup implements file.FileService. Objects younger than minAge are
// skipped. Failures on single objects are collected in the result; the sweep
// keeps going.
func (s *fileServiceImpl) RunCleanup(ctx context.Context) (file.CleanupResult, error) {
	referenced, err := s.attachments.ListAttachmentPublicIDs(ctx)
	if err != nil {
		return file.CleanupResult{}, fmt.Errorf("failed to list referenced files: %w", err)
	}
	inUse := make(map[string]struct{}, len(referenced))
	for _, id := range referenced {
		inUse[id] = struct{}{}
	}

	objects, err := s.storage.List(ctx, file.RootFolder+"/")
	if err != nil {
		return file.CleanupResult{}, fmt.Errorf("failed to list stored files: %w", err)
	}

	result := file.CleanupResult{
		Scanned: len(objects),
		Deleted: []string{},
		Failed:  []file.CleanupFailure{},
	}
	threshold := s.now().Add(-s.minAge)
	for _, obj := range objects {
		if _, ok := inUse[obj.Key]; ok {
			continue
		}
		if s.minAge > 0 && !obj.LastModified.Before(threshold) {
			result.Skipped++
			continue
		}
		if err := s.storage.Delete(ctx, obj.Key); err != nil {
			result.Failed = append(result.Failed, file.CleanupFailure{PublicID: obj.Key, Error: err.Error()})
			continue
		}
		result.Deleted = append(result.Deleted, obj.Key)
	}
	result.TotalDeleted = len(result.Deleted)

	return result, nil
}

// ==================== HELPER FUNCTIONS ====================

// compressImage re-encodes an image as JPEG, lowering quality and then
// dimensions until it fits in maxSize.
func compressImage(buffer []byte, maxSize int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var compressed []byte
	for quality := 85; quality >= 50; quality -= 5 {
		compressed, err = encodeJPEG(img, quality)
		if err != nil {
			return nil, err
		}
		if len(compressed) <= maxSize {
			return compressed, nil
		}
	}

	// Still too large, shrink towards maxSize keeping the aspect ratio
	bounds := img.Bounds()
	ratio := math.Sqrt(float64(maxSize) / float64(len(compressed)))
	width := max(1, int(float64(bounds.Dx())*ratio))
	height := max(1, int(float64(bounds.Dy())*ratio))

	return encodeJPEG(resizeImage(img, width, height), 70)
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// resizeImage resizes an image to the specified dimensions using high-quality interpolation
func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	// Use CatmullRom for high-quality downscaling
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
