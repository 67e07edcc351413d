package file

import (
	"io"
	"strings"
)

// RootFolder prefixes every uploaded object key.
const RootFolder = "attendance-tracker"

const (
	ResourceImage = "image"
	ResourceRaw   = "raw"
)

// ResourceType classifies a MIME type the way attachments record it.
func ResourceType(contentType string) string {
	if strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return ResourceImage
	}
	return ResourceRaw
}

// ObjectPrefix returns the folder holding one employee's uploads.
func ObjectPrefix(employeeID string) string {
	return RootFolder + "/" + employeeID + "/"
}

type UploadInput struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// UploadedFile has the same shape as an attendance attachment.
type UploadedFile struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Type     string `json:"type"`
	PublicID string `json:"publicId"`
}

type Usage struct {
	TotalFiles int64 `json:"totalFiles"`
	TotalBytes int64 `json:"totalBytes"`
	Images     int64 `json:"images"`
	Raw        int64 `json:"raw"`
}

type CleanupFailure struct {
	PublicID string `json:"publicId"`
	Error    string `json:"error"`
}

// CleanupResult reports one sweep. Skipped counts unreferenced objects still
// too recent to delete.
type CleanupResult struct {
	Scanned      int              `json:"scanned"`
	TotalDeleted int              `json:"totalDeleted"`
	Skipped      int              `json:"skipped"`
	Deleted      []string         `json:"deleted"`
	Failed       []CleanupFailure `json:"failed"`
}
