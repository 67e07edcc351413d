package storage

import (
	"context"
	"io"
	"mime"
	"path"
	"strings"
	"time"
)

type FileStorage interface {
	// Upload stores a file under key and returns the stored key
	Upload(ctx context.Context, file io.Reader, key string, contentType string) (string, error)

	// Delete removes a file; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error

	// GetURL returns a public URL, or a presigned one valid for expiry when expiry > 0
	GetURL(ctx context.Context, key string, expiry time.Duration) (string, error)

	// List walks every object whose key starts with prefix
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
}

type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ContentType guesses the MIME type from the key's extension.
func (o ObjectInfo) ContentType() string {
	return ContentTypeOf(o.Key)
}

func ContentTypeOf(key string) string {
	ct := mime.TypeByExtension(strings.ToLower(path.Ext(key)))
	if ct == "" {
		return "application/octet-stream"
	}
	return ct
}
