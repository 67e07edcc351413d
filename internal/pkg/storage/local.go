package storage

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type LocalStorage struct {
	basePath string
	baseURL  string // e.g., "http://localhost:8080/uploads"
}

func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage directory: %w", err)
	}
	// Create base directory if not exists
	if err := os.MkdirAll(absPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: absPath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// resolve maps key onto the filesystem, rejecting keys that escape basePath.
func (s *LocalStorage) resolve(key string) (string, string, error) {
	cleanKey := strings.TrimPrefix(filepath.ToSlash(filepath.Clean("/"+key)), "/")
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(cleanKey))

	if cleanKey == "" || !strings.HasPrefix(fullPath, s.basePath+string(filepath.Separator)) {
		return "", "", fmt.Errorf("invalid file path: %s", key)
	}
	return cleanKey, fullPath, nil
}

func (s *LocalStorage) Upload(ctx context.Context, file io.Reader, key string, contentType string) (string, error) {
	cleanKey, fullPath, err := s.resolve(key)
	if err != nil {
		return "", err
	}

	// Create directory structure
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		// Cleanup on error
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return cleanKey, nil
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	_, fullPath, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// GetURL ignores expiry; local files are served statically.
func (s *LocalStorage) GetURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	cleanKey, _, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s", s.baseURL, cleanKey), nil
}

func (s *LocalStorage) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var objects []ObjectInfo

	err := filepath.WalkDir(s.basePath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(s.basePath, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		objects = append(objects, ObjectInfo{
			Key:          key,
			Size:         info.Size(),
			LastModified: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	return objects, nil
}
