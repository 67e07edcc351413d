package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

// OSSStorage stores objects in an Aliyun OSS bucket.
type OSSStorage struct {
	bucket     *oss.Bucket
	endpoint   string
	bucketName string
	publicBase string
}

func NewOSSStorage(endpoint, accessKeyID, accessKeySecret, bucketName, publicBase string) (*OSSStorage, error) {
	client, err := oss.New(endpoint, accessKeyID, accessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create oss client: %w", err)
	}
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to open oss bucket %q: %w", bucketName, err)
	}

	return &OSSStorage{
		bucket:     bucket,
		endpoint:   endpoint,
		bucketName: bucketName,
		publicBase: strings.TrimRight(publicBase, "/"),
	}, nil
}

func (s *OSSStorage) Upload(ctx context.Context, file io.Reader, key string, contentType string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("empty key")
	}
	if contentType == "" {
		contentType = ContentTypeOf(key)
	}

	err := s.bucket.PutObject(key, file,
		oss.WithContext(ctx),
		oss.ContentType(contentType),
		oss.ContentDisposition("inline"),
	)
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}
	return key, nil
}

func (s *OSSStorage) Delete(ctx context.Context, key string) error {
	if err := s.bucket.DeleteObject(key, oss.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (s *OSSStorage) GetURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if expiry > 0 {
		signed, err := s.bucket.SignURL(key, oss.HTTPGet, int64(expiry.Seconds()), oss.WithContext(ctx))
		if err != nil {
			return "", fmt.Errorf("failed to sign url: %w", err)
		}
		return signed, nil
	}
	return s.publicURL(key), nil
}

func (s *OSSStorage) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var objects []ObjectInfo

	marker := oss.Marker("")
	for {
		lor, err := s.bucket.ListObjects(oss.Prefix(prefix), marker, oss.MaxKeys(1000), oss.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		for _, obj := range lor.Objects {
			if obj.Key == "" || strings.HasSuffix(obj.Key, "/") {
				continue
			}
			objects = append(objects, ObjectInfo{
				Key:          obj.Key,
				Size:         obj.Size,
				LastModified: obj.LastModified,
			})
		}
		if !lor.IsTruncated {
			break
		}
		marker = oss.Marker(lor.NextMarker)
	}

	return objects, nil
}

func (s *OSSStorage) publicURL(key string) string {
	if s.publicBase != "" {
		return s.publicBase + "/" + key
	}
	end := strings.TrimPrefix(strings.TrimPrefix(s.endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.bucketName, end, key)
}
