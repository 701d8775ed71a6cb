package storage

import (
	"context"
	"fmt"
	"strings"

	gcs "cloud.google.com/go/storage"
	"go.uber.org/zap"
)

// GCSUploader writes uploaded document and image bytes to a Google Cloud
// Storage bucket and returns URLs served through a CDN domain in front of
// the bucket. It satisfies core.BlobUploader.
type GCSUploader struct {
	client    *gcs.Client
	bucket    string
	cdnDomain string
	log       *zap.Logger
}

func NewGCSUploader(ctx context.Context, bucket, cdnDomain string, log *zap.Logger) (*GCSUploader, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSUploader{client: client, bucket: bucket, cdnDomain: cdnDomain, log: log}, nil
}

func (u *GCSUploader) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	w := u.client.Bucket(u.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=86400"

	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to write object %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize object %s: %w", key, err)
	}

	url := fmt.Sprintf("https://%s/%s", u.cdnDomain, key)
	u.log.Debug("object uploaded", zap.String("key", key), zap.Int("bytes", len(data)))
	return url, nil
}

// Delete removes the object behind a URL previously returned by Upload.
func (u *GCSUploader) Delete(ctx context.Context, url string) error {
	key := strings.TrimPrefix(url, fmt.Sprintf("https://%s/", u.cdnDomain))
	if key == url || key == "" {
		return fmt.Errorf("url %q does not belong to this store", url)
	}
	if err := u.client.Bucket(u.bucket).Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

func (u *GCSUploader) Close() error {
	return u.client.Close()
}
