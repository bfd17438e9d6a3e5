package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStorage stores documents in a Google Cloud Storage bucket and hands out
// V4 signed download URLs.
type GCSStorage struct {
	client *storage.Client
	bucket string
	ttl    time.Duration
	now    func() time.Time
}

// NewGCSStorage creates a client for bucket. When credentialsJSON is empty the
// client uses Application Default Credentials.
func NewGCSStorage(ctx context.Context, bucket, credentialsJSON string, ttl time.Duration) (*GCSStorage, error) {
	var opts []option.ClientOption
	if strings.TrimSpace(credentialsJSON) != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	if ttl <= 0 {
		ttl = time.Minute
	}

	return &GCSStorage{client: client, bucket: bucket, ttl: ttl, now: time.Now}, nil
}

// Save uploads data as a PDF object and returns its object name.
func (s *GCSStorage) Save(ctx context.Context, fileName, ownerID string, data []byte) (string, error) {
	objectName := ObjectPath(fileName, ownerID, s.now())

	// Refuse to overwrite an existing object
	obj := s.client.Bucket(s.bucket).Object(objectName).If(storage.Conditions{DoesNotExist: true})
	w := obj.NewWriter(ctx)
	w.ContentType = PDFMimeType

	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to upload object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload: %w", err)
	}

	return objectName, nil
}

// Delete removes an object. A missing object is not an error.
func (s *GCSStorage) Delete(ctx context.Context, objectName string) error {
	err := s.client.Bucket(s.bucket).Object(objectName).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// PublicURL returns a V4 signed GET URL valid for the configured TTL.
func (s *GCSStorage) PublicURL(ctx context.Context, objectName string) (string, error) {
	signed, err := s.client.Bucket(s.bucket).SignedURL(objectName, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: s.now().Add(s.ttl),
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign url: %w", err)
	}
	return signed, nil
}

// Close releases the underlying client.
func (s *GCSStorage) Close() error {
	return s.client.Close()
}
