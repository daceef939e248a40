package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const uploadTimeout = 30 * time.Minute

// GCSStorage uploads finished downloads to a Google Cloud Storage bucket and
// removes the local copy.
type GCSStorage struct {
	client        *storage.Client
	bucket        string
	objectPrefix  string
	publicBaseURL string
}

// NewGCSStorage creates a new GCSStorage instance
func NewGCSStorage(ctx context.Context, bucketName, objectPrefix, credentialsFile, publicBaseURL string) (*GCSStorage, error) {
	var client *storage.Client
	var err error

	if credentialsFile != "" {
		client, err = storage.NewClient(ctx, option.WithCredentialsFile(credentialsFile))
	} else {
		// Use application default credentials
		client, err = storage.NewClient(ctx)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSStorage{
		client:        client,
		bucket:        bucketName,
		objectPrefix:  strings.Trim(objectPrefix, "/"),
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}, nil
}

// Publish uploads localPath and deletes it once the upload is committed.
func (s *GCSStorage) Publish(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open file %s: %w", localPath, err)
	}
	defer f.Close()

	objectName := s.objectName(filepath.Base(localPath))

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	wc := s.client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	if _, err = io.Copy(wc, f); err != nil {
		wc.Close()
		return "", fmt.Errorf("failed to copy file to GCS: %w", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}

	if err := os.Remove(localPath); err != nil {
		slog.Warn("Failed to remove uploaded file", "path", localPath, "error", err)
	}

	location := s.location(objectName)
	slog.Info("Uploaded to GCS", "bucket", s.bucket, "object", objectName, "location", location)
	return location, nil
}

// Exists checks whether the object behind a location returned by Publish exists.
func (s *GCSStorage) Exists(ctx context.Context, location string) bool {
	objectName, ok := s.objectFromLocation(location)
	if !ok {
		return false
	}
	_, err := s.client.Bucket(s.bucket).Object(objectName).Attrs(ctx)
	return err == nil
}

// Close closes the GCS client
func (s *GCSStorage) Close() error {
	return s.client.Close()
}

func (s *GCSStorage) objectName(fileName string) string {
	if s.objectPrefix != "" {
		return s.objectPrefix + "/" + fileName
	}
	return fileName
}

// location returns the public URL if configured, or a gs:// URI.
func (s *GCSStorage) location(objectName string) string {
	if s.publicBaseURL != "" {
		return fmt.Sprintf("%s/%s", s.publicBaseURL, objectName)
	}
	return fmt.Sprintf("gs://%s/%s", s.bucket, objectName)
}

func (s *GCSStorage) objectFromLocation(location string) (string, bool) {
	if s.publicBaseURL != "" && strings.HasPrefix(location, s.publicBaseURL+"/") {
		return strings.TrimPrefix(location, s.publicBaseURL+"/"), true
	}
	gsPrefix := fmt.Sprintf("gs://%s/", s.bucket)
	if strings.HasPrefix(location, gsPrefix) {
		return strings.TrimPrefix(location, gsPrefix), true
	}
	return "", false
}
