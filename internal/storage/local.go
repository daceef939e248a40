package storage

import (
	"context"
	"fmt"
	"os"
)

// LocalFileStorage keeps downloads where the downloader wrote them.
type LocalFileStorage struct{}

func NewLocalFileStorage() *LocalFileStorage {
	return &LocalFileStorage{}
}

// Publish checks that the file exists and returns its path unchanged.
func (s *LocalFileStorage) Publish(_ context.Context, localPath string) (string, error) {
	info, err := os.Stat(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", localPath, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", localPath)
	}
	return localPath, nil
}

// Exists checks if a file exists
func (s *LocalFileStorage) Exists(_ context.Context, location string) bool {
	_, err := os.Stat(location)
	return err == nil
}

func (s *LocalFileStorage) Close() error {
	return nil
}
