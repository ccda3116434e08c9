package sinks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fjlanasa/gtfs-feeds/config"
	"github.com/fjlanasa/gtfs-feeds/records"
)

// FileSystemWriter stores every document as its own JSON file under Path.
type FileSystemWriter struct {
	root string
	now  func() time.Time
}

func NewFileSystemWriter(cfg config.FileSystemSinkConfig) (*FileSystemWriter, error) {
	if cfg.Path == "" {
		return nil, errors.New("file_system: path is required")
	}
	if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
		return nil, fmt.Errorf("file_system: %w", err)
	}
	return &FileSystemWriter{root: cfg.Path, now: time.Now}, nil
}

func (w *FileSystemWriter) Write(_ context.Context, result records.Result) error {
	name := filepath.Join(w.root, filepath.FromSlash(objectName(result, w.now(), "json")))
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return fmt.Errorf("file_system: %w", err)
	}
	if err := os.WriteFile(name, result.Contents, 0o644); err != nil {
		return fmt.Errorf("file_system: %w", err)
	}
	return nil
}
