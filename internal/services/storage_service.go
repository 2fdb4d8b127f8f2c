package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"tradelens/internal/config"
	"tradelens/internal/files"
)

// StorageService manages stored uploads on behalf of the HTTP layer.
type StorageService struct {
	manager *files.Manager
	maxSize int64
	logger  *slog.Logger
}

// NewStorageService creates a storage service over the upload directory.
func NewStorageService(cfg config.UploadConfig, logger *slog.Logger) *StorageService {
	if logger == nil {
		logger = slog.Default()
	}
	return &StorageService{
		manager: files.NewManager(cfg),
		maxSize: cfg.MaxSizeBytes,
		logger:  logger,
	}
}

// MaxSizeBytes returns the configured upload size limit.
func (s *StorageService) MaxSizeBytes() int64 {
	return s.maxSize
}

// Store validates and saves an upload, returning the stored filename.
func (s *StorageService) Store(ctx context.Context, name string, data []byte) (string, error) {
	if err := s.manager.ValidateFilename(name); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidFileType, err)
	}
	if int64(len(data)) > s.maxSize {
		return "", fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidInput, s.maxSize)
	}

	stored, err := s.manager.Save(name, data)
	if err != nil {
		return "", fmt.Errorf("failed to store upload: %w", err)
	}

	s.logger.InfoContext(ctx, "upload stored",
		slog.String("original", name),
		slog.String("stored", stored),
		slog.Int("size_bytes", len(data)),
	)
	return stored, nil
}

// List returns stored uploads, newest first.
func (s *StorageService) List(ctx context.Context) ([]files.FileInfo, error) {
	infos, err := s.manager.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}
	return infos, nil
}

// Read returns the content of a stored upload.
func (s *StorageService) Read(ctx context.Context, name string) ([]byte, error) {
	if err := s.manager.ValidateFilename(name); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFileType, err)
	}
	data, err := s.manager.Read(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, name)
		}
		return nil, err
	}
	return data, nil
}

// Delete removes a stored upload.
func (s *StorageService) Delete(ctx context.Context, name string) error {
	if err := s.manager.ValidateFilename(name); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidFileType, err)
	}
	if !s.manager.Exists(name) {
		return fmt.Errorf("%w: %s", ErrFileNotFound, name)
	}
	if err := s.manager.Delete(name); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "upload deleted", slog.String("filename", name))
	return nil
}
