package services

import "errors"

// Storage errors
var (
	ErrFileNotFound    = errors.New("file not found")
	ErrInvalidFileType = errors.New("invalid file type")
)

// ErrInvalidInput marks requests rejected before any storage or
// analysis work happens, such as oversized uploads.
var ErrInvalidInput = errors.New("invalid input")
