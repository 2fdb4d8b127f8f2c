package dataprocessing

import (
	"fmt"
	"strings"
)

// MalformedInputError indicates the input could not be decoded or parsed
// at all, even by the ragged-row fallback. Fatal for the request.
type MalformedInputError struct {
	Reason string
	Cause  error
}

func (e *MalformedInputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed input: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("malformed input: %s", e.Reason)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Cause
}

// SchemaValidationError indicates required columns are missing for the
// detected file type. The message enumerates every missing column so the
// caller can fix the export in one pass.
type SchemaValidationError struct {
	FileType string
	Missing  []string
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("%s file is missing required columns: %s",
		e.FileType, strings.Join(e.Missing, ", "))
}
