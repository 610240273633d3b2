package docs

import (
	"errors"

	"github.com/draftpad/draftpad/internal/storage"
)

// The error taxonomy exposed to callers. Owner mismatches surface as
// ErrNotFound, never a distinct forbidden error, so probing for other
// owners' ids reveals nothing.
var (
	// ErrNotFound covers absent rows, absent files, and owner mismatches.
	ErrNotFound = storage.ErrNotFound

	// ErrConflict covers unique-constraint violations and folder-cycle
	// attempts.
	ErrConflict = storage.ErrConflict

	// ErrValidation covers empty required fields and malformed search
	// queries.
	ErrValidation = errors.New("validation error")

	// ErrStorageIO covers filesystem failures in the content store.
	ErrStorageIO = errors.New("storage io error")
)
