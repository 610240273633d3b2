// Package content owns the raw markdown bytes on disk. It knows nothing
// about document metadata; callers address files by the relative path the
// metadata registry stores.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

// ErrNotFound is returned by Read when no file exists at the path.
var ErrNotFound = errors.New("content not found")

// ErrInvalidPath is returned for paths that are absolute or escape the root.
var ErrInvalidPath = errors.New("invalid content path")

// Store reads and writes document content under a single root directory.
type Store struct {
	root string
}

// NewStore creates the root directory if needed and returns a store over it.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating content root: %w", err)
	}
	return &Store{root: root}, nil
}

// Write replaces the file at path with text, creating parent directories as
// needed. The replace is atomic (write to a temp file, then rename): a
// crashed writer leaves either the old content or the new, never a
// truncated file.
func (s *Store) Write(path, text string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("creating parent directory: %w", err)
	}
	if err := atomic.WriteFile(full, bytes.NewReader([]byte(text))); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Read returns the file's content, or ErrNotFound if it is absent.
func (s *Store) Read(path string) (string, error) {
	full, err := s.resolve(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// Delete removes the file at path. Deleting an absent file succeeds, so the
// call is safe to retry.
func (s *Store) Delete(path string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	err = os.Remove(full)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("deleting %s: %w", path, err)
	}
	return nil
}

// resolve joins path onto the root, rejecting absolute paths and anything
// that would escape the root via "..".
func (s *Store) resolve(path string) (string, error) {
	if path == "" || filepath.IsAbs(path) {
		return "", fmt.Errorf("%q: %w", path, ErrInvalidPath)
	}
	clean := filepath.Clean(path)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%q: %w", path, ErrInvalidPath)
	}
	return filepath.Join(s.root, clean), nil
}
