// Package snapshot decides when a document's prior content becomes an
// immutable numbered version, and caps how many versions are retained.
package snapshot

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/draftpad/draftpad/internal/markdown"
	"github.com/draftpad/draftpad/internal/storage"
)

const (
	// DefaultMaxVersions is the retention cap per document.
	DefaultMaxVersions = 50
	// DefaultMinInterval throttles keystroke-level saves to at most one
	// snapshot per interval.
	DefaultMinInterval = 5 * time.Minute
)

// Engine creates and retires version snapshots through the metadata store.
type Engine struct {
	store       *storage.Store
	maxVersions int
	minInterval time.Duration
}

// NewEngine creates an Engine. Non-positive maxVersions or minInterval fall
// back to the defaults.
func NewEngine(store *storage.Store, maxVersions int, minInterval time.Duration) *Engine {
	if maxVersions <= 0 {
		maxVersions = DefaultMaxVersions
	}
	if minInterval <= 0 {
		minInterval = DefaultMinInterval
	}
	return &Engine{store: store, maxVersions: maxVersions, minInterval: minInterval}
}

// Maybe snapshots prev, the content that is about to be overwritten, unless
// it matches the latest version byte for byte or the latest version is
// younger than the minimum interval. Returns whether a version was created.
func (e *Engine) Maybe(documentID, prev string, now time.Time) (bool, error) {
	latest, err := e.store.LatestVersion(documentID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		// First snapshot for this document; no throttle applies.
	case err != nil:
		return false, fmt.Errorf("loading latest version: %w", err)
	case latest.Content == prev:
		return false, nil
	case now.Sub(latest.CreatedAt) < e.minInterval:
		return false, nil
	}
	return true, e.create(documentID, prev, now)
}

// Force snapshots content unconditionally except for the no-op rule: if it
// is identical to the latest version, nothing is created. Used for the
// final snapshot on inactivity. A forced version's timestamp gates
// subsequent interval-throttled snapshots like any other.
func (e *Engine) Force(documentID, content string, now time.Time) (bool, error) {
	latest, err := e.store.LatestVersion(documentID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return false, fmt.Errorf("loading latest version: %w", err)
	}
	if err == nil && latest.Content == content {
		return false, nil
	}
	return true, e.create(documentID, content, now)
}

func (e *Engine) create(documentID, content string, now time.Time) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generating version id: %w", err)
	}
	_, err = e.store.InsertVersion(id.String(), documentID, content,
		markdown.CountWords(content), markdown.CountChars(content), now)
	if err != nil {
		return fmt.Errorf("inserting version: %w", err)
	}
	if err := e.store.PruneVersions(documentID, e.maxVersions); err != nil {
		return fmt.Errorf("pruning versions: %w", err)
	}
	return nil
}
