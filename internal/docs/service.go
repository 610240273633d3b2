// Package docs is the consistency coordinator: it sequences every mutating
// use case across the metadata registry, the content store, the snapshot
// engine, and the search index, with a fixed commit order per operation and
// compensating actions on partial failure. Callers supply an already
// verified owner identity on every call; nothing here checks credentials.
package docs

import (
	"log/slog"
	"time"

	"github.com/draftpad/draftpad/internal/storage"
)

// DefaultSearchLimit caps search results when the caller asks for more, or
// for nothing in particular.
const DefaultSearchLimit = 50

// ContentStore is the slice of the content store the coordinator needs.
type ContentStore interface {
	Write(path, text string) error
	Read(path string) (string, error)
	Delete(path string) error
}

// Snapshotter is the slice of the version snapshot engine the coordinator
// needs.
type Snapshotter interface {
	Maybe(documentID, prev string, now time.Time) (bool, error)
	Force(documentID, content string, now time.Time) (bool, error)
}

// Service orchestrates document mutations. Mutations on the same document
// are serialized through a keyed mutex; reads and other documents proceed
// concurrently.
type Service struct {
	store   *storage.Store
	content ContentStore
	snaps   Snapshotter
	locks   *keyedMutex
	logger  *slog.Logger
	now     func() time.Time
}

// NewService wires the coordinator. A nil logger falls back to
// slog.Default().
func NewService(store *storage.Store, content ContentStore, snaps Snapshotter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:   store,
		content: content,
		snaps:   snaps,
		locks:   newKeyedMutex(),
		logger:  logger,
		now:     time.Now,
	}
}

// journal records an inconsistency without ever failing the caller's
// request; a journaling failure is only logged.
func (s *Service) journal(kind, documentID, detail string) {
	s.logger.Warn("inconsistency detected", "kind", kind, "document_id", documentID, "detail", detail)
	if err := s.store.RecordInconsistency(kind, documentID, detail); err != nil {
		s.logger.Error("recording inconsistency failed", "kind", kind, "document_id", documentID, "error", err)
	}
}
