package docs

import (
	"errors"
	"fmt"

	"github.com/draftpad/draftpad/internal/content"
	"github.com/draftpad/draftpad/internal/storage"
)

// ListVersions returns snapshot summaries for an owner's document, newest
// first. Version rows are reached only through their document, so the
// ownership check happens once here.
func (s *Service) ListVersions(ownerID, documentID string) ([]storage.VersionSummary, error) {
	if _, err := s.store.GetDocument(ownerID, documentID); err != nil {
		return nil, err
	}
	return s.store.ListVersions(documentID)
}

// GetVersion returns a full snapshot, content included, after confirming
// the owning document belongs to the caller.
func (s *Service) GetVersion(ownerID, versionID string) (storage.Version, error) {
	v, err := s.store.GetVersion(versionID)
	if err != nil {
		return storage.Version{}, err
	}
	if _, err := s.store.GetDocument(ownerID, v.DocumentID); err != nil {
		return storage.Version{}, err
	}
	return v, nil
}

// SnapshotNow forces a snapshot of the committed content, bypassing the
// interval throttle. Reports false when the content is identical to the
// latest version ("no changes").
func (s *Service) SnapshotNow(ownerID, documentID string) (bool, error) {
	unlock := s.locks.Lock(documentID)
	defer unlock()

	doc, err := s.store.GetDocument(ownerID, documentID)
	if err != nil {
		return false, err
	}

	text, err := s.content.Read(doc.ContentPath)
	if errors.Is(err, content.ErrNotFound) {
		s.journal(storage.InconsistencyOrphanRow, documentID, doc.ContentPath)
		return false, fmt.Errorf("content file missing: %w", ErrNotFound)
	}
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrStorageIO, err)
	}

	return s.snaps.Force(documentID, text, s.now())
}
