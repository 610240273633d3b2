package docs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/draftpad/draftpad/internal/content"
	"github.com/draftpad/draftpad/internal/markdown"
	"github.com/draftpad/draftpad/internal/storage"
)

// CreateDocument reserves the metadata row first, then writes the empty
// content file. If the file write fails the row is deleted again
// (compensation); a failed compensation is escalated to the journal. The
// metadata-first order means a document is never visible without its path
// having been reserved, and the empty-file write is the step that almost
// never fails.
func (s *Service) CreateDocument(ownerID, title, folderID string) (storage.Document, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		existing, err := s.store.ListUntitledTitles(ownerID, folderID)
		if err != nil {
			return storage.Document{}, fmt.Errorf("listing untitled titles: %w", err)
		}
		title = untitledName(existing)
	}

	var folderSlug string
	if folderID != "" {
		folder, err := s.store.GetFolder(ownerID, folderID)
		if err != nil {
			return storage.Document{}, err
		}
		folderSlug = folder.Slug
	}

	id, err := uuid.NewV7()
	if err != nil {
		return storage.Document{}, fmt.Errorf("generating document id: %w", err)
	}

	titleSlug := slugify(title)
	doc := storage.Document{
		ID:          id.String(),
		OwnerID:     ownerID,
		FolderID:    folderID,
		Title:       title,
		Slug:        titleSlug,
		ContentPath: contentPath(titleSlug, folderSlug, id.String()),
	}

	if err := s.store.CreateDocument(doc); err != nil {
		return storage.Document{}, fmt.Errorf("creating document row: %w", err)
	}

	if err := s.content.Write(doc.ContentPath, ""); err != nil {
		// Compensate: take the reserved row back out.
		if delErr := s.store.DeleteDocument(ownerID, doc.ID); delErr != nil {
			s.logger.Error("compensating row delete failed after content write failure",
				"document_id", doc.ID, "error", delErr)
			s.journal(storage.InconsistencyCritical, doc.ID,
				fmt.Sprintf("row delete failed after content write failure: %v", delErr))
		}
		return storage.Document{}, fmt.Errorf("writing content file: %w: %w", ErrStorageIO, err)
	}

	// Make the title searchable right away. Best-effort: the document is
	// committed either way.
	if err := s.store.IndexDocument(doc.ID, doc.Title, ""); err != nil {
		s.journal(storage.InconsistencySearchStale, doc.ID, err.Error())
	}

	return s.store.GetDocument(ownerID, doc.ID)
}

// GetDocument returns a single document's metadata.
func (s *Service) GetDocument(ownerID, id string) (storage.Document, error) {
	return s.store.GetDocument(ownerID, id)
}

// ListDocuments returns the owner's documents, pinned first then most
// recently updated. A non-empty tagID restricts to documents carrying that
// tag (the tag itself must belong to the owner).
func (s *Service) ListDocuments(ownerID, tagID string) ([]storage.Document, error) {
	if tagID == "" {
		return s.store.ListDocuments(ownerID)
	}
	if _, err := s.store.GetTag(ownerID, tagID); err != nil {
		return nil, err
	}
	return s.store.ListDocumentsByTag(ownerID, tagID)
}

// MetaPatch is a partial metadata update. Nil fields are unchanged; a
// non-nil FolderID pointing at "" moves the document to the root.
type MetaPatch struct {
	Title      *string
	FolderID   *string
	IsPinned   *bool
	IsArchived *bool
}

// UpdateDocumentMeta applies a metadata-only patch: rename, move between
// folders, pin, archive. No content store involvement; a title change
// refreshes the search entry against the committed content.
func (s *Service) UpdateDocumentMeta(ownerID, id string, patch MetaPatch) (storage.Document, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	doc, err := s.store.GetDocument(ownerID, id)
	if err != nil {
		return storage.Document{}, err
	}

	if patch.FolderID != nil && *patch.FolderID != "" {
		if _, err := s.store.GetFolder(ownerID, *patch.FolderID); err != nil {
			return storage.Document{}, err
		}
	}

	p := storage.DocumentPatch{
		FolderID:   patch.FolderID,
		IsPinned:   patch.IsPinned,
		IsArchived: patch.IsArchived,
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return storage.Document{}, fmt.Errorf("title must not be empty: %w", ErrValidation)
		}
		titleSlug := slugify(title)
		p.Title = &title
		p.Slug = &titleSlug
	}

	if err := s.store.UpdateDocumentMeta(ownerID, id, p); err != nil {
		return storage.Document{}, err
	}

	if patch.Title != nil && *p.Title != doc.Title {
		// Re-derive the search entry with the committed content so the new
		// title is searchable.
		text, err := s.content.Read(doc.ContentPath)
		if err != nil && !errors.Is(err, content.ErrNotFound) {
			s.journal(storage.InconsistencySearchStale, id, err.Error())
		} else if err := s.store.IndexDocument(id, *p.Title, text); err != nil {
			s.journal(storage.InconsistencySearchStale, id, err.Error())
		}
	}

	return s.store.GetDocument(ownerID, id)
}

// DeleteDocument removes the search entry, then the metadata row (tags and
// versions cascade), then the content file. Metadata goes before content so
// a crash in between never leaves a row pointing at a vanished file; a
// leftover file with no row is harmless and swept by the reconcile worker.
func (s *Service) DeleteDocument(ownerID, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	doc, err := s.store.GetDocument(ownerID, id)
	if err != nil {
		return err
	}

	if err := s.store.RemoveFromIndex(id); err != nil {
		s.journal(storage.InconsistencySearchStale, id, err.Error())
	}

	if err := s.store.DeleteDocument(ownerID, id); err != nil {
		return err
	}

	if err := s.content.Delete(doc.ContentPath); err != nil {
		s.journal(storage.InconsistencyOrphanFile, id, doc.ContentPath)
	}
	return nil
}

// GetContent reads the committed content from the content store.
func (s *Service) GetContent(ownerID, id string) (string, error) {
	doc, err := s.store.GetDocument(ownerID, id)
	if err != nil {
		return "", err
	}
	text, err := s.content.Read(doc.ContentPath)
	if errors.Is(err, content.ErrNotFound) {
		s.journal(storage.InconsistencyOrphanRow, id, doc.ContentPath)
		return "", fmt.Errorf("content file missing: %w", ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrStorageIO, err)
	}
	return text, nil
}

// SetContent commits new content for a document. Order: read previous
// content, conditionally snapshot it, write the new content, update the
// derived counts, refresh the search entry. A failed content write aborts
// before metadata is touched; failures after the write are journaled
// inconsistencies, not caller-visible errors, since the primary effect
// already succeeded.
func (s *Service) SetContent(ownerID, id, text string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	doc, err := s.store.GetDocument(ownerID, id)
	if err != nil {
		return err
	}

	prev, err := s.content.Read(doc.ContentPath)
	if errors.Is(err, content.ErrNotFound) {
		s.journal(storage.InconsistencyOrphanRow, id, doc.ContentPath)
		prev = ""
	} else if err != nil {
		return fmt.Errorf("reading previous content: %w: %w", ErrStorageIO, err)
	}

	// Snapshot the prior state right before it is overwritten. Version
	// bookkeeping must not block the save itself.
	if _, err := s.snaps.Maybe(id, prev, s.now()); err != nil {
		s.logger.Warn("snapshot failed", "document_id", id, "error", err)
	}

	if err := s.content.Write(doc.ContentPath, text); err != nil {
		return fmt.Errorf("writing content: %w: %w", ErrStorageIO, err)
	}

	if err := s.store.UpdateDocumentCounts(ownerID, id,
		markdown.CountWords(text), markdown.CountChars(text), markdown.Excerpt(text)); err != nil {
		// Content on disk is now ahead of the metadata counts. The next
		// successful edit or the reconcile worker catches it up.
		s.journal(storage.InconsistencyCountsStale, id, err.Error())
		return nil
	}

	if err := s.store.IndexDocument(id, doc.Title, text); err != nil {
		s.journal(storage.InconsistencySearchStale, id, err.Error())
	}
	return nil
}
