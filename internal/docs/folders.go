package docs

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/draftpad/draftpad/internal/storage"
)

// CreateFolder adds a folder, optionally under a parent the owner must
// already own.
func (s *Service) CreateFolder(ownerID, name, parentID string) (storage.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return storage.Folder{}, fmt.Errorf("folder name must not be empty: %w", ErrValidation)
	}
	if parentID != "" {
		if _, err := s.store.GetFolder(ownerID, parentID); err != nil {
			return storage.Folder{}, err
		}
	}

	id, err := uuid.NewV7()
	if err != nil {
		return storage.Folder{}, fmt.Errorf("generating folder id: %w", err)
	}

	f := storage.Folder{
		ID:       id.String(),
		OwnerID:  ownerID,
		ParentID: parentID,
		Name:     name,
		Slug:     slugify(name),
	}
	if err := s.store.CreateFolder(f); err != nil {
		return storage.Folder{}, fmt.Errorf("creating folder: %w", err)
	}
	return s.store.GetFolder(ownerID, id.String())
}

func (s *Service) GetFolder(ownerID, id string) (storage.Folder, error) {
	return s.store.GetFolder(ownerID, id)
}

// ListFolders returns the owner's folders by sort_order, then name.
func (s *Service) ListFolders(ownerID string) ([]storage.Folder, error) {
	return s.store.ListFolders(ownerID)
}

// FolderPatch is a partial folder update. A non-nil ParentID pointing at ""
// moves the folder to the root.
type FolderPatch struct {
	Name      *string
	ParentID  *string
	SortOrder *int
}

// UpdateFolder applies a partial update. A parent change walks the proposed
// ancestor chain first and rejects anything that would close a cycle, so
// the no-cycles invariant is enforced at write time.
func (s *Service) UpdateFolder(ownerID, id string, patch FolderPatch) (storage.Folder, error) {
	if _, err := s.store.GetFolder(ownerID, id); err != nil {
		return storage.Folder{}, err
	}

	p := storage.FolderPatch{
		ParentID:  patch.ParentID,
		SortOrder: patch.SortOrder,
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return storage.Folder{}, fmt.Errorf("folder name must not be empty: %w", ErrValidation)
		}
		nameSlug := slugify(name)
		p.Name = &name
		p.Slug = &nameSlug
	}
	if patch.ParentID != nil && *patch.ParentID != "" {
		if err := s.checkFolderCycle(ownerID, id, *patch.ParentID); err != nil {
			return storage.Folder{}, err
		}
	}

	if err := s.store.UpdateFolder(ownerID, id, p); err != nil {
		return storage.Folder{}, err
	}
	return s.store.GetFolder(ownerID, id)
}

// DeleteFolder removes the folder; its child folders and documents are
// detached to the root level, and no content file is touched.
func (s *Service) DeleteFolder(ownerID, id string) error {
	return s.store.DeleteFolder(ownerID, id)
}

// checkFolderCycle rejects parenting id under newParentID when id appears
// anywhere on newParentID's ancestor chain (which includes newParentID ==
// id, the self-parent case). The parent must belong to the same owner.
func (s *Service) checkFolderCycle(ownerID, id, newParentID string) error {
	current := newParentID
	for current != "" {
		if current == id {
			return fmt.Errorf("folder cycle: %w", ErrConflict)
		}
		folder, err := s.store.GetFolder(ownerID, current)
		if err != nil {
			return err
		}
		current = folder.ParentID
	}
	return nil
}
