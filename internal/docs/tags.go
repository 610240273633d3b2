package docs

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/draftpad/draftpad/internal/storage"
)

// CreateTag adds a tag. Names are unique per owner, not globally; a clash
// within the owner reports ErrConflict.
func (s *Service) CreateTag(ownerID, name, color string) (storage.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return storage.Tag{}, fmt.Errorf("tag name must not be empty: %w", ErrValidation)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return storage.Tag{}, fmt.Errorf("generating tag id: %w", err)
	}

	t := storage.Tag{ID: id.String(), OwnerID: ownerID, Name: name, Color: color}
	if err := s.store.CreateTag(t); err != nil {
		return storage.Tag{}, err
	}
	return s.store.GetTag(ownerID, id.String())
}

func (s *Service) ListTags(ownerID string) ([]storage.Tag, error) {
	return s.store.ListTags(ownerID)
}

type TagPatch struct {
	Name  *string
	Color *string
}

func (s *Service) UpdateTag(ownerID, id string, patch TagPatch) (storage.Tag, error) {
	p := storage.TagPatch{Color: patch.Color}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return storage.Tag{}, fmt.Errorf("tag name must not be empty: %w", ErrValidation)
		}
		p.Name = &name
	}
	if err := s.store.UpdateTag(ownerID, id, p); err != nil {
		return storage.Tag{}, err
	}
	return s.store.GetTag(ownerID, id)
}

func (s *Service) DeleteTag(ownerID, id string) error {
	return s.store.DeleteTag(ownerID, id)
}

// TagDocument links an owner's tag to an owner's document. Both sides are
// ownership-checked; cross-owner references are rejected at write time.
func (s *Service) TagDocument(ownerID, documentID, tagID string) error {
	if _, err := s.store.GetDocument(ownerID, documentID); err != nil {
		return err
	}
	if _, err := s.store.GetTag(ownerID, tagID); err != nil {
		return err
	}
	return s.store.TagDocument(documentID, tagID)
}

func (s *Service) UntagDocument(ownerID, documentID, tagID string) error {
	if _, err := s.store.GetDocument(ownerID, documentID); err != nil {
		return err
	}
	return s.store.UntagDocument(documentID, tagID)
}

// DocumentTags lists the tags attached to an owner's document.
func (s *Service) DocumentTags(ownerID, documentID string) ([]storage.Tag, error) {
	if _, err := s.store.GetDocument(ownerID, documentID); err != nil {
		return nil, err
	}
	return s.store.DocumentTags(documentID)
}
