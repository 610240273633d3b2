package storage

import (
	"database/sql"
	"fmt"
)

func scanTag(row interface{ Scan(...any) error }) (Tag, error) {
	var t Tag
	var color sql.NullString
	err := row.Scan(&t.ID, &t.OwnerID, &t.Name, &color)
	if err != nil {
		return Tag{}, err
	}
	t.Color = color.String
	return t, nil
}

// CreateTag inserts a tag. Names are unique per owner; a duplicate reports
// ErrConflict.
func (s *Store) CreateTag(t Tag) error {
	_, err := s.db.Exec(`INSERT INTO tags (id, owner_id, name, color) VALUES (?, ?, ?, ?)`,
		t.ID, t.OwnerID, t.Name, nullable(t.Color))
	if isUniqueViolation(err) {
		return fmt.Errorf("tag name %q: %w", t.Name, ErrConflict)
	}
	return err
}

func (s *Store) GetTag(ownerID, id string) (Tag, error) {
	row := s.db.QueryRow(`SELECT id, owner_id, name, color FROM tags WHERE id = ? AND owner_id = ?`, id, ownerID)
	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return Tag{}, ErrNotFound
	}
	return t, err
}

func (s *Store) ListTags(ownerID string) ([]Tag, error) {
	rows, err := s.db.Query(`SELECT id, owner_id, name, color FROM tags WHERE owner_id = ? ORDER BY name`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

type TagPatch struct {
	Name  *string
	Color *string
}

func (s *Store) UpdateTag(ownerID, id string, p TagPatch) error {
	if p.Name != nil {
		res, err := s.db.Exec(`UPDATE tags SET name = ? WHERE id = ? AND owner_id = ?`, *p.Name, id, ownerID)
		if isUniqueViolation(err) {
			return fmt.Errorf("tag name %q: %w", *p.Name, ErrConflict)
		}
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return ErrNotFound
		}
	}
	if p.Color != nil {
		res, err := s.db.Exec(`UPDATE tags SET color = ? WHERE id = ? AND owner_id = ?`, nullable(*p.Color), id, ownerID)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return ErrNotFound
		}
	}
	return nil
}

// DeleteTag removes the tag; document_tags rows cascade away.
func (s *Store) DeleteTag(ownerID, id string) error {
	res, err := s.db.Exec(`DELETE FROM tags WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// TagDocument links a tag to a document. Re-linking an existing pair is a
// no-op rather than an error.
func (s *Store) TagDocument(documentID, tagID string) error {
	_, err := s.db.Exec(`INSERT OR IGNORE INTO document_tags (document_id, tag_id) VALUES (?, ?)`,
		documentID, tagID)
	return err
}

// UntagDocument removes the link. Reports ErrNotFound when the pair did not
// exist.
func (s *Store) UntagDocument(documentID, tagID string) error {
	res, err := s.db.Exec(`DELETE FROM document_tags WHERE document_id = ? AND tag_id = ?`,
		documentID, tagID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DocumentTags returns the tags attached to a document, by name.
func (s *Store) DocumentTags(documentID string) ([]Tag, error) {
	rows, err := s.db.Query(`
		SELECT t.id, t.owner_id, t.name, t.color
		FROM tags t
		JOIN document_tags dt ON dt.tag_id = t.id
		WHERE dt.document_id = ?
		ORDER BY t.name`, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
