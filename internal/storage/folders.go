package storage

import (
	"database/sql"
	"time"
)

const folderColumns = `id, owner_id, parent_id, name, slug, sort_order, created_at, updated_at`

func scanFolder(row interface{ Scan(...any) error }) (Folder, error) {
	var f Folder
	var parentID sql.NullString
	var createdAt, updatedAt string
	err := row.Scan(&f.ID, &f.OwnerID, &parentID, &f.Name, &f.Slug, &f.SortOrder, &createdAt, &updatedAt)
	if err != nil {
		return Folder{}, err
	}
	f.ParentID = parentID.String
	if f.CreatedAt, err = parseTime(createdAt); err != nil {
		return Folder{}, err
	}
	if f.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return Folder{}, err
	}
	return f, nil
}

func (s *Store) CreateFolder(f Folder) error {
	now := formatTime(time.Now())
	_, err := s.db.Exec(`
		INSERT INTO folders (id, owner_id, parent_id, name, slug, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.OwnerID, nullable(f.ParentID), f.Name, f.Slug, f.SortOrder, now, now,
	)
	return err
}

func (s *Store) GetFolder(ownerID, id string) (Folder, error) {
	row := s.db.QueryRow(`SELECT `+folderColumns+` FROM folders WHERE id = ? AND owner_id = ?`, id, ownerID)
	f, err := scanFolder(row)
	if err == sql.ErrNoRows {
		return Folder{}, ErrNotFound
	}
	return f, err
}

// ListFolders returns ownerID's folders ordered by sort_order, then name.
func (s *Store) ListFolders(ownerID string) ([]Folder, error) {
	rows, err := s.db.Query(`
		SELECT `+folderColumns+` FROM folders
		WHERE owner_id = ?
		ORDER BY sort_order, name`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var folders []Folder
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

// FolderPatch is a partial folder update. A non-nil ParentID pointing at ""
// moves the folder to the root level.
type FolderPatch struct {
	Name      *string
	Slug      *string
	ParentID  *string
	SortOrder *int
}

func (s *Store) UpdateFolder(ownerID, id string, p FolderPatch) error {
	query := "UPDATE folders SET updated_at = ?"
	args := []any{formatTime(time.Now())}

	if p.Name != nil {
		query += ", name = ?"
		args = append(args, *p.Name)
	}
	if p.Slug != nil {
		query += ", slug = ?"
		args = append(args, *p.Slug)
	}
	if p.ParentID != nil {
		query += ", parent_id = ?"
		args = append(args, nullable(*p.ParentID))
	}
	if p.SortOrder != nil {
		query += ", sort_order = ?"
		args = append(args, *p.SortOrder)
	}

	query += " WHERE id = ? AND owner_id = ?"
	args = append(args, id, ownerID)

	res, err := s.db.Exec(query, args...)
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

// DeleteFolder removes the row. Child folders and documents are detached to
// the root by the schema's ON DELETE SET NULL, never deleted.
func (s *Store) DeleteFolder(ownerID, id string) error {
	res, err := s.db.Exec(`DELETE FROM folders WHERE id = ? AND owner_id = ?`, id, ownerID)
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
