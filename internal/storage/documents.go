package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// nullable maps the empty string to SQL NULL for optional reference columns.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// timeFormat matches the schema's strftime('%Y-%m-%dT%H:%M:%fZ') default:
// fixed-width milliseconds, so lexicographic ordering equals time ordering.
const timeFormat = "2006-01-02T15:04:05.000Z07:00"

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

const documentColumns = `id, owner_id, folder_id, title, slug, content_path,
	word_count, char_count, excerpt, is_pinned, is_archived, created_at, updated_at`

func scanDocument(row interface{ Scan(...any) error }) (Document, error) {
	var d Document
	var folderID, excerpt sql.NullString
	var pinned, archived int
	var createdAt, updatedAt string
	err := row.Scan(&d.ID, &d.OwnerID, &folderID, &d.Title, &d.Slug, &d.ContentPath,
		&d.WordCount, &d.CharCount, &excerpt, &pinned, &archived, &createdAt, &updatedAt)
	if err != nil {
		return Document{}, err
	}
	d.FolderID = folderID.String
	d.Excerpt = excerpt.String
	d.IsPinned = pinned != 0
	d.IsArchived = archived != 0
	if d.CreatedAt, err = parseTime(createdAt); err != nil {
		return Document{}, err
	}
	if d.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return Document{}, err
	}
	return d, nil
}

// CreateDocument inserts a new document row. Timestamps are set here; the
// caller provides everything else, content_path included.
func (s *Store) CreateDocument(d Document) error {
	now := formatTime(time.Now())
	_, err := s.db.Exec(`
		INSERT INTO documents (id, owner_id, folder_id, title, slug, content_path,
			word_count, char_count, excerpt, is_pinned, is_archived, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, 0, NULL, 0, 0, ?, ?)`,
		d.ID, d.OwnerID, nullable(d.FolderID), d.Title, d.Slug, d.ContentPath, now, now,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("document %s: %w", d.ID, ErrConflict)
	}
	return err
}

// GetDocument fetches a document visible to ownerID. A row owned by someone
// else reports ErrNotFound, same as a missing row.
func (s *Store) GetDocument(ownerID, id string) (Document, error) {
	row := s.db.QueryRow(`SELECT `+documentColumns+` FROM documents WHERE id = ? AND owner_id = ?`, id, ownerID)
	d, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return Document{}, ErrNotFound
	}
	return d, err
}

// ListDocuments returns ownerID's documents, pinned first, then most
// recently updated.
func (s *Store) ListDocuments(ownerID string) ([]Document, error) {
	rows, err := s.db.Query(`
		SELECT `+documentColumns+` FROM documents
		WHERE owner_id = ?
		ORDER BY is_pinned DESC, updated_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDocuments(rows)
}

// ListDocumentsByTag returns ownerID's documents carrying the given tag.
func (s *Store) ListDocumentsByTag(ownerID, tagID string) ([]Document, error) {
	rows, err := s.db.Query(`
		SELECT d.id, d.owner_id, d.folder_id, d.title, d.slug, d.content_path,
			d.word_count, d.char_count, d.excerpt, d.is_pinned, d.is_archived, d.created_at, d.updated_at
		FROM documents d
		JOIN document_tags dt ON dt.document_id = d.id
		WHERE d.owner_id = ? AND dt.tag_id = ?
		ORDER BY d.is_pinned DESC, d.updated_at DESC`, ownerID, tagID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDocuments(rows)
}

func collectDocuments(rows *sql.Rows) ([]Document, error) {
	var docs []Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// ListUntitledTitles returns the titles starting with "Untitled" in the
// given folder (empty folderID = root), used for suffix deduplication.
func (s *Store) ListUntitledTitles(ownerID, folderID string) ([]string, error) {
	var rows *sql.Rows
	var err error
	if folderID == "" {
		rows, err = s.db.Query(`SELECT title FROM documents
			WHERE owner_id = ? AND folder_id IS NULL AND title LIKE 'Untitled%'`, ownerID)
	} else {
		rows, err = s.db.Query(`SELECT title FROM documents
			WHERE owner_id = ? AND folder_id = ? AND title LIKE 'Untitled%'`, ownerID, folderID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		titles = append(titles, t)
	}
	return titles, rows.Err()
}

// DocumentPatch is a partial metadata update. Nil fields are left unchanged;
// a non-nil FolderID pointing at "" moves the document to the root.
type DocumentPatch struct {
	Title      *string
	Slug       *string
	FolderID   *string
	IsPinned   *bool
	IsArchived *bool
}

// UpdateDocumentMeta applies the patch and bumps updated_at. Returns
// ErrNotFound when the document is absent or owned by someone else.
func (s *Store) UpdateDocumentMeta(ownerID, id string, p DocumentPatch) error {
	query := "UPDATE documents SET updated_at = ?"
	args := []any{formatTime(time.Now())}

	if p.Title != nil {
		query += ", title = ?"
		args = append(args, *p.Title)
	}
	if p.Slug != nil {
		query += ", slug = ?"
		args = append(args, *p.Slug)
	}
	if p.FolderID != nil {
		query += ", folder_id = ?"
		args = append(args, nullable(*p.FolderID))
	}
	if p.IsPinned != nil {
		query += ", is_pinned = ?"
		args = append(args, boolToInt(*p.IsPinned))
	}
	if p.IsArchived != nil {
		query += ", is_archived = ?"
		args = append(args, boolToInt(*p.IsArchived))
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

// UpdateDocumentCounts writes the derived fields after a successful content
// commit. Counts always describe the last committed content, never an
// in-flight write.
func (s *Store) UpdateDocumentCounts(ownerID, id string, wordCount, charCount int, excerpt string) error {
	res, err := s.db.Exec(`
		UPDATE documents SET word_count = ?, char_count = ?, excerpt = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`,
		wordCount, charCount, nullable(excerpt), formatTime(time.Now()), id, ownerID)
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

// DeleteDocument removes the row; document_tags and document_versions rows
// cascade away with it.
func (s *Store) DeleteDocument(ownerID, id string) error {
	res, err := s.db.Exec(`DELETE FROM documents WHERE id = ? AND owner_id = ?`, id, ownerID)
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

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
