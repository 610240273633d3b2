package storage

import (
	"database/sql"
	"time"
)

// InsertVersion stores a content snapshot with the next version number for
// the document. Numbers are 1-based, strictly increasing, and never reused:
// pruning old rows does not renumber survivors. createdAt is supplied by the
// caller so the snapshot engine's interval policy stays testable.
func (s *Store) InsertVersion(id, documentID, content string, wordCount, charCount int, createdAt time.Time) (Version, error) {
	var next int
	err := s.db.QueryRow(`
		SELECT COALESCE(MAX(version_number), 0) + 1 FROM document_versions WHERE document_id = ?`,
		documentID).Scan(&next)
	if err != nil {
		return Version{}, err
	}

	_, err = s.db.Exec(`
		INSERT INTO document_versions (id, document_id, version_number, content, word_count, char_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, documentID, next, content, wordCount, charCount, formatTime(createdAt))
	if err != nil {
		return Version{}, err
	}

	return Version{
		ID:            id,
		DocumentID:    documentID,
		VersionNumber: next,
		Content:       content,
		WordCount:     wordCount,
		CharCount:     charCount,
		CreatedAt:     createdAt.UTC(),
	}, nil
}

// LatestVersion returns the most recent snapshot for the document, or
// ErrNotFound when none exists yet.
func (s *Store) LatestVersion(documentID string) (Version, error) {
	row := s.db.QueryRow(`
		SELECT id, document_id, version_number, content, word_count, char_count, created_at
		FROM document_versions
		WHERE document_id = ?
		ORDER BY version_number DESC
		LIMIT 1`, documentID)
	return scanVersion(row)
}

// GetVersion fetches a single snapshot by its own id.
func (s *Store) GetVersion(id string) (Version, error) {
	row := s.db.QueryRow(`
		SELECT id, document_id, version_number, content, word_count, char_count, created_at
		FROM document_versions
		WHERE id = ?`, id)
	return scanVersion(row)
}

func scanVersion(row *sql.Row) (Version, error) {
	var v Version
	var createdAt string
	err := row.Scan(&v.ID, &v.DocumentID, &v.VersionNumber, &v.Content, &v.WordCount, &v.CharCount, &createdAt)
	if err == sql.ErrNoRows {
		return Version{}, ErrNotFound
	}
	if err != nil {
		return Version{}, err
	}
	if v.CreatedAt, err = parseTime(createdAt); err != nil {
		return Version{}, err
	}
	return v, nil
}

// ListVersions returns snapshot summaries for a document, newest first.
func (s *Store) ListVersions(documentID string) ([]VersionSummary, error) {
	rows, err := s.db.Query(`
		SELECT id, document_id, version_number, word_count, char_count, created_at
		FROM document_versions
		WHERE document_id = ?
		ORDER BY version_number DESC`, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []VersionSummary
	for rows.Next() {
		var v VersionSummary
		var createdAt string
		if err := rows.Scan(&v.ID, &v.DocumentID, &v.VersionNumber, &v.WordCount, &v.CharCount, &createdAt); err != nil {
			return nil, err
		}
		if v.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// PruneVersions deletes the oldest snapshots beyond keep, by version number.
func (s *Store) PruneVersions(documentID string, keep int) error {
	_, err := s.db.Exec(`
		DELETE FROM document_versions
		WHERE document_id = ? AND id NOT IN (
			SELECT id FROM document_versions
			WHERE document_id = ?
			ORDER BY version_number DESC
			LIMIT ?
		)`, documentID, documentID, keep)
	return err
}

// CountVersions returns the number of snapshots stored for a document.
func (s *Store) CountVersions(documentID string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM document_versions WHERE document_id = ?`, documentID).Scan(&n)
	return n, err
}
