package storage

import (
	"database/sql"
	"fmt"
)

// The FTS index is derived state: every entry maps a document's rowid to
// its indexed title+content, and the whole table can be re-derived from the
// documents table plus the content store (see the reconcile package).

// IndexDocument replaces the full-text entry for a document with the given
// title and content. Indexing a document that no longer exists is a no-op.
func (s *Store) IndexDocument(documentID, title, content string) error {
	rowid, ok, err := s.documentRowID(documentID)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if _, err := s.db.Exec(`DELETE FROM documents_fts WHERE rowid = ?`, rowid); err != nil {
		return fmt.Errorf("clearing index entry: %w", err)
	}
	if _, err := s.db.Exec(`INSERT INTO documents_fts (rowid, title, content) VALUES (?, ?, ?)`,
		rowid, title, content); err != nil {
		return fmt.Errorf("writing index entry: %w", err)
	}
	return nil
}

// RemoveFromIndex deletes the full-text entry for a document. Must be called
// before the document row itself goes away, while the rowid can still be
// resolved.
func (s *Store) RemoveFromIndex(documentID string) error {
	rowid, ok, err := s.documentRowID(documentID)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	_, err = s.db.Exec(`DELETE FROM documents_fts WHERE rowid = ?`, rowid)
	return err
}

// Search runs an FTS5 MATCH query over ownerID's documents and returns up
// to limit hits ordered by relevance. The query string uses FTS5 syntax, so
// "hello*" is a prefix query and "hello world" is an AND of both terms.
func (s *Store) Search(ownerID, query string, limit int) ([]SearchHit, error) {
	rows, err := s.db.Query(`
		SELECT d.id, d.title, COALESCE(d.excerpt, ''), documents_fts.rank
		FROM documents_fts
		JOIN documents d ON d.rowid = documents_fts.rowid
		WHERE documents_fts MATCH ? AND d.owner_id = ?
		ORDER BY documents_fts.rank
		LIMIT ?`, query, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits []SearchHit
	for rows.Next() {
		var h SearchHit
		if err := rows.Scan(&h.ID, &h.Title, &h.Excerpt, &h.Rank); err != nil {
			return nil, err
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// AllDocumentIDs returns every document id in the registry, across owners.
// Used by the index rebuild.
func (s *Store) AllDocumentIDs() ([]string, error) {
	rows, err := s.db.Query(`SELECT id FROM documents ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetDocumentAnyOwner fetches a document without owner scoping. Reserved for
// the reconcile worker, which acts on journal entries rather than requests.
func (s *Store) GetDocumentAnyOwner(id string) (Document, error) {
	row := s.db.QueryRow(`SELECT `+documentColumns+` FROM documents WHERE id = ?`, id)
	d, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return Document{}, ErrNotFound
	}
	return d, err
}

// ClearIndex drops every FTS entry, ahead of a full rebuild.
func (s *Store) ClearIndex() error {
	_, err := s.db.Exec(`DELETE FROM documents_fts`)
	return err
}

func (s *Store) documentRowID(documentID string) (int64, bool, error) {
	var rowid int64
	err := s.db.QueryRow(`SELECT rowid FROM documents WHERE id = ?`, documentID).Scan(&rowid)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return rowid, true, nil
}
