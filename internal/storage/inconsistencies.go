package storage

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// RecordInconsistency journals a detected divergence for out-of-band
// reconciliation. Journaling is itself best-effort at call sites; callers
// log the error rather than failing the triggering request.
func (s *Store) RecordInconsistency(kind, documentID, detail string) error {
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO inconsistencies (id, kind, document_id, detail, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		id.String(), kind, nullable(documentID), nullable(detail), formatTime(time.Now()))
	return err
}

// UnresolvedInconsistencies returns open journal entries, oldest first.
func (s *Store) UnresolvedInconsistencies(limit int) ([]Inconsistency, error) {
	rows, err := s.db.Query(`
		SELECT id, kind, document_id, detail, created_at, resolved_at
		FROM inconsistencies
		WHERE resolved_at IS NULL
		ORDER BY created_at ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Inconsistency
	for rows.Next() {
		var inc Inconsistency
		var docID, detail, resolvedAt sql.NullString
		var createdAt string
		if err := rows.Scan(&inc.ID, &inc.Kind, &docID, &detail, &createdAt, &resolvedAt); err != nil {
			return nil, err
		}
		inc.DocumentID = docID.String
		inc.Detail = detail.String
		if inc.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if resolvedAt.Valid {
			if inc.ResolvedAt, err = parseTime(resolvedAt.String); err != nil {
				return nil, err
			}
		}
		out = append(out, inc)
	}
	return out, rows.Err()
}

// ResolveInconsistency marks a journal entry as handled.
func (s *Store) ResolveInconsistency(id string) error {
	res, err := s.db.Exec(`
		UPDATE inconsistencies SET resolved_at = ? WHERE id = ? AND resolved_at IS NULL`,
		formatTime(time.Now()), id)
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
