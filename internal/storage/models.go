package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist or is not
// visible to the calling owner. Owner mismatches are deliberately
// indistinguishable from absent rows.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned on unique-constraint violations such as a
// duplicate tag name for the same owner.
var ErrConflict = errors.New("conflict")

// Folder is a node in an owner's folder tree.
type Folder struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	ParentID  string    `json:"parent_id,omitempty"` // empty = root level
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Document is the metadata record for a markdown document. The body itself
// lives in the content store at ContentPath.
type Document struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	FolderID    string    `json:"folder_id,omitempty"` // empty = root level
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	ContentPath string    `json:"content_path"`
	WordCount   int       `json:"word_count"`
	CharCount   int       `json:"char_count"`
	Excerpt     string    `json:"excerpt,omitempty"`
	IsPinned    bool      `json:"is_pinned"`
	IsArchived  bool      `json:"is_archived"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Tag struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	Name    string `json:"name"`
	Color   string `json:"color,omitempty"`
}

// Version is a full content snapshot of a document at a point in time.
// Immutable once created.
type Version struct {
	ID            string    `json:"id"`
	DocumentID    string    `json:"document_id"`
	VersionNumber int       `json:"version_number"`
	Content       string    `json:"content"`
	WordCount     int       `json:"word_count"`
	CharCount     int       `json:"char_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// VersionSummary is a Version without its content payload, for listings.
type VersionSummary struct {
	ID            string    `json:"id"`
	DocumentID    string    `json:"document_id"`
	VersionNumber int       `json:"version_number"`
	WordCount     int       `json:"word_count"`
	CharCount     int       `json:"char_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// SearchHit is one full-text search result. Rank is the bm25 score as
// reported by FTS5 (more negative = more relevant).
type SearchHit struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Excerpt string  `json:"excerpt,omitempty"`
	Rank    float64 `json:"rank"`
}

// Inconsistency kinds recorded by the coordinator for the reconcile worker.
const (
	InconsistencyCountsStale = "counts_stale" // metadata counts behind disk content
	InconsistencySearchStale = "search_stale" // FTS entry behind disk content
	InconsistencyOrphanFile  = "orphan_file"  // content file left behind after row delete
	InconsistencyOrphanRow   = "orphan_row"   // metadata row whose content file is missing
	InconsistencyCritical    = "critical"     // failed compensation, needs an operator
)

// Inconsistency is a journaled divergence between two representations of a
// document, scheduled for out-of-band reconciliation.
type Inconsistency struct {
	ID         string
	Kind       string
	DocumentID string
	Detail     string
	CreatedAt  time.Time
	ResolvedAt time.Time // zero = unresolved
}
