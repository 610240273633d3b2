// Package reconcile drains the inconsistency journal: it recomputes stale
// derived state from the two primary stores (metadata registry + content
// files) and sweeps orphans. It repairs by re-deriving, never by inventing
// new primary data.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/draftpad/draftpad/internal/content"
	"github.com/draftpad/draftpad/internal/markdown"
	"github.com/draftpad/draftpad/internal/storage"
)

const (
	defaultPoll        = 30 * time.Second
	batchSize          = 100
	rebuildConcurrency = 4
)

// ContentStore is the slice of the content store the worker needs.
type ContentStore interface {
	Write(path, text string) error
	Read(path string) (string, error)
	Delete(path string) error
}

// Worker polls the journal and repairs each entry.
type Worker struct {
	store   *storage.Store
	content ContentStore
	poll    time.Duration
	logger  *slog.Logger
}

// NewWorker creates a Worker. If pollInterval is <= 0, it defaults to 30s.
func NewWorker(store *storage.Store, cs ContentStore, pollInterval time.Duration) *Worker {
	if pollInterval <= 0 {
		pollInterval = defaultPoll
	}
	return &Worker{
		store:   store,
		content: cs,
		poll:    pollInterval,
		logger:  slog.Default(),
	}
}

// Run polls for journal entries until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		repaired, err := w.RunOnce(ctx)
		if err != nil {
			w.logger.Error("reconcile iteration failed", "error", err)
		}
		if repaired {
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.poll):
		}
	}
}

// RunOnce processes one batch of unresolved journal entries. Returns whether
// anything was repaired, so the caller can skip the poll delay while there
// is work.
func (w *Worker) RunOnce(ctx context.Context) (bool, error) {
	entries, err := w.store.UnresolvedInconsistencies(batchSize)
	if err != nil {
		return false, fmt.Errorf("listing journal entries: %w", err)
	}

	repaired := false
	for _, inc := range entries {
		if ctx.Err() != nil {
			return repaired, ctx.Err()
		}
		if err := w.repair(inc); err != nil {
			w.logger.Error("repair failed", "id", inc.ID, "kind", inc.Kind,
				"document_id", inc.DocumentID, "error", err)
			continue
		}
		repaired = true
	}
	return repaired, nil
}

func (w *Worker) repair(inc storage.Inconsistency) error {
	switch inc.Kind {
	case storage.InconsistencyCountsStale, storage.InconsistencySearchStale:
		if err := w.rederive(inc.DocumentID); err != nil {
			return err
		}
	case storage.InconsistencyOrphanFile:
		// The row is gone; remove the leftover file. Delete is idempotent.
		if err := w.content.Delete(inc.Detail); err != nil {
			return err
		}
	case storage.InconsistencyOrphanRow:
		// Restore the row/file pairing with an empty file; the registry is
		// the source of truth for existence.
		if err := w.restoreMissingFile(inc.DocumentID); err != nil {
			return err
		}
	case storage.InconsistencyCritical:
		// Needs an operator; resolve so the journal does not loop, the log
		// carries the details.
		w.logger.Error("critical inconsistency requires manual intervention",
			"id", inc.ID, "document_id", inc.DocumentID, "detail", inc.Detail)
	default:
		w.logger.Warn("unknown inconsistency kind", "id", inc.ID, "kind", inc.Kind)
	}

	return w.store.ResolveInconsistency(inc.ID)
}

// rederive recomputes counts, excerpt, and the search entry for a document
// from the committed content on disk.
func (w *Worker) rederive(documentID string) error {
	doc, err := w.store.GetDocumentAnyOwner(documentID)
	if errors.Is(err, storage.ErrNotFound) {
		// Document deleted since the entry was journaled; nothing to do.
		return nil
	}
	if err != nil {
		return err
	}

	text, err := w.content.Read(doc.ContentPath)
	if errors.Is(err, content.ErrNotFound) {
		return w.restoreMissingFile(documentID)
	}
	if err != nil {
		return err
	}

	if err := w.store.UpdateDocumentCounts(doc.OwnerID, doc.ID,
		markdown.CountWords(text), markdown.CountChars(text), markdown.Excerpt(text)); err != nil {
		return fmt.Errorf("updating counts: %w", err)
	}
	if err := w.store.IndexDocument(doc.ID, doc.Title, text); err != nil {
		return fmt.Errorf("reindexing: %w", err)
	}
	return nil
}

func (w *Worker) restoreMissingFile(documentID string) error {
	doc, err := w.store.GetDocumentAnyOwner(documentID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := w.content.Read(doc.ContentPath); err == nil {
		return nil
	}
	if err := w.content.Write(doc.ContentPath, ""); err != nil {
		return fmt.Errorf("restoring content file: %w", err)
	}
	return w.store.UpdateDocumentCounts(doc.OwnerID, doc.ID, 0, 0, "")
}

// RebuildIndex re-derives the entire search index from the registry and the
// content store. Cancellable via ctx and safe to re-trigger.
func (w *Worker) RebuildIndex(ctx context.Context) error {
	if err := w.store.ClearIndex(); err != nil {
		return fmt.Errorf("clearing index: %w", err)
	}

	ids, err := w.store.AllDocumentIDs()
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(rebuildConcurrency)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			if gCtx.Err() != nil {
				return gCtx.Err()
			}
			doc, err := w.store.GetDocumentAnyOwner(id)
			if errors.Is(err, storage.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			text, err := w.content.Read(doc.ContentPath)
			if errors.Is(err, content.ErrNotFound) {
				text = ""
			} else if err != nil {
				return err
			}
			return w.store.IndexDocument(doc.ID, doc.Title, text)
		})
	}
	return g.Wait()
}
