package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/draftpad/draftpad/internal/content"
	"github.com/draftpad/draftpad/internal/storage"
)

func newTestWorker(t *testing.T) (*Worker, *storage.Store, *content.Store) {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cs, err := content.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("opening content store: %v", err)
	}
	return NewWorker(store, cs, time.Second), store, cs
}

func createDoc(t *testing.T, store *storage.Store, cs *content.Store, id, owner, title, text string) storage.Document {
	t.Helper()
	d := storage.Document{
		ID: id, OwnerID: owner, Title: title,
		Slug: "slug-" + id, ContentPath: "slug-" + id + ".md",
	}
	if err := store.CreateDocument(d); err != nil {
		t.Fatalf("CreateDocument(%s): %v", id, err)
	}
	if err := cs.Write(d.ContentPath, text); err != nil {
		t.Fatalf("Write(%s): %v", d.ContentPath, err)
	}
	return d
}

func TestRunOnce_CountsStale(t *testing.T) {
	w, store, cs := newTestWorker(t)
	createDoc(t, store, cs, "d1", "owner1", "Note", "five words are in here")
	if err := store.RecordInconsistency(storage.InconsistencyCountsStale, "d1", "counts update failed"); err != nil {
		t.Fatalf("RecordInconsistency: %v", err)
	}

	repaired, err := w.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if !repaired {
		t.Fatal("nothing repaired")
	}

	doc, err := store.GetDocument("owner1", "d1")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if doc.WordCount != 5 {
		t.Errorf("WordCount = %d, want 5", doc.WordCount)
	}
	if doc.Excerpt != "five words are in here" {
		t.Errorf("Excerpt = %q", doc.Excerpt)
	}
	assertJournalEmpty(t, store)
}

func TestRunOnce_SearchStale(t *testing.T) {
	w, store, cs := newTestWorker(t)
	createDoc(t, store, cs, "d1", "owner1", "Note", "latent keyword inside")
	if err := store.RecordInconsistency(storage.InconsistencySearchStale, "d1", ""); err != nil {
		t.Fatalf("RecordInconsistency: %v", err)
	}

	if _, err := w.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	hits, err := store.Search("owner1", "latent", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != "d1" {
		t.Errorf("got %d hits after repair, want 1", len(hits))
	}
	assertJournalEmpty(t, store)
}

func TestRunOnce_OrphanFile(t *testing.T) {
	w, store, cs := newTestWorker(t)
	// A file with no row, left behind by a failed delete compensation.
	if err := cs.Write("leftover.md", "stale"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := store.RecordInconsistency(storage.InconsistencyOrphanFile, "gone-doc", "leftover.md"); err != nil {
		t.Fatalf("RecordInconsistency: %v", err)
	}

	if _, err := w.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	if _, err := cs.Read("leftover.md"); err == nil {
		t.Error("orphan file still present after sweep")
	}
	assertJournalEmpty(t, store)
}

func TestRunOnce_OrphanRow(t *testing.T) {
	w, store, cs := newTestWorker(t)
	d := createDoc(t, store, cs, "d1", "owner1", "Note", "about to vanish")
	if err := cs.Delete(d.ContentPath); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.RecordInconsistency(storage.InconsistencyOrphanRow, "d1", d.ContentPath); err != nil {
		t.Fatalf("RecordInconsistency: %v", err)
	}

	if _, err := w.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	// The pairing is restored with an empty file and zeroed counts.
	text, err := cs.Read(d.ContentPath)
	if err != nil {
		t.Fatalf("Read after restore: %v", err)
	}
	if text != "" {
		t.Errorf("restored content = %q, want empty", text)
	}
	doc, err := store.GetDocument("owner1", "d1")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if doc.WordCount != 0 || doc.CharCount != 0 {
		t.Errorf("counts = (%d, %d), want zeroed", doc.WordCount, doc.CharCount)
	}
	assertJournalEmpty(t, store)
}

func TestRunOnce_DocumentDeletedSinceJournaled(t *testing.T) {
	w, store, _ := newTestWorker(t)
	if err := store.RecordInconsistency(storage.InconsistencyCountsStale, "long-gone", ""); err != nil {
		t.Fatalf("RecordInconsistency: %v", err)
	}

	repaired, err := w.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if !repaired {
		t.Error("stale entry for a deleted document not resolved")
	}
	assertJournalEmpty(t, store)
}

func TestRunOnce_CriticalResolvedWithoutAction(t *testing.T) {
	w, store, _ := newTestWorker(t)
	if err := store.RecordInconsistency(storage.InconsistencyCritical, "d1", "operator needed"); err != nil {
		t.Fatalf("RecordInconsistency: %v", err)
	}

	if _, err := w.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	assertJournalEmpty(t, store)
}

func TestRunOnce_EmptyJournal(t *testing.T) {
	w, _, _ := newTestWorker(t)

	repaired, err := w.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if repaired {
		t.Error("reported repairs on an empty journal")
	}
}

func TestRebuildIndex(t *testing.T) {
	w, store, cs := newTestWorker(t)
	createDoc(t, store, cs, "d1", "owner1", "Alpha", "red apples")
	createDoc(t, store, cs, "d2", "owner1", "Beta", "green pears")
	d3 := createDoc(t, store, cs, "d3", "owner2", "Gamma", "blue plums")
	// One document lost its file; it is indexed by title only.
	if err := cs.Delete(d3.ContentPath); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	// Poison the index to prove the rebuild starts from scratch.
	if err := store.IndexDocument("d1", "Alpha", "stale gibberish"); err != nil {
		t.Fatalf("IndexDocument: %v", err)
	}

	if err := w.RebuildIndex(context.Background()); err != nil {
		t.Fatalf("RebuildIndex: %v", err)
	}

	hits, err := store.Search("owner1", "apples", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != "d1" {
		t.Errorf("apples got %d hits, want d1", len(hits))
	}
	hits, err = store.Search("owner1", "gibberish", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 0 {
		t.Error("stale entry survived the rebuild")
	}
	hits, err = store.Search("owner2", "gamma", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 {
		t.Errorf("title-only document got %d hits, want 1", len(hits))
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	w, _, _ := newTestWorker(t)
	w.poll = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func assertJournalEmpty(t *testing.T, store *storage.Store) {
	t.Helper()
	open, err := store.UnresolvedInconsistencies(10)
	if err != nil {
		t.Fatalf("UnresolvedInconsistencies: %v", err)
	}
	if len(open) != 0 {
		t.Errorf("journal still has %d open entries: %+v", len(open), open)
	}
}
