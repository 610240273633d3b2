package docs

import (
	"errors"
	"testing"
	"time"
)

func TestSnapshotNow(t *testing.T) {
	svc, store, _ := newTestService(t)

	doc, err := svc.CreateDocument("owner1", "Note", "")
	if err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}
	if err := svc.SetContent("owner1", doc.ID, "current state"); err != nil {
		t.Fatalf("SetContent: %v", err)
	}

	created, err := svc.SnapshotNow("owner1", doc.ID)
	if err != nil {
		t.Fatalf("SnapshotNow: %v", err)
	}
	if !created {
		t.Fatal("forced snapshot not created")
	}
	latest, err := store.LatestVersion(doc.ID)
	if err != nil {
		t.Fatalf("LatestVersion: %v", err)
	}
	if latest.Content != "current state" {
		t.Errorf("snapshot content = %q, want the committed content", latest.Content)
	}

	// Forcing again with nothing changed reports no snapshot.
	created, err = svc.SnapshotNow("owner1", doc.ID)
	if err != nil {
		t.Fatalf("SnapshotNow (repeat): %v", err)
	}
	if created {
		t.Error("identical content produced a second snapshot")
	}
}

func TestListVersions_OwnershipChecked(t *testing.T) {
	svc, _, _ := newTestService(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := base
	svc.now = func() time.Time { return now }

	doc, err := svc.CreateDocument("owner1", "Note", "")
	if err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}
	if err := svc.SetContent("owner1", doc.ID, "one"); err != nil {
		t.Fatalf("SetContent: %v", err)
	}
	now = base.Add(2 * time.Minute)
	if err := svc.SetContent("owner1", doc.ID, "two"); err != nil {
		t.Fatalf("SetContent: %v", err)
	}

	versions, err := svc.ListVersions("owner1", doc.ID)
	if err != nil {
		t.Fatalf("ListVersions: %v", err)
	}
	if len(versions) != 2 {
		t.Fatalf("got %d versions, want 2", len(versions))
	}
	if versions[0].VersionNumber != 2 {
		t.Errorf("first listed number = %d, want 2", versions[0].VersionNumber)
	}

	if _, err := svc.ListVersions("owner2", doc.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-owner ListVersions = %v, want ErrNotFound", err)
	}
}

func TestGetVersion_OwnershipChecked(t *testing.T) {
	svc, _, _ := newTestService(t)

	doc, err := svc.CreateDocument("owner1", "Note", "")
	if err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}
	if err := svc.SetContent("owner1", doc.ID, "payload"); err != nil {
		t.Fatalf("SetContent: %v", err)
	}
	if _, err := svc.SnapshotNow("owner1", doc.ID); err != nil {
		t.Fatalf("SnapshotNow: %v", err)
	}

	versions, err := svc.ListVersions("owner1", doc.ID)
	if err != nil {
		t.Fatalf("ListVersions: %v", err)
	}
	latestID := versions[0].ID

	v, err := svc.GetVersion("owner1", latestID)
	if err != nil {
		t.Fatalf("GetVersion: %v", err)
	}
	if v.Content != "payload" {
		t.Errorf("Content = %q, want %q", v.Content, "payload")
	}

	if _, err := svc.GetVersion("owner2", latestID); !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-owner GetVersion = %v, want ErrNotFound", err)
	}
	if _, err := svc.GetVersion("owner1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing GetVersion = %v, want ErrNotFound", err)
	}
}

func TestSnapshotNow_MissingFile(t *testing.T) {
	svc, _, fc := newTestService(t)

	doc, err := svc.CreateDocument("owner1", "Note", "")
	if err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}
	if err := fc.Store.Delete(doc.ContentPath); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := svc.SnapshotNow("owner1", doc.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("SnapshotNow error = %v, want ErrNotFound", err)
	}
}
