package snapshot

import (
	"testing"
	"time"

	"github.com/draftpad/draftpad/internal/storage"
)

func newTestEngine(t *testing.T, maxVersions int, minInterval time.Duration) (*Engine, *storage.Store) {
	t.Helper()
	s, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	doc := storage.Document{ID: "d1", OwnerID: "owner1", Title: "T", Slug: "t", ContentPath: "t-d1.md"}
	if err := s.CreateDocument(doc); err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}
	return NewEngine(s, maxVersions, minInterval), s
}

func TestMaybe_FirstSnapshotBypassesThrottle(t *testing.T) {
	e, s := newTestEngine(t, 10, 5*time.Minute)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	created, err := e.Maybe("d1", "draft one", now)
	if err != nil {
		t.Fatalf("Maybe: %v", err)
	}
	if !created {
		t.Fatal("first snapshot not created")
	}

	v, err := s.LatestVersion("d1")
	if err != nil {
		t.Fatalf("LatestVersion: %v", err)
	}
	if v.VersionNumber != 1 || v.Content != "draft one" {
		t.Errorf("version = (%d, %q), want (1, draft one)", v.VersionNumber, v.Content)
	}
	if v.WordCount != 2 || v.CharCount != 9 {
		t.Errorf("counts = (%d, %d), want (2, 9)", v.WordCount, v.CharCount)
	}
}

func TestMaybe_IntervalThrottle(t *testing.T) {
	e, s := newTestEngine(t, 10, 5*time.Minute)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if _, err := e.Maybe("d1", "v one", base); err != nil {
		t.Fatalf("Maybe: %v", err)
	}

	// Too soon: different content, inside the interval.
	created, err := e.Maybe("d1", "v two", base.Add(time.Minute))
	if err != nil {
		t.Fatalf("Maybe: %v", err)
	}
	if created {
		t.Error("snapshot created inside the minimum interval")
	}

	// Past the interval it goes through.
	created, err = e.Maybe("d1", "v two", base.Add(6*time.Minute))
	if err != nil {
		t.Fatalf("Maybe: %v", err)
	}
	if !created {
		t.Error("snapshot not created past the minimum interval")
	}
	n, err := s.CountVersions("d1")
	if err != nil {
		t.Fatalf("CountVersions: %v", err)
	}
	if n != 2 {
		t.Errorf("version count = %d, want 2", n)
	}
}

func TestMaybe_IdenticalContentSkipped(t *testing.T) {
	e, s := newTestEngine(t, 10, 5*time.Minute)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if _, err := e.Maybe("d1", "same", base); err != nil {
		t.Fatalf("Maybe: %v", err)
	}
	// Identical content skips even far past the interval.
	created, err := e.Maybe("d1", "same", base.Add(time.Hour))
	if err != nil {
		t.Fatalf("Maybe: %v", err)
	}
	if created {
		t.Error("identical content produced a snapshot")
	}
	n, err := s.CountVersions("d1")
	if err != nil {
		t.Fatalf("CountVersions: %v", err)
	}
	if n != 1 {
		t.Errorf("version count = %d, want 1", n)
	}
}

func TestForce_BypassesIntervalNotNoOpRule(t *testing.T) {
	e, s := newTestEngine(t, 10, 5*time.Minute)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if _, err := e.Maybe("d1", "v one", base); err != nil {
		t.Fatalf("Maybe: %v", err)
	}

	// Inside the interval, Force still snapshots changed content.
	created, err := e.Force("d1", "v two", base.Add(time.Minute))
	if err != nil {
		t.Fatalf("Force: %v", err)
	}
	if !created {
		t.Error("Force did not snapshot inside the interval")
	}

	// Identical content is a no-op even for Force.
	created, err = e.Force("d1", "v two", base.Add(2*time.Minute))
	if err != nil {
		t.Fatalf("Force: %v", err)
	}
	if created {
		t.Error("Force snapshotted identical content")
	}

	// The forced version's timestamp gates the next Maybe.
	created, err = e.Maybe("d1", "v three", base.Add(3*time.Minute))
	if err != nil {
		t.Fatalf("Maybe: %v", err)
	}
	if created {
		t.Error("Maybe ignored the forced version's timestamp")
	}
	n, err := s.CountVersions("d1")
	if err != nil {
		t.Fatalf("CountVersions: %v", err)
	}
	if n != 2 {
		t.Errorf("version count = %d, want 2", n)
	}
}

func TestRetentionCap(t *testing.T) {
	e, s := newTestEngine(t, 3, time.Minute)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		content := string(rune('a' + i))
		if _, err := e.Maybe("d1", content, base.Add(time.Duration(i*2)*time.Minute)); err != nil {
			t.Fatalf("Maybe(%d): %v", i, err)
		}
	}

	versions, err := s.ListVersions("d1")
	if err != nil {
		t.Fatalf("ListVersions: %v", err)
	}
	if len(versions) != 3 {
		t.Fatalf("got %d versions, want 3", len(versions))
	}
	// The newest numbers survive; no renumbering.
	if versions[0].VersionNumber != 5 || versions[2].VersionNumber != 3 {
		t.Errorf("surviving range = %d..%d, want 5..3",
			versions[0].VersionNumber, versions[2].VersionNumber)
	}
}

func TestNewEngine_Defaults(t *testing.T) {
	e := NewEngine(nil, 0, 0)
	if e.maxVersions != DefaultMaxVersions {
		t.Errorf("maxVersions = %d, want %d", e.maxVersions, DefaultMaxVersions)
	}
	if e.minInterval != DefaultMinInterval {
		t.Errorf("minInterval = %v, want %v", e.minInterval, DefaultMinInterval)
	}
}
