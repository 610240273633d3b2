package docs

import (
	"errors"
	"testing"
)

func TestSearch_BlankQuery(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.Search("owner1", "   ", 10); !errors.Is(err, ErrValidation) {
		t.Errorf("blank query error = %v, want ErrValidation", err)
	}
}

func TestSearch_MalformedQuery(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.CreateDocument("owner1", "Note", ""); err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}
	// Unbalanced quote is an FTS5 syntax error.
	if _, err := svc.Search("owner1", `"unterminated`, 10); !errors.Is(err, ErrValidation) {
		t.Errorf("malformed query error = %v, want ErrValidation", err)
	}
}

func TestSearch_LimitCapped(t *testing.T) {
	svc, _, _ := newTestService(t)

	for i := 0; i < DefaultSearchLimit+5; i++ {
		if _, err := svc.CreateDocument("owner1", "meeting notes", ""); err != nil {
			t.Fatalf("CreateDocument: %v", err)
		}
	}

	hits, err := svc.Search("owner1", "meeting", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != DefaultSearchLimit {
		t.Errorf("got %d hits with limit 0, want capped at %d", len(hits), DefaultSearchLimit)
	}

	hits, err = svc.Search("owner1", "meeting", DefaultSearchLimit+100)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != DefaultSearchLimit {
		t.Errorf("got %d hits with oversized limit, want capped at %d", len(hits), DefaultSearchLimit)
	}

	hits, err = svc.Search("owner1", "meeting", 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 3 {
		t.Errorf("got %d hits with limit 3, want 3", len(hits))
	}
}

func TestSearch_ListByTag(t *testing.T) {
	svc, _, _ := newTestService(t)

	doc, err := svc.CreateDocument("owner1", "Tagged", "")
	if err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}
	if _, err := svc.CreateDocument("owner1", "Plain", ""); err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}
	tag, err := svc.CreateTag("owner1", "work", "#00ff00")
	if err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	if err := svc.TagDocument("owner1", doc.ID, tag.ID); err != nil {
		t.Fatalf("TagDocument: %v", err)
	}

	docs, err := svc.ListDocuments("owner1", tag.ID)
	if err != nil {
		t.Fatalf("ListDocuments by tag: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != doc.ID {
		t.Errorf("got %d documents, want the tagged one", len(docs))
	}

	// A foreign tag id behaves like a missing one.
	if _, err := svc.ListDocuments("owner2", tag.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-owner tag filter = %v, want ErrNotFound", err)
	}
}

func TestTagDocument_CrossOwnerRejected(t *testing.T) {
	svc, _, _ := newTestService(t)

	doc, err := svc.CreateDocument("owner1", "Mine", "")
	if err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}
	theirTag, err := svc.CreateTag("owner2", "theirs", "")
	if err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	if err := svc.TagDocument("owner1", doc.ID, theirTag.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign tag attach = %v, want ErrNotFound", err)
	}
}
