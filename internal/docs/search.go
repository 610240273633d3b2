package docs

import (
	"fmt"
	"strings"

	"github.com/draftpad/draftpad/internal/storage"
)

// Search runs a full-text query over the owner's documents. The query uses
// FTS5 syntax ("hello*" for prefix, space-separated terms AND together). A
// blank query is a validation error, not a match-all; limit is capped at
// DefaultSearchLimit.
func (s *Service) Search(ownerID, query string, limit int) ([]storage.SearchHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query must not be empty: %w", ErrValidation)
	}
	if limit <= 0 || limit > DefaultSearchLimit {
		limit = DefaultSearchLimit
	}

	hits, err := s.store.Search(ownerID, query, limit)
	if err != nil {
		if strings.Contains(err.Error(), "fts5") {
			return nil, fmt.Errorf("malformed search query: %w", ErrValidation)
		}
		return nil, err
	}
	return hits, nil
}
