package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/municipallabs/corecrm/internal/models"
)

// SearchStore provides full-text search over message subjects and snippets.
// The raw body is deliberately outside the searchable surface.
type SearchStore struct {
	Base
}

// NewSearchStore creates a SearchStore.
func NewSearchStore(base Base) *SearchStore {
	return &SearchStore{Base: base}
}

// SearchMessages runs a websearch-syntax query over subject and snippet,
// ranked by relevance. Returns matches, hasMore flag, and any error.
func (s *SearchStore) SearchMessages(ctx context.Context, sc *Scope, query string, limit, offset int) ([]models.Message, bool, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Message{}, false, nil
	}

	limit = clampLimit(limit)

	rows, err := sc.query(ctx,
		fmt.Sprintf(`
			SELECT %s FROM crm_messages
			WHERE to_tsvector('english', subject || ' ' || snippet) @@ websearch_to_tsquery('english', $1)
			ORDER BY ts_rank(to_tsvector('english', subject || ' ' || snippet), websearch_to_tsquery('english', $1)) DESC,
				received_at DESC
			LIMIT $2 OFFSET $3`, messageColumns),
		query, limit+1, offset,
	)
	if err != nil {
		return nil, false, fmt.Errorf("searching messages: %w", err)
	}
	defer rows.Close()

	messages, err := collectMessages(rows)
	if err != nil {
		return nil, false, err
	}

	hasMore := len(messages) > limit
	if hasMore {
		messages = messages[:limit]
	}

	return messages, hasMore, nil
}
