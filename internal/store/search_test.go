package store_test

import (
	"context"
	"testing"

	"github.com/municipallabs/corecrm/internal/store"
)

func TestSearchMessages(t *testing.T) {
	base, tenantID := setupTestBase(t)
	search := store.NewSearchStore(base)
	seedThread(t, base, tenantID, "t-s1", "m-s1")

	ctx := context.Background()

	err := base.WithTenantRead(ctx, tenantID, func(sc *store.Scope) error {
		matches, _, err := search.SearchMessages(ctx, sc, "pothole", 10, 0)
		if err != nil {
			return err
		}
		if len(matches) != 1 || matches[0].ID != "m-s1" {
			t.Errorf("matches = %+v, want m-s1", matches)
		}

		matches, _, err = search.SearchMessages(ctx, sc, "zoning", 10, 0)
		if err != nil {
			return err
		}
		if len(matches) != 0 {
			t.Errorf("unexpected matches for zoning: %+v", matches)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("searching: %v", err)
	}
}

func TestSearchMessagesEmptyQuery(t *testing.T) {
	base, tenantID := setupTestBase(t)
	search := store.NewSearchStore(base)

	err := base.WithTenantRead(context.Background(), tenantID, func(sc *store.Scope) error {
		matches, hasMore, err := search.SearchMessages(context.Background(), sc, "   ", 10, 0)
		if err != nil {
			return err
		}
		if len(matches) != 0 || hasMore {
			t.Errorf("blank query returned %d matches", len(matches))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("searching: %v", err)
	}
}
