package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/municipallabs/corecrm/internal/models"
	"github.com/municipallabs/corecrm/internal/store"
)

func TestWithTenantRejectsMalformedID(t *testing.T) {
	base, _ := setupTestBase(t)

	err := base.WithTenant(context.Background(), "not-a-uuid", func(sc *store.Scope) error {
		t.Fatal("callback should not run")
		return nil
	})
	if !errors.Is(err, models.ErrTenantResolution) {
		t.Fatalf("expected ErrTenantResolution, got %v", err)
	}
}

func TestWithTenantRejectsUnknownTenant(t *testing.T) {
	base, _ := setupTestBase(t)

	err := base.WithTenant(context.Background(), uuid.New().String(), func(sc *store.Scope) error {
		t.Fatal("callback should not run")
		return nil
	})
	if !errors.Is(err, models.ErrTenantResolution) {
		t.Fatalf("expected ErrTenantResolution, got %v", err)
	}
}

func TestWithTenantWrapsCallbackError(t *testing.T) {
	base, tenantID := setupTestBase(t)
	sentinel := errors.New("boom")

	err := base.WithTenant(context.Background(), tenantID, func(sc *store.Scope) error {
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped sentinel, got %v", err)
	}
}

func TestScopeUseAfterClose(t *testing.T) {
	base, tenantID := setupTestBase(t)
	messages := store.NewMessageStore(base)

	var leaked *store.Scope

	err := base.WithTenant(context.Background(), tenantID, func(sc *store.Scope) error {
		leaked = sc
		return nil
	})
	if err != nil {
		t.Fatalf("scope setup: %v", err)
	}

	_, _, err = messages.ListThreads(context.Background(), leaked, models.ThreadQueryOpts{})
	if !errors.Is(err, models.ErrScopeClosed) {
		t.Fatalf("expected ErrScopeClosed, got %v", err)
	}
}

func TestScopeClosedAfterPanic(t *testing.T) {
	base, tenantID := setupTestBase(t)
	messages := store.NewMessageStore(base)

	var leaked *store.Scope

	func() {
		defer func() { _ = recover() }()

		_ = base.WithTenant(context.Background(), tenantID, func(sc *store.Scope) error {
			leaked = sc
			panic("mid-callback failure")
		})
	}()

	if leaked == nil {
		t.Fatal("callback never ran")
	}

	_, _, err := messages.ListThreads(context.Background(), leaked, models.ThreadQueryOpts{})
	if !errors.Is(err, models.ErrScopeClosed) {
		t.Fatalf("expected ErrScopeClosed after panic, got %v", err)
	}
}

func TestScopeRollsBackOnError(t *testing.T) {
	base, tenantID := setupTestBase(t)
	messages := store.NewMessageStore(base)
	seedThread(t, base, tenantID, "t-roll", "m-roll")

	audits := store.NewAuditStore(base)
	sentinel := errors.New("abort after write")

	err := base.WithTenant(context.Background(), tenantID, func(sc *store.Scope) error {
		if err := audits.Record(context.Background(), sc, &models.AuditEntry{Action: "test.abort"}); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel, got %v", err)
	}

	err = base.WithTenantRead(context.Background(), tenantID, func(sc *store.Scope) error {
		entries, _, err := audits.Query(context.Background(), sc, models.AuditQueryOpts{Action: "test.abort"})
		if err != nil {
			return err
		}
		if len(entries) != 0 {
			t.Errorf("rolled-back audit entry is visible: %+v", entries)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("verifying rollback: %v", err)
	}

	// The seeded thread from the earlier committed scope must still exist.
	err = base.WithTenantRead(context.Background(), tenantID, func(sc *store.Scope) error {
		_, err := messages.GetThread(context.Background(), sc, "t-roll")
		return err
	})
	if err != nil {
		t.Fatalf("committed data lost after rollback: %v", err)
	}
}

func TestScopeTenantIsolation(t *testing.T) {
	base, tenantA := setupTestBase(t)
	_, tenantB := setupTestBase(t)

	messages := store.NewMessageStore(base)
	seedThread(t, base, tenantA, "t-iso", "m-iso")

	err := base.WithTenantRead(context.Background(), tenantB, func(sc *store.Scope) error {
		_, err := messages.GetThread(context.Background(), sc, "t-iso")
		if !errors.Is(err, models.ErrThreadNotFound) {
			t.Errorf("tenant B can see tenant A's thread: %v", err)
		}

		threads, _, err := messages.ListThreads(context.Background(), sc, models.ThreadQueryOpts{})
		if err != nil {
			return err
		}
		if len(threads) != 0 {
			t.Errorf("tenant B lists %d of tenant A's threads", len(threads))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("isolation check: %v", err)
	}
}
