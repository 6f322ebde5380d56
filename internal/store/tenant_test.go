package store_test

import (
	"context"
	"testing"

	"github.com/municipallabs/corecrm/internal/models"
	"github.com/municipallabs/corecrm/internal/store"
)

func TestPrincipalLookupByAPIKey(t *testing.T) {
	env := getTestEnv(t)
	_, tenantID := setupTestBase(t)
	tenants := store.NewTenantStore(env.pool)

	ctx := context.Background()

	apiKey := "test-key-" + tenantID
	principalID, err := tenants.CreatePrincipal(ctx, tenantID, "agent@town.gov", models.RoleAgent, apiKey)
	if err != nil {
		t.Fatalf("creating principal: %v", err)
	}

	p, err := tenants.GetPrincipalByAPIKey(ctx, apiKey)
	if err != nil {
		t.Fatalf("looking up principal: %v", err)
	}

	if p.ID != principalID || p.TenantID != tenantID || p.Role != models.RoleAgent {
		t.Errorf("unexpected principal: %+v", p)
	}

	if _, err := tenants.GetPrincipalByAPIKey(ctx, "wrong-key"); !store.IsNotFound(err) {
		t.Errorf("expected not-found for wrong key, got %v", err)
	}
}

func TestCreatePrincipalRejectsInvalidRole(t *testing.T) {
	env := getTestEnv(t)
	_, tenantID := setupTestBase(t)
	tenants := store.NewTenantStore(env.pool)

	if _, err := tenants.CreatePrincipal(context.Background(), tenantID, "x@town.gov", "owner", "k"); err == nil {
		t.Fatal("expected error for invalid role")
	}
}
