package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/municipallabs/corecrm/internal/dbpool"
	"github.com/municipallabs/corecrm/internal/models"
)

// TenantStore handles principal lookups (API key → principal) and tenant
// provisioning. These queries run outside any Scope because they are what
// establishes the tenant in the first place.
type TenantStore struct {
	Pool *dbpool.Pool
}

// NewTenantStore creates a new TenantStore.
func NewTenantStore(pool *dbpool.Pool) *TenantStore {
	return &TenantStore{Pool: pool}
}

// HashAPIKey returns the hex SHA-256 of an API key, the form stored in
// principals.api_key_hash.
func HashAPIKey(apiKey string) string {
	hash := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(hash[:])
}

// GetPrincipalByAPIKey looks up the principal that owns an API key. Returns
// pgx.ErrNoRows wrapped when no principal matches.
func (s *TenantStore) GetPrincipalByAPIKey(ctx context.Context, apiKey string) (*models.Principal, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var p models.Principal

	err := s.Pool.QueryRow(ctx,
		"SELECT id, tenant_id, email, role FROM principals WHERE api_key_hash = $1",
		HashAPIKey(apiKey),
	).Scan(&p.ID, &p.TenantID, &p.Email, &p.Role)
	if err != nil {
		return nil, fmt.Errorf("looking up principal by API key: %w", err)
	}

	return &p, nil
}

// CreateTenant inserts a tenant and returns its generated ID.
func (s *TenantStore) CreateTenant(ctx context.Context, name string) (string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var id string

	err := s.Pool.QueryRow(ctx,
		"INSERT INTO tenants (name) VALUES ($1) RETURNING id", name,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("creating tenant: %w", mapPgError(err))
	}

	return id, nil
}

// CreatePrincipal inserts a principal with the given role and API key.
func (s *TenantStore) CreatePrincipal(ctx context.Context, tenantID, email string, role models.Role, apiKey string) (string, error) {
	if !role.IsValid() {
		return "", fmt.Errorf("invalid role %q", role)
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var id string

	err := s.Pool.QueryRow(ctx,
		"INSERT INTO principals (tenant_id, email, role, api_key_hash) VALUES ($1, $2, $3, $4) RETURNING id",
		tenantID, email, role, HashAPIKey(apiKey),
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("creating principal: %w", mapPgError(err))
	}

	return id, nil
}

// IsNotFound reports whether err means the lookup matched no rows.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
