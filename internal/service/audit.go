package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/municipallabs/corecrm/internal/authz"
	"github.com/municipallabs/corecrm/internal/models"
	"github.com/municipallabs/corecrm/internal/store"
)

// AuditService exposes the audit trail to operators. Reading the trail is
// admin-only; writes happen inside the mutation paths, never here. There is
// no delete surface: entries are permanent and retention belongs to ops
// tooling outside this layer.
type AuditService struct {
	scopes ScopeRunner
	audit  AuditRecorder
	log    *logrus.Logger
}

// NewAuditService creates an AuditService.
func NewAuditService(scopes ScopeRunner, audit AuditRecorder, log *logrus.Logger) *AuditService {
	return &AuditService{scopes: scopes, audit: audit, log: log}
}

// Query returns audit entries for the principal's tenant.
func (s *AuditService) Query(ctx context.Context, principal *models.Principal, opts models.AuditQueryOpts) ([]models.AuditEntry, bool, error) {
	if err := authz.Authorize(principal.Role, models.RoleAdmin); err != nil {
		return nil, false, err
	}

	var (
		entries []models.AuditEntry
		hasMore bool
	)

	err := s.scopes.WithTenantRead(ctx, principal.TenantID, func(sc *store.Scope) error {
		var err error
		entries, hasMore, err = s.audit.Query(ctx, sc, opts)

		return err
	})
	if err != nil {
		return nil, false, err
	}

	return entries, hasMore, nil
}
