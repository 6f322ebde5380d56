package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/municipallabs/corecrm/internal/authz"
	"github.com/municipallabs/corecrm/internal/models"
	"github.com/municipallabs/corecrm/internal/store"
)

// SyncService pulls correspondence from the mailbox provider into storage
// as a supervised task. The provider integration itself lives behind the
// MailboxSource seam.
type SyncService struct {
	scopes ScopeRunner
	writer MessageWriter
	source MailboxSource
	runner *TaskRunner
	log    *logrus.Logger
}

// NewSyncService creates a SyncService.
func NewSyncService(scopes ScopeRunner, writer MessageWriter, source MailboxSource, runner *TaskRunner, log *logrus.Logger) *SyncService {
	return &SyncService{scopes: scopes, writer: writer, source: source, runner: runner, log: log}
}

// Trigger runs a mailbox sync for the principal's tenant and waits for it.
// Agents and admins may trigger; a sync already in flight is reported, not
// queued.
func (s *SyncService) Trigger(ctx context.Context, principal *models.Principal) (string, error) {
	if err := authz.Authorize(principal.Role, models.RoleAgent, models.RoleAdmin); err != nil {
		return "", err
	}

	tenantID := principal.TenantID

	return s.runner.RunWait(tenantID, "mailbox_sync", func(taskCtx context.Context) error {
		return s.syncOnce(taskCtx, tenantID)
	})
}

// syncOnce fetches from the provider and upserts everything in one scope,
// so a partial fetch failure leaves the previous state intact.
func (s *SyncService) syncOnce(ctx context.Context, tenantID string) error {
	threads, messages, err := s.source.Fetch(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("fetching from mailbox provider: %w", err)
	}

	err = s.scopes.WithTenant(ctx, tenantID, func(sc *store.Scope) error {
		for i := range threads {
			if err := s.writer.UpsertThread(ctx, sc, &threads[i]); err != nil {
				return err
			}
		}

		for i := range messages {
			if err := s.writer.UpsertMessage(ctx, sc, &messages[i]); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"tenant_id": tenantID,
		"threads":   len(threads),
		"messages":  len(messages),
	}).Info("mailbox sync applied")

	return nil
}

// ProfileService rebuilds derived constituent profiles in the background.
type ProfileService struct {
	builder ProfileBuilder
	runner  *TaskRunner
	log     *logrus.Logger
}

// NewProfileService creates a ProfileService.
func NewProfileService(builder ProfileBuilder, runner *TaskRunner, log *logrus.Logger) *ProfileService {
	return &ProfileService{builder: builder, runner: runner, log: log}
}

// TriggerRebuild starts an async profile rebuild for the principal's tenant
// and returns the task ID. Admin only; rebuilds are expensive.
func (s *ProfileService) TriggerRebuild(ctx context.Context, principal *models.Principal) (string, error) {
	if err := authz.Authorize(principal.Role, models.RoleAdmin); err != nil {
		return "", err
	}

	tenantID := principal.TenantID

	return s.runner.Start(tenantID, "profile_rebuild", func(taskCtx context.Context) error {
		return s.builder.Rebuild(taskCtx, tenantID)
	})
}
