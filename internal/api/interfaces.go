package api

import (
	"context"

	"github.com/municipallabs/corecrm/internal/models"
	"github.com/municipallabs/corecrm/internal/service"
)

// MessageReadService is the thread/message read surface handlers depend on.
type MessageReadService interface {
	ListThreads(ctx context.Context, principal *models.Principal, opts models.ThreadQueryOpts) ([]models.Thread, bool, error)
	GetThread(ctx context.Context, principal *models.Principal, threadID string) (*models.Thread, error)
	ListThreadMessages(ctx context.Context, principal *models.Principal, threadID string, opts models.MessageQueryOpts) ([]models.Message, bool, error)
	Search(ctx context.Context, principal *models.Principal, query string, limit, offset int) ([]models.Message, bool, error)
}

// AnalysisIngestService accepts analysis results from the model pipeline.
type AnalysisIngestService interface {
	Ingest(ctx context.Context, principal *models.Principal, requestID, messageID string, in models.AnalysisInput) (*models.Message, *models.Thread, error)
}

// AuditReadService exposes the audit trail. Read-only: the log is
// append-only and nothing above the store can remove entries.
type AuditReadService interface {
	Query(ctx context.Context, principal *models.Principal, opts models.AuditQueryOpts) ([]models.AuditEntry, bool, error)
}

// SyncTriggerService triggers a mailbox sync and waits for it.
type SyncTriggerService interface {
	Trigger(ctx context.Context, principal *models.Principal) (string, error)
}

// ProfileTriggerService starts an async profile rebuild.
type ProfileTriggerService interface {
	TriggerRebuild(ctx context.Context, principal *models.Principal) (string, error)
}

// TaskInspector reports background task state per tenant.
type TaskInspector interface {
	Running(tenantID, task string) bool
	LastFailure(tenantID, task string) *service.TaskFailure
}
