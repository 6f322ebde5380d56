// Package service provides business logic between API handlers and data stores.
package service

import (
	"context"

	"github.com/municipallabs/corecrm/internal/models"
	"github.com/municipallabs/corecrm/internal/store"
)

// ScopeRunner opens tenant-bound scopes. Satisfied by store.Base.
type ScopeRunner interface {
	WithTenant(ctx context.Context, tenantID string, fn func(sc *store.Scope) error) error
	WithTenantRead(ctx context.Context, tenantID string, fn func(sc *store.Scope) error) error
}

// MessageReader is the read surface for threads and messages.
type MessageReader interface {
	ListThreads(ctx context.Context, sc *store.Scope, opts models.ThreadQueryOpts) ([]models.Thread, bool, error)
	GetThread(ctx context.Context, sc *store.Scope, threadID string) (*models.Thread, error)
	ListThreadMessages(ctx context.Context, sc *store.Scope, threadID string, opts models.MessageQueryOpts) ([]models.Message, bool, error)
	GetMessage(ctx context.Context, sc *store.Scope, messageID string) (*models.Message, error)
}

// MessageWriter is the upsert surface used by mailbox sync.
type MessageWriter interface {
	UpsertThread(ctx context.Context, sc *store.Scope, thread *models.Thread) error
	UpsertMessage(ctx context.Context, sc *store.Scope, msg *models.Message) error
}

// AnalysisPersister applies one analysis result to a message and its thread.
type AnalysisPersister interface {
	PersistAnalysis(ctx context.Context, sc *store.Scope, messageID string, in models.AnalysisInput) (*models.Message, *models.Thread, error)
	NotifyAnalysisChange(tenantID, threadID string)
}

// AuditRecorder appends and queries audit entries.
type AuditRecorder interface {
	Record(ctx context.Context, sc *store.Scope, entry *models.AuditEntry) error
	RecordSystem(ctx context.Context, tenantID string, entry *models.AuditEntry) error
	Query(ctx context.Context, sc *store.Scope, opts models.AuditQueryOpts) ([]models.AuditEntry, bool, error)
}

// MessageSearcher runs full-text search over messages.
type MessageSearcher interface {
	SearchMessages(ctx context.Context, sc *store.Scope, query string, limit, offset int) ([]models.Message, bool, error)
}

// EventSink publishes tenant-scoped events to connected clients.
type EventSink interface {
	Publish(eventType, tenantID string, data any)
}

// MailboxSource fetches correspondence from the upstream provider. The real
// implementation lives in the sync collaborator; this layer only persists
// what it returns.
type MailboxSource interface {
	Fetch(ctx context.Context, tenantID string) ([]models.Thread, []models.Message, error)
}

// ProfileBuilder rebuilds derived constituent profiles. Implemented by the
// profile collaborator; invoked here as a supervised background task.
type ProfileBuilder interface {
	Rebuild(ctx context.Context, tenantID string) error
}

// SystemAuditEnqueuer accepts audit entries from background work.
type SystemAuditEnqueuer interface {
	Enqueue(tenantID string, entry *models.AuditEntry)
}
