package api_test

import (
	"context"

	"github.com/municipallabs/corecrm/internal/models"
	"github.com/municipallabs/corecrm/internal/service"
)

type mockMessageService struct {
	listThreads        func(ctx context.Context, principal *models.Principal, opts models.ThreadQueryOpts) ([]models.Thread, bool, error)
	getThread          func(ctx context.Context, principal *models.Principal, threadID string) (*models.Thread, error)
	listThreadMessages func(ctx context.Context, principal *models.Principal, threadID string, opts models.MessageQueryOpts) ([]models.Message, bool, error)
	search             func(ctx context.Context, principal *models.Principal, query string, limit, offset int) ([]models.Message, bool, error)
}

func (m *mockMessageService) ListThreads(ctx context.Context, principal *models.Principal, opts models.ThreadQueryOpts) ([]models.Thread, bool, error) {
	return m.listThreads(ctx, principal, opts)
}

func (m *mockMessageService) GetThread(ctx context.Context, principal *models.Principal, threadID string) (*models.Thread, error) {
	return m.getThread(ctx, principal, threadID)
}

func (m *mockMessageService) ListThreadMessages(ctx context.Context, principal *models.Principal, threadID string, opts models.MessageQueryOpts) ([]models.Message, bool, error) {
	return m.listThreadMessages(ctx, principal, threadID, opts)
}

func (m *mockMessageService) Search(ctx context.Context, principal *models.Principal, query string, limit, offset int) ([]models.Message, bool, error) {
	return m.search(ctx, principal, query, limit, offset)
}

type mockAnalysisService struct {
	ingest func(ctx context.Context, principal *models.Principal, requestID, messageID string, in models.AnalysisInput) (*models.Message, *models.Thread, error)
}

func (m *mockAnalysisService) Ingest(ctx context.Context, principal *models.Principal, requestID, messageID string, in models.AnalysisInput) (*models.Message, *models.Thread, error) {
	return m.ingest(ctx, principal, requestID, messageID, in)
}

type mockAuditService struct {
	query func(ctx context.Context, principal *models.Principal, opts models.AuditQueryOpts) ([]models.AuditEntry, bool, error)
}

func (m *mockAuditService) Query(ctx context.Context, principal *models.Principal, opts models.AuditQueryOpts) ([]models.AuditEntry, bool, error) {
	return m.query(ctx, principal, opts)
}

type mockSyncService struct {
	trigger func(ctx context.Context, principal *models.Principal) (string, error)
}

func (m *mockSyncService) Trigger(ctx context.Context, principal *models.Principal) (string, error) {
	return m.trigger(ctx, principal)
}

type mockProfileService struct {
	trigger func(ctx context.Context, principal *models.Principal) (string, error)
}

func (m *mockProfileService) TriggerRebuild(ctx context.Context, principal *models.Principal) (string, error) {
	return m.trigger(ctx, principal)
}

type mockTaskInspector struct {
	running     map[string]bool
	lastFailure map[string]*service.TaskFailure
}

func (m *mockTaskInspector) Running(tenantID, task string) bool {
	return m.running[tenantID+"/"+task]
}

func (m *mockTaskInspector) LastFailure(tenantID, task string) *service.TaskFailure {
	return m.lastFailure[tenantID+"/"+task]
}
