package service

import (
	"context"
	"sync"

	"github.com/municipallabs/corecrm/internal/models"
	"github.com/municipallabs/corecrm/internal/store"
)

// mockScopes runs callbacks without a real transaction. Store mocks ignore
// the Scope, so nil is fine.
type mockScopes struct {
	mu    sync.Mutex
	calls []string

	withTenantErr error
}

func (m *mockScopes) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockScopes) WithTenant(ctx context.Context, tenantID string, fn func(sc *store.Scope) error) error {
	m.record("WithTenant:" + tenantID)
	if m.withTenantErr != nil {
		return m.withTenantErr
	}
	return fn(nil)
}

func (m *mockScopes) WithTenantRead(ctx context.Context, tenantID string, fn func(sc *store.Scope) error) error {
	m.record("WithTenantRead:" + tenantID)
	if m.withTenantErr != nil {
		return m.withTenantErr
	}
	return fn(nil)
}

// mockMessageReader returns configured responses.
type mockMessageReader struct {
	listThreads        func(ctx context.Context, sc *store.Scope, opts models.ThreadQueryOpts) ([]models.Thread, bool, error)
	getThread          func(ctx context.Context, sc *store.Scope, threadID string) (*models.Thread, error)
	listThreadMessages func(ctx context.Context, sc *store.Scope, threadID string, opts models.MessageQueryOpts) ([]models.Message, bool, error)
	getMessage         func(ctx context.Context, sc *store.Scope, messageID string) (*models.Message, error)
}

func (m *mockMessageReader) ListThreads(ctx context.Context, sc *store.Scope, opts models.ThreadQueryOpts) ([]models.Thread, bool, error) {
	return m.listThreads(ctx, sc, opts)
}

func (m *mockMessageReader) GetThread(ctx context.Context, sc *store.Scope, threadID string) (*models.Thread, error) {
	return m.getThread(ctx, sc, threadID)
}

func (m *mockMessageReader) ListThreadMessages(ctx context.Context, sc *store.Scope, threadID string, opts models.MessageQueryOpts) ([]models.Message, bool, error) {
	return m.listThreadMessages(ctx, sc, threadID, opts)
}

func (m *mockMessageReader) GetMessage(ctx context.Context, sc *store.Scope, messageID string) (*models.Message, error) {
	return m.getMessage(ctx, sc, messageID)
}

// mockMessageWriter records upserts.
type mockMessageWriter struct {
	mu       sync.Mutex
	threads  []models.Thread
	messages []models.Message

	err error
}

func (m *mockMessageWriter) UpsertThread(ctx context.Context, sc *store.Scope, thread *models.Thread) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.threads = append(m.threads, *thread)
	return m.err
}

func (m *mockMessageWriter) UpsertMessage(ctx context.Context, sc *store.Scope, msg *models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, *msg)
	return m.err
}

// mockAnalysisPersister returns configured responses and records notifies.
type mockAnalysisPersister struct {
	mu       sync.Mutex
	notifies []string

	persist func(ctx context.Context, sc *store.Scope, messageID string, in models.AnalysisInput) (*models.Message, *models.Thread, error)
}

func (m *mockAnalysisPersister) PersistAnalysis(ctx context.Context, sc *store.Scope, messageID string, in models.AnalysisInput) (*models.Message, *models.Thread, error) {
	return m.persist(ctx, sc, messageID, in)
}

func (m *mockAnalysisPersister) NotifyAnalysisChange(tenantID, threadID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifies = append(m.notifies, tenantID+"/"+threadID)
}

// mockAuditRecorder records entries.
type mockAuditRecorder struct {
	mu      sync.Mutex
	entries []models.AuditEntry
	system  []models.AuditEntry

	recordErr error
	query     func(ctx context.Context, sc *store.Scope, opts models.AuditQueryOpts) ([]models.AuditEntry, bool, error)
}

func (m *mockAuditRecorder) Record(ctx context.Context, sc *store.Scope, entry *models.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *entry)
	return m.recordErr
}

func (m *mockAuditRecorder) RecordSystem(ctx context.Context, tenantID string, entry *models.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := *entry
	e.TenantID = tenantID
	m.system = append(m.system, e)
	return m.recordErr
}

func (m *mockAuditRecorder) Query(ctx context.Context, sc *store.Scope, opts models.AuditQueryOpts) ([]models.AuditEntry, bool, error) {
	return m.query(ctx, sc, opts)
}

func (m *mockAuditRecorder) getEntries() []models.AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]models.AuditEntry, len(m.entries))
	copy(cp, m.entries)
	return cp
}

func (m *mockAuditRecorder) getSystem() []models.AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]models.AuditEntry, len(m.system))
	copy(cp, m.system)
	return cp
}

// mockSearcher returns configured responses.
type mockSearcher struct {
	search func(ctx context.Context, sc *store.Scope, query string, limit, offset int) ([]models.Message, bool, error)
}

func (m *mockSearcher) SearchMessages(ctx context.Context, sc *store.Scope, query string, limit, offset int) ([]models.Message, bool, error) {
	return m.search(ctx, sc, query, limit, offset)
}

// mockEventSink records published events.
type mockEventSink struct {
	mu     sync.Mutex
	events []string
}

func (m *mockEventSink) Publish(eventType, tenantID string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, eventType+":"+tenantID)
}

func (m *mockEventSink) getEvents() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]string, len(m.events))
	copy(cp, m.events)
	return cp
}

// mockMailboxSource returns configured fetch results.
type mockMailboxSource struct {
	fetch func(ctx context.Context, tenantID string) ([]models.Thread, []models.Message, error)
}

func (m *mockMailboxSource) Fetch(ctx context.Context, tenantID string) ([]models.Thread, []models.Message, error) {
	return m.fetch(ctx, tenantID)
}

// mockProfileBuilder records rebuild calls.
type mockProfileBuilder struct {
	mu       sync.Mutex
	rebuilds []string

	err   error
	block chan struct{} // when set, Rebuild waits until closed
}

func (m *mockProfileBuilder) Rebuild(ctx context.Context, tenantID string) error {
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rebuilds = append(m.rebuilds, tenantID)
	return m.err
}

// mockSystemAuditEnqueuer records enqueued entries.
type mockSystemAuditEnqueuer struct {
	mu      sync.Mutex
	entries []models.AuditEntry
}

func (m *mockSystemAuditEnqueuer) Enqueue(tenantID string, entry *models.AuditEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := *entry
	e.TenantID = tenantID
	m.entries = append(m.entries, e)
}

func (m *mockSystemAuditEnqueuer) getEntries() []models.AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]models.AuditEntry, len(m.entries))
	copy(cp, m.entries)
	return cp
}
