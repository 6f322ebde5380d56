package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/municipallabs/corecrm/internal/authz"
	"github.com/municipallabs/corecrm/internal/models"
	"github.com/municipallabs/corecrm/internal/redact"
	"github.com/municipallabs/corecrm/internal/store"
)

// MessageService is the read surface for threads and messages. Everything it
// returns has passed through the PII redactor; raw bodies stay in the
// database for the analysis path only.
type MessageService struct {
	scopes   ScopeRunner
	messages MessageReader
	search   MessageSearcher
	log      *logrus.Logger
}

// NewMessageService creates a MessageService.
func NewMessageService(scopes ScopeRunner, messages MessageReader, search MessageSearcher, log *logrus.Logger) *MessageService {
	return &MessageService{scopes: scopes, messages: messages, search: search, log: log}
}

// redactMessage strips PII from the display fields of a message, in place.
func redactMessage(m *models.Message) {
	m.SenderEmail = redact.Redact(m.SenderEmail)
	m.Subject = redact.Redact(m.Subject)
	m.Snippet = redact.Redact(m.Snippet)
	m.Body = redact.Redact(m.Body)
}

// redactThread strips PII from the display fields of a thread, in place.
func redactThread(t *models.Thread) {
	if t.SenderEmail != nil {
		v := redact.Redact(*t.SenderEmail)
		t.SenderEmail = &v
	}
	if t.Summary != nil {
		v := redact.Redact(*t.Summary)
		t.Summary = &v
	}
}

// ListThreads returns redacted threads for the principal's tenant. All
// roles may read.
func (s *MessageService) ListThreads(ctx context.Context, principal *models.Principal, opts models.ThreadQueryOpts) ([]models.Thread, bool, error) {
	if err := authz.Authorize(principal.Role, models.RoleViewer, models.RoleAgent, models.RoleAdmin); err != nil {
		return nil, false, err
	}

	var (
		threads []models.Thread
		hasMore bool
	)

	err := s.scopes.WithTenantRead(ctx, principal.TenantID, func(sc *store.Scope) error {
		var err error
		threads, hasMore, err = s.messages.ListThreads(ctx, sc, opts)

		return err
	})
	if err != nil {
		return nil, false, err
	}

	for i := range threads {
		redactThread(&threads[i])
	}

	return threads, hasMore, nil
}

// GetThread returns one redacted thread.
func (s *MessageService) GetThread(ctx context.Context, principal *models.Principal, threadID string) (*models.Thread, error) {
	if err := authz.Authorize(principal.Role, models.RoleViewer, models.RoleAgent, models.RoleAdmin); err != nil {
		return nil, err
	}

	var thread *models.Thread

	err := s.scopes.WithTenantRead(ctx, principal.TenantID, func(sc *store.Scope) error {
		var err error
		thread, err = s.messages.GetThread(ctx, sc, threadID)

		return err
	})
	if err != nil {
		return nil, err
	}

	redactThread(thread)

	return thread, nil
}

// ListThreadMessages returns the redacted messages of one thread.
func (s *MessageService) ListThreadMessages(ctx context.Context, principal *models.Principal, threadID string, opts models.MessageQueryOpts) ([]models.Message, bool, error) {
	if err := authz.Authorize(principal.Role, models.RoleViewer, models.RoleAgent, models.RoleAdmin); err != nil {
		return nil, false, err
	}

	var (
		messages []models.Message
		hasMore  bool
	)

	err := s.scopes.WithTenantRead(ctx, principal.TenantID, func(sc *store.Scope) error {
		var err error
		messages, hasMore, err = s.messages.ListThreadMessages(ctx, sc, threadID, opts)

		return err
	})
	if err != nil {
		return nil, false, err
	}

	for i := range messages {
		redactMessage(&messages[i])
	}

	return messages, hasMore, nil
}

// Search runs a redacted full-text search over message subjects and snippets.
func (s *MessageService) Search(ctx context.Context, principal *models.Principal, query string, limit, offset int) ([]models.Message, bool, error) {
	if err := authz.Authorize(principal.Role, models.RoleViewer, models.RoleAgent, models.RoleAdmin); err != nil {
		return nil, false, err
	}

	var (
		matches []models.Message
		hasMore bool
	)

	err := s.scopes.WithTenantRead(ctx, principal.TenantID, func(sc *store.Scope) error {
		var err error
		matches, hasMore, err = s.search.SearchMessages(ctx, sc, query, limit, offset)

		return err
	})
	if err != nil {
		return nil, false, err
	}

	for i := range matches {
		redactMessage(&matches[i])
	}

	return matches, hasMore, nil
}
