package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/municipallabs/corecrm/internal/models"
)

// NoopMailboxSource is the default mailbox provider when no upstream mail
// integration is configured. A sync against it completes immediately with
// nothing to ingest, so the task plumbing stays exercised end to end.
type NoopMailboxSource struct {
	Log *logrus.Logger
}

// Fetch returns no threads or messages.
func (s *NoopMailboxSource) Fetch(_ context.Context, tenantID string) ([]models.Thread, []models.Message, error) {
	if s.Log != nil {
		s.Log.WithField("tenant_id", tenantID).Debug("no mailbox provider configured, sync is a no-op")
	}

	return nil, nil, nil
}

// NoopProfileBuilder satisfies ProfileBuilder when no profile pipeline is
// configured. Rebuilds complete immediately.
type NoopProfileBuilder struct {
	Log *logrus.Logger
}

// Rebuild does nothing.
func (b *NoopProfileBuilder) Rebuild(_ context.Context, tenantID string) error {
	if b.Log != nil {
		b.Log.WithField("tenant_id", tenantID).Debug("no profile builder configured, rebuild is a no-op")
	}

	return nil
}
