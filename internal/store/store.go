// Package store provides focused, single-concern data access stores
// for the correspondence core.
//
// Each store owns one domain (threads and messages, analysis, audit,
// search) and embeds shared helpers (Pool, logger) via the Base struct.
// Stores never import each other. All tenant-scoped access goes through
// a Scope obtained from WithTenant; see scope.go.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/municipallabs/corecrm/internal/dbpool"
)

const defaultQueryTimeout = 30 * time.Second

// Base contains shared dependencies for all stores.
// Embed this in each store struct.
type Base struct {
	Pool *dbpool.Pool
	Log  *logrus.Logger
}

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// setTenant sets the tenant context for RLS policies within a transaction.
func setTenant(ctx context.Context, tx pgx.Tx, tenantID string) error {
	if _, err := uuid.Parse(tenantID); err != nil {
		return fmt.Errorf("invalid tenant ID format: %w", err)
	}

	_, err := tx.Exec(ctx, "SELECT set_config('app.tenant_id', $1, true)", tenantID)
	if err != nil {
		return fmt.Errorf("setting tenant context: %w", err)
	}

	return nil
}

// notify sends a pg_notify on the crm_changes channel (best-effort, post-commit).
func (b *Base) notify(eventType, tenantID, threadID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	payload, _ := json.Marshal(map[string]any{ //nolint:errcheck // static keys, cannot fail.
		"type":      eventType,
		"tenant_id": tenantID,
		"thread_id": threadID,
	})
	if _, err := b.Pool.Exec(ctx, "SELECT pg_notify('crm_changes', $1)", string(payload)); err != nil {
		b.Log.WithError(err).Warn("failed to send " + eventType + " notification")
	}
}
