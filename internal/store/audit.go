package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/municipallabs/corecrm/internal/models"
)

// AuditStore provides append and query access to the crm_audit_log table.
// Rows are never updated or deleted; the database enforces that with a
// trigger, so the trail stays complete for the life of the tenant.
type AuditStore struct {
	Base
}

// NewAuditStore creates an AuditStore.
func NewAuditStore(base Base) *AuditStore {
	return &AuditStore{Base: base}
}

// Record appends an audit entry inside the caller's Scope, so the entry
// commits or rolls back together with the mutation it describes.
func (s *AuditStore) Record(ctx context.Context, sc *Scope, entry *models.AuditEntry) error {
	if entry.Action == "" {
		return models.ErrMissingAction
	}

	var detailJSON []byte
	if entry.Detail != nil {
		var err error

		detailJSON, err = json.Marshal(entry.Detail)
		if err != nil {
			return fmt.Errorf("marshaling audit detail: %w", err)
		}
	}

	var principalID *string
	if entry.PrincipalID != "" {
		principalID = &entry.PrincipalID
	}

	_, err := sc.exec(ctx, `
		INSERT INTO crm_audit_log (tenant_id, principal_id, action, target_type, target_id, request_id, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sc.TenantID(), principalID, entry.Action, entry.TargetType, entry.TargetID, entry.RequestID, detailJSON,
	)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}

	return nil
}

// RecordSystem appends an audit entry in its own scope, for background work
// that runs outside any request transaction. The principal is left empty;
// the action names the system activity.
func (s *AuditStore) RecordSystem(ctx context.Context, tenantID string, entry *models.AuditEntry) error {
	return s.WithTenant(ctx, tenantID, func(sc *Scope) error {
		return s.Record(ctx, sc, entry)
	})
}

// buildAuditFilter builds WHERE clause and args from AuditQueryOpts.
func buildAuditFilter(opts models.AuditQueryOpts) (where string, args []any, nextArg int) {
	var conditions []string
	argIdx := 1

	if opts.TargetType != "" {
		conditions = append(conditions, "target_type = $"+strconv.Itoa(argIdx))
		args = append(args, opts.TargetType)
		argIdx++
	}
	if opts.TargetID != "" {
		conditions = append(conditions, "target_id = $"+strconv.Itoa(argIdx))
		args = append(args, opts.TargetID)
		argIdx++
	}
	if opts.Action != "" {
		conditions = append(conditions, "action = $"+strconv.Itoa(argIdx))
		args = append(args, opts.Action)
		argIdx++
	}
	if opts.PrincipalID != "" {
		conditions = append(conditions, "principal_id = $"+strconv.Itoa(argIdx))
		args = append(args, opts.PrincipalID)
		argIdx++
	}
	if opts.Since != nil {
		conditions = append(conditions, "created_at >= $"+strconv.Itoa(argIdx))
		args = append(args, *opts.Since)
		argIdx++
	}

	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	return where, args, argIdx
}

// Query returns audit entries matching the given filters, newest first.
// Returns entries, hasMore flag, and any error.
func (s *AuditStore) Query(ctx context.Context, sc *Scope, opts models.AuditQueryOpts) ([]models.AuditEntry, bool, error) {
	where, args, argIdx := buildAuditFilter(opts)
	limit := clampLimit(opts.Limit)

	query := fmt.Sprintf(
		"SELECT id, tenant_id, principal_id, action, target_type, target_id, request_id, detail, created_at FROM crm_audit_log %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d",
		where, argIdx, argIdx+1,
	)
	args = append(args, limit+1, opts.Offset)

	entries, err := scanAuditRows(ctx, sc, query, args, s.Log)
	if err != nil {
		return nil, false, err
	}

	hasMore := len(entries) > limit
	if hasMore {
		entries = entries[:limit]
	}

	return entries, hasMore, nil
}

// scanAuditRows executes a query and scans audit entries from the result.
func scanAuditRows(ctx context.Context, sc *Scope, query string, args []any, log *logrus.Logger) ([]models.AuditEntry, error) {
	rows, err := sc.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer rows.Close()

	var entries []models.AuditEntry
	for rows.Next() {
		var e models.AuditEntry
		var principalID *string
		var detailJSON []byte

		if err := rows.Scan(&e.ID, &e.TenantID, &principalID, &e.Action, &e.TargetType, &e.TargetID, &e.RequestID, &detailJSON, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		if principalID != nil {
			e.PrincipalID = *principalID
		}
		if detailJSON != nil {
			if err := json.Unmarshal(detailJSON, &e.Detail); err != nil {
				log.WithError(err).Warn("failed to unmarshal audit detail")
			}
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit rows: %w", err)
	}

	return entries, nil
}
