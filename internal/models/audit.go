package models

import "time"

// AuditEntry is one immutable, append-only audit record. Entries are written
// in the same transaction as the mutation they describe and are never updated
// or deleted by this layer.
type AuditEntry struct {
	ID          int64          `json:"id"`
	TenantID    string         `json:"-"`
	PrincipalID string         `json:"principal_id,omitempty"`
	Action      string         `json:"action"`
	TargetType  string         `json:"target_type,omitempty"`
	TargetID    string         `json:"target_id,omitempty"`
	RequestID   string         `json:"request_id,omitempty"`
	Detail      map[string]any `json:"detail,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// AuditQueryOpts holds filters for querying the audit log.
type AuditQueryOpts struct {
	TargetType  string
	TargetID    string
	Action      string
	PrincipalID string
	Since       *time.Time
	Limit       int
	Offset      int
}
