package models

import "time"

// Role is the authorization level of a principal within its tenant.
// Roles form a flat, closed set with no implicit hierarchy: every operation
// enumerates the roles it allows, and admin gains nothing by ordering.
type Role string

const (
	RoleViewer Role = "viewer"
	RoleAgent  Role = "agent"
	RoleAdmin  Role = "admin"
)

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	switch r {
	case RoleViewer, RoleAgent, RoleAdmin:
		return true
	}
	return false
}

// Tenant is the unit of isolation: one legislative office's data.
type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Principal is an authenticated actor holding exactly one role in one tenant.
// Principals are provisioned out of band and never mutated by this layer.
type Principal struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}
