// Package authz implements role checks for tenant-scoped operations.
//
// There is deliberately no role hierarchy: an operation that allows admin
// lists admin, and nothing else is implied. Authorize is pure and must run
// before any state-changing work so a refusal never leaves partial effects.
package authz

import (
	"fmt"

	"github.com/municipallabs/corecrm/internal/models"
)

// Authorize returns nil when role is a member of allowed, and
// models.ErrForbidden otherwise. It has no side effects.
func Authorize(role models.Role, allowed ...models.Role) error {
	for _, a := range allowed {
		if role == a {
			return nil
		}
	}
	return fmt.Errorf("role %q: %w", role, models.ErrForbidden)
}
