// Package policy holds the pure authorization and domain-invariant decisions:
// role gating, assignment validation, self-protection rules, ownership checks
// and task ordering. Every function takes the acting principal explicitly and
// returns an *apperrors.Error outcome; nothing here touches the store.
package policy

import (
	"taskflow/internal/apperrors"
	"taskflow/internal/model"
)

// Authorize admits the principal only when it exists and its role equals the
// required role exactly. Roles are disjoint sets, so an admin is rejected
// from manager-only operations just like anyone else.
func Authorize(p *model.Principal, required model.Role) error {
	if p == nil {
		return apperrors.Unauthenticated()
	}
	if p.Role != required {
		return apperrors.Forbidden("auth", "Only a "+roleLabel(required)+" can perform this action.")
	}
	return nil
}

func roleLabel(r model.Role) string {
	if r == model.RoleAdmin {
		return "administrator"
	}
	return string(r)
}
