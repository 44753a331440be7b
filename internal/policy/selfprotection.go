package policy

import (
	"taskflow/internal/apperrors"
	"taskflow/internal/model"
)

// CheckSelfDelete blocks an administrator from deleting their own account.
func CheckSelfDelete(p *model.Principal, targetID uint) error {
	if p.ID == targetID {
		return apperrors.Conflict("Deletion is not allowed.", "user", "You cannot delete your own account.")
	}
	return nil
}

// CheckSelfRemove blocks a manager from removing their own membership from a
// project they manage.
func CheckSelfRemove(p *model.Principal, memberID uint) error {
	if p.ID == memberID {
		return apperrors.Conflict("Removal is not allowed.", "user", "You cannot remove yourself from the project.")
	}
	return nil
}

// ScreenNewMembers rejects a member-add batch containing any administrator.
// The whole batch aborts; no rows are applied.
func ScreenNewMembers(users []model.User) error {
	for _, u := range users {
		if u.Role == model.RoleAdmin {
			return apperrors.Validation("Some users cannot be added.", apperrors.FieldErrors{
				"users": {"Administrators cannot be project members."},
			})
		}
	}
	return nil
}

// FilterSelf deduplicates a member-add id list and silently drops the acting
// manager's own id. Unlike CheckSelfRemove this is not an error: adding
// yourself is idempotent, removing yourself is a conflict.
func FilterSelf(actorID uint, ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == actorID {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
