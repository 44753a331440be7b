package policy

import (
	"taskflow/internal/apperrors"
	"taskflow/internal/model"
)

// AuthorizeItemDelete governs deletion of a comment or attachment. The item
// was looked up by its own id, so existence is not hidden: the caller handles
// the missing case as NotFound before reaching here. Two checks, in order:
// the principal authored the item, and the item's parent task is still
// assigned to the principal. The second guards against tasks reassigned
// after the item was created; authorship alone is not enough.
func AuthorizeItemDelete(p *model.Principal, authorID, taskAssigneeID uint, field string) error {
	if authorID != p.ID {
		return apperrors.Forbidden(field, "You can only delete your own "+field+".")
	}
	if taskAssigneeID != p.ID {
		return apperrors.Forbidden(field, "This "+field+" is not on your task.")
	}
	return nil
}
