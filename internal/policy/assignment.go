package policy

import (
	"taskflow/internal/apperrors"
	"taskflow/internal/model"
)

// ValidateAssignee checks that a task's candidate assignee exists, is a
// member of the task's project and holds the specialist role. The same rule
// applies to task creation and reassignment. Failures are field-level
// validation errors on user_id: the acting manager is authorized to act on
// the project, so the object of the failure is the candidate, not the actor.
func ValidateAssignee(assignee *model.User, isMember bool) error {
	if assignee == nil {
		return apperrors.Validation("The task cannot be assigned.", apperrors.FieldErrors{
			"user_id": {"The selected user does not exist."},
		})
	}
	if !isMember {
		return apperrors.Validation("The task cannot be assigned.", apperrors.FieldErrors{
			"user_id": {"The user must be a member of the project."},
		})
	}
	if assignee.Role != model.RoleSpecialist {
		return apperrors.Validation("The task cannot be assigned.", apperrors.FieldErrors{
			"user_id": {"Tasks can only be assigned to a specialist."},
		})
	}
	return nil
}
