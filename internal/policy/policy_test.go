package policy

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"taskflow/internal/apperrors"
	"taskflow/internal/model"
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name           string
		principal      *model.Principal
		required       model.Role
		expectedStatus int
	}{
		{
			name:           "no principal",
			principal:      nil,
			required:       model.RoleManager,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "exact role match",
			principal:      &model.Principal{ID: 1, Role: model.RoleManager},
			required:       model.RoleManager,
			expectedStatus: 0,
		},
		{
			name:           "admin rejected from manager operation",
			principal:      &model.Principal{ID: 1, Role: model.RoleAdmin},
			required:       model.RoleManager,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "specialist rejected from admin operation",
			principal:      &model.Principal{ID: 2, Role: model.RoleSpecialist},
			required:       model.RoleAdmin,
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.principal, tt.required)
			if tt.expectedStatus == 0 {
				assert.NoError(t, err)
				return
			}
			appErr := apperrors.From(err)
			assert.Equal(t, tt.expectedStatus, appErr.Status)
			assert.Contains(t, appErr.Fields, "auth")
		})
	}
}

func TestAuthorize_AdminLabel(t *testing.T) {
	err := Authorize(&model.Principal{ID: 1, Role: model.RoleSpecialist}, model.RoleAdmin)
	appErr := apperrors.From(err)
	assert.Equal(t, []string{"Only a administrator can perform this action."}, appErr.Fields["auth"])
}

func TestValidateAssignee(t *testing.T) {
	specialist := &model.User{Name: "Ivan", Role: model.RoleSpecialist}
	specialist.ID = 7
	manager := &model.User{Name: "Marko", Role: model.RoleManager}
	manager.ID = 8

	tests := []struct {
		name            string
		assignee        *model.User
		isMember        bool
		expectedMessage string
	}{
		{
			name:            "missing user",
			assignee:        nil,
			isMember:        false,
			expectedMessage: "The selected user does not exist.",
		},
		{
			name:            "not a project member",
			assignee:        specialist,
			isMember:        false,
			expectedMessage: "The user must be a member of the project.",
		},
		{
			name:            "member but not a specialist",
			assignee:        manager,
			isMember:        true,
			expectedMessage: "Tasks can only be assigned to a specialist.",
		},
		{
			name:     "member specialist",
			assignee: specialist,
			isMember: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAssignee(tt.assignee, tt.isMember)
			if tt.expectedMessage == "" {
				assert.NoError(t, err)
				return
			}
			appErr := apperrors.From(err)
			assert.Equal(t, http.StatusUnprocessableEntity, appErr.Status)
			assert.Equal(t, []string{tt.expectedMessage}, appErr.Fields["user_id"])
		})
	}
}

func TestCheckSelfDelete(t *testing.T) {
	admin := &model.Principal{ID: 1, Role: model.RoleAdmin}

	err := CheckSelfDelete(admin, 1)
	appErr := apperrors.From(err)
	assert.Equal(t, http.StatusConflict, appErr.Status)

	assert.NoError(t, CheckSelfDelete(admin, 2))
}

func TestCheckSelfRemove(t *testing.T) {
	manager := &model.Principal{ID: 5, Role: model.RoleManager}

	err := CheckSelfRemove(manager, 5)
	appErr := apperrors.From(err)
	assert.Equal(t, http.StatusConflict, appErr.Status)

	assert.NoError(t, CheckSelfRemove(manager, 6))
}

func TestScreenNewMembers(t *testing.T) {
	specialist := model.User{Role: model.RoleSpecialist}
	admin := model.User{Role: model.RoleAdmin}

	assert.NoError(t, ScreenNewMembers([]model.User{specialist, specialist}))
	assert.NoError(t, ScreenNewMembers(nil))

	err := ScreenNewMembers([]model.User{specialist, admin})
	appErr := apperrors.From(err)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Status)
	assert.Equal(t, []string{"Administrators cannot be project members."}, appErr.Fields["users"])
}

func TestFilterSelf(t *testing.T) {
	tests := []struct {
		name     string
		actorID  uint
		ids      []uint
		expected []uint
	}{
		{
			name:     "drops the actor silently",
			actorID:  3,
			ids:      []uint{1, 3, 2},
			expected: []uint{1, 2},
		},
		{
			name:     "deduplicates",
			actorID:  9,
			ids:      []uint{4, 4, 5, 4},
			expected: []uint{4, 5},
		},
		{
			name:     "only the actor yields an empty batch",
			actorID:  3,
			ids:      []uint{3, 3},
			expected: []uint{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FilterSelf(tt.actorID, tt.ids))
		})
	}
}

func TestAuthorizeItemDelete(t *testing.T) {
	p := &model.Principal{ID: 10, Role: model.RoleSpecialist}

	t.Run("author on own task", func(t *testing.T) {
		assert.NoError(t, AuthorizeItemDelete(p, 10, 10, "comment"))
	})

	t.Run("not the author", func(t *testing.T) {
		err := AuthorizeItemDelete(p, 11, 10, "comment")
		appErr := apperrors.From(err)
		assert.Equal(t, http.StatusForbidden, appErr.Status)
		assert.Equal(t, []string{"You can only delete your own comment."}, appErr.Fields["comment"])
	})

	t.Run("task reassigned since authoring", func(t *testing.T) {
		err := AuthorizeItemDelete(p, 10, 12, "attachment")
		appErr := apperrors.From(err)
		assert.Equal(t, http.StatusForbidden, appErr.Status)
		assert.Equal(t, []string{"This attachment is not on your task."}, appErr.Fields["attachment"])
	})
}

func TestSortTasks(t *testing.T) {
	date := func(s string) *time.Time {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			t.Fatalf("bad date %q: %v", s, err)
		}
		return &d
	}
	task := func(id uint, status model.TaskStatus, due *time.Time) model.Task {
		tk := model.Task{Status: status, DueDate: due}
		tk.ID = id
		return tk
	}

	t.Run("status rank before due date", func(t *testing.T) {
		tasks := []model.Task{
			task(1, model.TaskStatusDone, date("2026-01-01")),
			task(2, model.TaskStatusTodo, date("2026-06-01")),
			task(3, model.TaskStatusReview, nil),
			task(4, model.TaskStatusInProgress, date("2026-03-01")),
		}
		SortTasks(tasks)
		assert.Equal(t, []uint{2, 4, 3, 1}, taskIDs(tasks))
	})

	t.Run("missing due dates sort last within a status", func(t *testing.T) {
		tasks := []model.Task{
			task(1, model.TaskStatusTodo, nil),
			task(2, model.TaskStatusTodo, date("2026-01-05")),
			task(3, model.TaskStatusTodo, date("2026-01-01")),
		}
		SortTasks(tasks)
		assert.Equal(t, []uint{3, 2, 1}, taskIDs(tasks))
	})

	t.Run("id descending breaks full ties", func(t *testing.T) {
		tasks := []model.Task{
			task(5, model.TaskStatusTodo, date("2026-01-01")),
			task(9, model.TaskStatusTodo, date("2026-01-01")),
			task(7, model.TaskStatusTodo, nil),
			task(8, model.TaskStatusTodo, nil),
		}
		SortTasks(tasks)
		assert.Equal(t, []uint{9, 5, 8, 7}, taskIDs(tasks))
	})

	t.Run("unknown status sorts after done", func(t *testing.T) {
		tasks := []model.Task{
			task(1, model.TaskStatus("blocked"), nil),
			task(2, model.TaskStatusDone, nil),
		}
		SortTasks(tasks)
		assert.Equal(t, []uint{2, 1}, taskIDs(tasks))
	})
}

func taskIDs(tasks []model.Task) []uint {
	ids := make([]uint, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	return ids
}
