package validation

import (
	"strings"

	"task-manager/internal/domain"
)

// TaskValidator provides validation for Task-related operations
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a new task validator
func NewTaskValidator(v *Validator) *TaskValidator {
	if v == nil {
		v = NewValidator()
	}
	return &TaskValidator{validator: v}
}

// CleanTaskDraft trims the text fields of draft and validates the result.
func (tv *TaskValidator) CleanTaskDraft(draft domain.TaskDraft) (domain.TaskDraft, error) {
	draft.Title = strings.TrimSpace(draft.Title)
	draft.Description = strings.TrimSpace(draft.Description)
	draft.Category = strings.TrimSpace(draft.Category)

	validationError := tv.validator.structErrors(draft)
	tv.validator.checkMaxLength(validationError, "title", draft.Title, tv.validator.getTitleMaxLength())
	tv.validator.checkMaxLength(validationError, "description", draft.Description, tv.validator.getDescriptionMaxLength())

	return draft, validationError.ErrorOrNil()
}

// CleanTaskPatch trims the text fields present in patch and validates them.
func (tv *TaskValidator) CleanTaskPatch(patch domain.TaskPatch) (domain.TaskPatch, error) {
	patch.Title = trimPtr(patch.Title)
	patch.Description = trimPtr(patch.Description)
	patch.Category = trimPtr(patch.Category)

	validationError := tv.validator.structErrors(patch)
	if patch.Title != nil {
		tv.validator.checkMaxLength(validationError, "title", *patch.Title, tv.validator.getTitleMaxLength())
	}
	if patch.Description != nil {
		tv.validator.checkMaxLength(validationError, "description", *patch.Description, tv.validator.getDescriptionMaxLength())
	}
	if patch.ClearDueDate && patch.DueDate != nil {
		validationError.AddConflictError("due_date", patch.DueDate, "cannot be set and cleared at once")
	}

	return patch, validationError.ErrorOrNil()
}

// ValidateTaskID validates a task ID
func (tv *TaskValidator) ValidateTaskID(id string) error {
	return validateID("task_id", id)
}

func validateID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		validationError := NewValidationError()
		validationError.AddRequiredError(field)
		return validationError
	}
	return nil
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	return &trimmed
}
