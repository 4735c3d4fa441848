package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "task-manager/internal/errors"
	"task-manager/internal/validation"
)

func fieldError(field string) *validation.ValidationError {
	ve := validation.NewValidationError()
	ve.AddRequiredError(field)
	return ve
}

func TestErrorHandler_Handle(t *testing.T) {
	eh := NewErrorHandler()

	tests := []struct {
		name      string
		operation string
		err       error
		expected  string
	}{
		{
			name:      "Validation error",
			operation: "add task",
			err:       apperrors.NewValidationError("invalid input", nil),
			expected:  "failed to add task: invalid input",
		},
		{
			name:      "Wrapped field validation error",
			operation: "add task",
			err:       apperrors.NewValidationError("invalid task", fieldError("title")),
			expected:  "failed to add task: title is required",
		},
		{
			name:      "Not found error",
			operation: "show task",
			err:       apperrors.NewNotFoundError("task", "123"),
			expected:  "failed to show task: task not found: 123",
		},
		{
			name:      "Storage error",
			operation: "list tasks",
			err:       apperrors.NewStorageError("get", errors.New("disk full")),
			expected:  "failed to list tasks: A storage error occurred. Please try again.",
		},
		{
			name:      "Protected error",
			operation: "delete category",
			err:       apperrors.NewProtectedError("category", "1"),
			expected:  "failed to delete category: category 1 cannot be deleted",
		},
		{
			name:      "Regular error",
			operation: "process",
			err:       errors.New("regular error"),
			expected:  "failed to process: regular error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := eh.Handle(tt.operation, tt.err)
			assert.EqualError(t, result, tt.expected)
		})
	}

	assert.NoError(t, eh.Handle("anything", nil))
}

func TestErrorHandler_UserMessages(t *testing.T) {
	eh := NewErrorHandler()

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Import error",
			err:      apperrors.NewImportError("not a valid backup file", errors.New("unexpected EOF")),
			expected: "failed to import data: The file is not a valid backup and was not imported.",
		},
		{
			name:     "Timeout error",
			err:      apperrors.NewTimeoutError("get", nil),
			expected: "failed to import data: The operation timed out. Please try again.",
		},
		{
			name: "Several field errors",
			err: func() error {
				ve := fieldError("name")
				ve.AddOneOfError("color", "teal", "must be one of blue, green")
				return apperrors.NewValidationError("invalid category", ve)
			}(),
			expected: "failed to import data: Please fix the following:\n- name is required\n- color \"teal\" is not allowed, must be one of blue, green",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, eh.Handle("import data", tt.err), tt.expected)
		})
	}
}

func TestErrorHandler_Classification(t *testing.T) {
	eh := NewErrorHandler()

	assert.True(t, eh.IsValidationError(fieldError("name")))
	assert.True(t, eh.IsValidationError(apperrors.NewValidationError("bad", nil)))
	assert.False(t, eh.IsValidationError(errors.New("plain")))

	assert.True(t, eh.IsNotFoundError(apperrors.NewNotFoundError("task", "1")))
	assert.False(t, eh.IsNotFoundError(apperrors.NewValidationError("bad", nil)))

	assert.True(t, eh.IsStorageError(apperrors.NewStorageError("set", errors.New("boom"))))
	assert.True(t, eh.IsStorageError(apperrors.NewTimeoutError("set", nil)))
	assert.False(t, eh.IsStorageError(errors.New("plain")))

	assert.Equal(t, "NOT_FOUND", eh.GetErrorCode(apperrors.NewNotFoundError("task", "1")))
	assert.Equal(t, "UNKNOWN_ERROR", eh.GetErrorCode(errors.New("plain")))
}
