package validation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-manager/internal/domain"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		build    func(ve *ValidationError)
		expected string
	}{
		{
			name:     "no errors",
			build:    func(ve *ValidationError) {},
			expected: "invalid input",
		},
		{
			name:     "single error",
			build:    func(ve *ValidationError) { ve.AddRequiredError("title") },
			expected: "title is required",
		},
		{
			name: "several errors",
			build: func(ve *ValidationError) {
				ve.AddRequiredError("title")
				ve.AddTooLongError("description", "too long", 3)
			},
			expected: "invalid input: title is required; description must be at most 3 characters long",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve := NewValidationError()
			tt.build(ve)
			assert.Equal(t, tt.expected, ve.Error())
		})
	}
}

func TestValidationError_Rules(t *testing.T) {
	ve := NewValidationError()
	assert.False(t, ve.HasErrors())
	assert.Nil(t, ve.ErrorOrNil())

	ve.AddRequiredError("title")
	ve.AddTooLongError("name", "Household", 5)
	ve.AddOneOfError("priority", "urgent", AllowedValues("priority"))
	ve.AddConflictError("due_date", "2024-03-20", "cannot be set and cleared at once")

	require.Len(t, ve.Errors, 4)
	assert.NotNil(t, ve.ErrorOrNil())

	assert.Equal(t, RuleRequired, ve.Errors[0].Rule)
	assert.Equal(t, "title is required", ve.Errors[0].Message)

	assert.Equal(t, RuleMaxLength, ve.Errors[1].Rule)
	assert.Equal(t, "Household", ve.Errors[1].Value)
	assert.Equal(t, "name must be at most 5 characters long", ve.Errors[1].Message)

	assert.Equal(t, RuleOneOf, ve.Errors[2].Rule)
	assert.Equal(t, `priority "urgent" is not allowed, must be one of high, medium, low`, ve.Errors[2].Message)

	assert.Equal(t, RuleConflict, ve.Errors[3].Rule)
	assert.Equal(t, "due_date cannot be set and cleared at once", ve.Errors[3].Message)

	assert.Len(t, ve.GetFieldErrors("priority"), 1)
	assert.Empty(t, ve.GetFieldErrors("color"))
}

func TestValidationError_TagErrors(t *testing.T) {
	v := NewValidator()

	ve := v.structErrors(domain.CategoryDraft{Name: "", Color: "teal", Icon: domain.IconHome})
	require.Len(t, ve.GetFieldErrors("name"), 1)
	assert.Equal(t, RuleRequired, ve.GetFieldErrors("name")[0].Rule)
	require.Len(t, ve.GetFieldErrors("color"), 1)
	assert.Equal(t, RuleOneOf, ve.GetFieldErrors("color")[0].Rule)
	assert.Empty(t, ve.GetFieldErrors("icon"))

	ve = NewValidationError()
	ve.appendTagErrors(fmt.Errorf("not a struct"))
	require.Len(t, ve.Errors, 1)
	assert.Equal(t, "input", ve.Errors[0].Field)
}

func TestValidationError_GetUserFriendlyMessage(t *testing.T) {
	assert.Equal(t, "Input validation failed", NewValidationError().GetUserFriendlyMessage())

	ve := NewValidationError()
	ve.AddRequiredError("title")
	assert.Equal(t, "title is required", ve.GetUserFriendlyMessage())

	ve.AddRequiredError("category")
	assert.Equal(t, "Please fix the following:\n- title is required\n- category is required", ve.GetUserFriendlyMessage())
}

func TestIsValidationError(t *testing.T) {
	ve := NewValidationError()
	assert.True(t, IsValidationError(ve))
	assert.True(t, IsValidationError(fmt.Errorf("wrapped: %w", ve)))
	assert.False(t, IsValidationError(fmt.Errorf("plain")))
}
