package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-manager/internal/config"
	"task-manager/internal/domain"
)

func TestTaskValidator_CleanTaskDraft(t *testing.T) {
	tv := NewTaskValidator(nil)

	tests := []struct {
		name       string
		draft      domain.TaskDraft
		wantFields []string
	}{
		{"valid", domain.NewTaskDraft("Buy milk"), nil},
		{"blank title", domain.NewTaskDraft("   "), []string{"title"}},
		{"missing priority", domain.TaskDraft{Title: "x", Category: "1"}, []string{"priority"}},
		{"unknown priority", domain.TaskDraft{Title: "x", Priority: "urgent", Category: "1"}, []string{"priority"}},
		{"blank category", domain.TaskDraft{Title: "x", Priority: domain.PriorityLow, Category: " "}, []string{"category"}},
		{"title too long", domain.NewTaskDraft(strings.Repeat("a", 201)), []string{"title"}},
		{"several problems", domain.TaskDraft{Title: "", Priority: "x"}, []string{"title", "priority", "category"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tv.CleanTaskDraft(tt.draft)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			ve := err.(*ValidationError)
			for _, field := range tt.wantFields {
				assert.NotEmpty(t, ve.GetFieldErrors(field), "expected error on %s, got %v", field, ve.Errors)
			}
		})
	}
}

func TestTaskValidator_CleanTaskDraftTrims(t *testing.T) {
	tv := NewTaskValidator(nil)

	draft := domain.NewTaskDraft("  Buy milk \n")
	draft.Description = "  two litres  "
	cleaned, err := tv.CleanTaskDraft(draft)
	require.NoError(t, err)

	assert.Equal(t, "Buy milk", cleaned.Title)
	assert.Equal(t, "two litres", cleaned.Description)
}

func TestTaskValidator_ConfiguredTitleLimit(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Validation.TitleMaxLength = 4
	tv := NewTaskValidator(NewValidatorWithConfig(cfg))

	_, err := tv.CleanTaskDraft(domain.NewTaskDraft("four"))
	assert.NoError(t, err)

	_, err = tv.CleanTaskDraft(domain.NewTaskDraft("fives"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most 4 characters")
}

func TestTaskValidator_CleanTaskPatch(t *testing.T) {
	tv := NewTaskValidator(nil)
	blank := "  "
	title := "  Renamed  "
	urgent := domain.Priority("urgent")
	due := time.Now()

	tests := []struct {
		name      string
		patch     domain.TaskPatch
		wantField string
	}{
		{"empty patch", domain.TaskPatch{}, ""},
		{"title", domain.TaskPatch{Title: &title}, ""},
		{"blank title", domain.TaskPatch{Title: &blank}, "title"},
		{"blank category", domain.TaskPatch{Category: &blank}, "category"},
		{"bad priority", domain.TaskPatch{Priority: &urgent}, "priority"},
		{"set and clear due date", domain.TaskPatch{DueDate: &due, ClearDueDate: true}, "due_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleaned, err := tv.CleanTaskPatch(tt.patch)
			if tt.wantField == "" {
				require.NoError(t, err)
				if tt.patch.Title != nil {
					assert.Equal(t, "Renamed", *cleaned.Title)
				}
				return
			}

			require.Error(t, err)
			ve := err.(*ValidationError)
			assert.NotEmpty(t, ve.GetFieldErrors(tt.wantField), "errors: %v", ve.Errors)
		})
	}
}

func TestTaskValidator_CleanTaskPatchDoesNotMutateInput(t *testing.T) {
	tv := NewTaskValidator(nil)
	title := "  spaced  "

	_, err := tv.CleanTaskPatch(domain.TaskPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "  spaced  ", title)
}

func TestTaskValidator_ValidateTaskID(t *testing.T) {
	tv := NewTaskValidator(nil)

	assert.NoError(t, tv.ValidateTaskID("abc"))
	err := tv.ValidateTaskID(" ")
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Equal(t, "task_id is required", err.(*ValidationError).GetUserFriendlyMessage())
}
