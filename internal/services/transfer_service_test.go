package services

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-manager/internal/domain"
	"task-manager/internal/errors"
)

func TestTransferService_ExportFileName(t *testing.T) {
	services, _ := setupTestServices(t)
	assert.Equal(t, "tm-backup-2024-03-13.json", services.TransferService.ExportFileName())
}

func TestTransferService_WriteExport(t *testing.T) {
	services, _ := setupTestServices(t)
	ctx := context.Background()

	due := day(time.March, 20, 9)
	draft := domain.NewTaskDraft("Export me")
	draft.DueDate = &due
	_, err := services.TaskService.CreateTask(ctx, draft)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, services.TransferService.WriteExport(ctx, &buf))

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	assert.Contains(t, raw, "tasks")
	assert.Contains(t, raw, "categories")
	assert.Contains(t, raw, "settings")
	assert.JSONEq(t, `"2024-03-13T10:30:00Z"`, string(raw["exportDate"]))
	assert.Contains(t, buf.String(), "\n  \"tasks\"", "export is indented")
	assert.Contains(t, buf.String(), `"dueDate": "2024-03-20T09:00:00Z"`)
}

func TestTransferService_RoundTrip(t *testing.T) {
	ctx := context.Background()
	source, _ := setupTestServices(t)

	due := day(time.March, 20, 9)
	draft := domain.TaskDraft{Title: "Pay rent", Description: "before noon", Priority: domain.PriorityHigh, Category: "2", DueDate: &due}
	_, err := source.TaskService.CreateTask(ctx, draft)
	require.NoError(t, err)
	done, err := source.TaskService.CreateTask(ctx, domain.NewTaskDraft("Done already"))
	require.NoError(t, err)
	_, err = source.TaskService.ToggleTask(ctx, done.ID)
	require.NoError(t, err)
	_, err = source.CategoryService.CreateCategory(ctx, domain.CategoryDraft{Name: "Garden", Color: domain.ColorGreen, Icon: domain.IconHome})
	require.NoError(t, err)
	dark := domain.ThemeDark
	_, err = source.SettingsService.UpdateSettings(ctx, domain.SettingsPatch{Theme: &dark})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, source.TransferService.WriteExport(ctx, &buf))

	target, _ := setupTestServices(t)
	result, err := target.TransferService.Import(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Tasks)
	assert.Equal(t, 4, result.Categories)
	assert.True(t, result.SettingsWritten)
	assert.Equal(t, 0, result.RepairedReferences)

	sourceDoc, err := source.TransferService.Export(ctx)
	require.NoError(t, err)
	targetDoc, err := target.TransferService.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, *sourceDoc.Tasks, *targetDoc.Tasks)
	assert.Equal(t, *sourceDoc.Categories, *targetDoc.Categories)
	assert.Equal(t, *sourceDoc.Settings, *targetDoc.Settings)
}

func TestTransferService_Import(t *testing.T) {
	tests := []struct {
		name           string
		document       string
		expectedState  func(t *testing.T, services *ServiceContainer, result *ImportResult)
		errorAssertion func(t *testing.T, err error)
	}{
		{
			name:     "should write only the fields present",
			document: `{"settings": {"theme": "light", "sortBy": "priority", "notifications": false}}`,
			expectedState: func(t *testing.T, services *ServiceContainer, result *ImportResult) {
				assert.False(t, result.TasksWritten)
				assert.False(t, result.CategoriesWritten)
				assert.True(t, result.SettingsWritten)

				settings, err := services.SettingsService.GetSettings(context.Background())
				require.NoError(t, err)
				assert.Equal(t, domain.SortByPriority, settings.SortBy)

				tasks, err := services.TaskService.ListTasks(context.Background())
				require.NoError(t, err)
				assert.Len(t, tasks, 1, "existing tasks are kept")
			},
		},
		{
			name: "should repair tasks that reference unknown categories",
			document: `{
				"tasks": [{"id": "t1", "title": "Orphan", "description": "", "completed": false,
					"priority": "low", "category": "99",
					"createdAt": "2024-03-01T09:00:00Z", "updatedAt": "2024-03-01T09:00:00Z"}],
				"categories": [{"id": "2", "name": "Work", "color": "green", "icon": "Briefcase",
					"createdAt": "2024-03-01T09:00:00Z"}]
			}`,
			expectedState: func(t *testing.T, services *ServiceContainer, result *ImportResult) {
				assert.Equal(t, 1, result.RepairedReferences)

				categories, err := services.CategoryService.ListCategories(context.Background())
				require.NoError(t, err)
				require.Len(t, categories, 2)
				assert.Equal(t, domain.DefaultCategoryID, categories[0].ID)

				task, err := services.TaskService.GetTask(context.Background(), "t1")
				require.NoError(t, err)
				assert.Equal(t, domain.DefaultCategoryID, task.Category)
			},
		},
		{
			name:     "should reject malformed JSON",
			document: `{"tasks": [`,
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeImport))
			},
		},
		{
			name:     "should reject a document that is not an object",
			document: `[1, 2, 3]`,
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeImport))
			},
		},
		{
			name: "should reject unparsable dates before writing anything",
			document: `{
				"settings": {"theme": "dark", "sortBy": "manual", "notifications": true},
				"tasks": [{"id": "t1", "title": "Bad", "priority": "low", "category": "1",
					"createdAt": "yesterday", "updatedAt": "2024-03-01T09:00:00Z"}]
			}`,
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeImport))
				assert.Contains(t, err.Error(), "createdAt")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			services, _ := setupTestServices(t)
			ctx := context.Background()
			_, err := services.TaskService.CreateTask(ctx, domain.NewTaskDraft("Existing"))
			require.NoError(t, err)
			before, err := services.TransferService.Export(ctx)
			require.NoError(t, err)

			result, err := services.TransferService.Import(ctx, strings.NewReader(tt.document))

			if tt.errorAssertion != nil {
				tt.errorAssertion(t, err)
				after, exportErr := services.TransferService.Export(ctx)
				require.NoError(t, exportErr)
				assert.Equal(t, *before.Tasks, *after.Tasks)
				assert.Equal(t, *before.Categories, *after.Categories)
				assert.Equal(t, *before.Settings, *after.Settings)
				return
			}
			require.NoError(t, err)
			tt.expectedState(t, services, result)
		})
	}
}
