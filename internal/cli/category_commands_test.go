package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-manager/internal/domain"
)

func TestListCategoriesCommand_Execute(t *testing.T) {
	app := setupTestApp(t, "")
	app.mustAddTask(t, "Report", "-c", "Work")
	app.mustAddTask(t, "Slides", "-c", "Work")

	out, err := app.execute(t, "category", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "General (default)")
	assert.Contains(t, out, "Work")
	assert.Contains(t, out, "Personal")

	out, err = app.execute(t, "-o", "json", "category", "list")
	require.NoError(t, err)
	var categories []struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Color       string `json:"color"`
		ActiveTasks int    `json:"activeTasks"`
	}
	require.NoError(t, decodeJSON(out, &categories))
	require.Len(t, categories, 3)
	assert.Equal(t, "2", categories[1].ID)
	assert.Equal(t, "green", categories[1].Color)
	assert.Equal(t, 2, categories[1].ActiveTasks)
	assert.Equal(t, 0, categories[0].ActiveTasks)
}

func TestAddCategoryCommand_Execute(t *testing.T) {
	strPtr := func(s string) *string { return &s }

	tests := []struct {
		name             string
		opts             CategoryOptions
		args             []string
		expectedCategory func(t *testing.T, category *domain.Category)
		errorAssertion   func(t *testing.T, err error)
	}{
		{
			name: "uses the palette defaults",
			args: []string{"Side", "projects"},
			expectedCategory: func(t *testing.T, category *domain.Category) {
				assert.Equal(t, "Side projects", category.Name)
				assert.Equal(t, domain.ColorBlue, category.Color)
				assert.Equal(t, domain.IconList, category.Icon)
			},
		},
		{
			name: "accepts color and icon",
			opts: CategoryOptions{Color: strPtr("Orange"), Icon: strPtr("Home")},
			args: []string{"Errands"},
			expectedCategory: func(t *testing.T, category *domain.Category) {
				assert.Equal(t, domain.ColorOrange, category.Color)
				assert.Equal(t, domain.IconHome, category.Icon)
			},
		},
		{
			name: "rejects colors outside the palette",
			opts: CategoryOptions{Color: strPtr("teal")},
			args: []string{"Garden"},
			errorAssertion: func(t *testing.T, err error) {
				assert.Error(t, err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := setupTestApp(t, "")
			ctx := context.Background()

			err := NewAddCategoryCommand(app.App, tt.opts).Execute(ctx, tt.args)
			categories, listErr := app.repo.ListCategories(ctx)
			require.NoError(t, listErr)

			if tt.errorAssertion != nil {
				require.Error(t, err)
				tt.errorAssertion(t, err)
				assert.Len(t, categories, 3)
				return
			}
			require.NoError(t, err)
			require.Len(t, categories, 4)
			tt.expectedCategory(t, categories[3])
		})
	}
}

func TestEditCategoryCommand_Execute(t *testing.T) {
	app := setupTestApp(t, "")
	ctx := context.Background()

	out, err := app.execute(t, "category", "edit", "work", "--color", "red")
	require.NoError(t, err)
	assert.Equal(t, "Updated category Work (2)\n", out)

	out, err = app.execute(t, "category", "edit", "2", "--name", "Office")
	require.NoError(t, err)
	assert.Equal(t, "Updated category Office (2)\n", out)

	categories, err := app.repo.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Office", categories[1].Name)
	assert.Equal(t, domain.ColorRed, categories[1].Color)
	assert.Equal(t, domain.IconBriefcase, categories[1].Icon)

	_, err = app.execute(t, "category", "edit", "2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no changes given")

	_, err = app.execute(t, "category", "edit", "Garden", "--name", "Yard")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "category not found: Garden")
}

func TestDeleteCategoryCommand_Execute(t *testing.T) {
	app := setupTestApp(t, "")
	ctx := context.Background()
	id := app.mustAddTask(t, "Report", "-c", "Work")

	out, err := app.execute(t, "category", "delete", "2")
	require.NoError(t, err)
	assert.Equal(t, "Deleted category 2, 1 task(s) moved to the default category\n", out)

	task, err := app.repo.GetTask(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCategoryID, task.Category)

	_, err = app.execute(t, "category", "delete", domain.DefaultCategoryID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be deleted")

	categories, err := app.repo.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 2)
}
