package cli

import (
	"context"
	"strconv"
	"strings"

	"task-manager/internal/domain"
	"task-manager/internal/errors"
)

// ListCategoriesCommand handles the category list command
type ListCategoriesCommand struct {
	app *App
}

// NewListCategoriesCommand creates a new category list command handler
func NewListCategoriesCommand(app *App) *ListCategoriesCommand {
	return &ListCategoriesCommand{app: app}
}

// Execute runs the category list command
func (c *ListCategoriesCommand) Execute(ctx context.Context, args []string) error {
	summaries, err := c.app.businessAPI.ListCategories(ctx)
	if err != nil {
		return err
	}

	p, err := c.app.printer()
	if err != nil {
		return err
	}
	if !p.IsTable() {
		return p.Value(newCategoryOutputs(summaries))
	}
	if len(summaries) == 0 {
		p.Println("No categories found")
		return nil
	}

	rows := make([][]string, 0, len(summaries))
	for _, summary := range summaries {
		category := summary.Category
		name := category.Name
		if category.IsDefault() {
			name += " (default)"
		}
		rows = append(rows, []string{
			category.ID,
			name,
			string(category.Color),
			string(category.Icon),
			strconv.Itoa(summary.ActiveTasks),
		})
	}
	p.Table([]string{"ID", "Name", "Color", "Icon", "Active"}, rows)
	return nil
}

// CategoryOptions holds the flags of the category add and edit commands.
// Nil fields were not given.
type CategoryOptions struct {
	Name  *string
	Color *string
	Icon  *string
}

// AddCategoryCommand handles the category add command
type AddCategoryCommand struct {
	app  *App
	opts CategoryOptions
}

// NewAddCategoryCommand creates a new category add command handler
func NewAddCategoryCommand(app *App, opts CategoryOptions) *AddCategoryCommand {
	return &AddCategoryCommand{app: app, opts: opts}
}

// Execute runs the category add command
func (c *AddCategoryCommand) Execute(ctx context.Context, args []string) error {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return errors.NewInvalidInputError("name", name, "usage: tm category add \"name\" [--color blue] [--icon List]")
	}

	draft := c.opts.apply(domain.NewCategoryDraft(name))
	category, err := c.app.businessAPI.CreateCategory(ctx, draft)
	if err != nil {
		return err
	}

	p, err := c.app.printer()
	if err != nil {
		return err
	}
	return p.Result(mapper.Category.ToRecord(*category), "Created category %s", categoryLabel(category))
}

// EditCategoryCommand handles the category edit command
type EditCategoryCommand struct {
	app  *App
	opts CategoryOptions
}

// NewEditCategoryCommand creates a new category edit command handler
func NewEditCategoryCommand(app *App, opts CategoryOptions) *EditCategoryCommand {
	return &EditCategoryCommand{app: app, opts: opts}
}

// Execute runs the category edit command. Unset flags keep the current values.
func (c *EditCategoryCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("id", args, "usage: tm category edit <id> [--name ...] [--color ...] [--icon ...]")
	}
	if c.opts.Name == nil && c.opts.Color == nil && c.opts.Icon == nil {
		return errors.NewInvalidInputError("edit", args[0], "no changes given")
	}

	current, err := c.find(ctx, args[0])
	if err != nil {
		return err
	}

	draft := c.opts.apply(domain.CategoryDraft{Name: current.Name, Color: current.Color, Icon: current.Icon})
	category, err := c.app.businessAPI.UpdateCategory(ctx, current.ID, draft)
	if err != nil {
		return err
	}

	p, err := c.app.printer()
	if err != nil {
		return err
	}
	return p.Result(mapper.Category.ToRecord(*category), "Updated category %s", categoryLabel(category))
}

func (c *EditCategoryCommand) find(ctx context.Context, value string) (*domain.Category, error) {
	id, err := resolveCategory(ctx, c.app.businessAPI, value)
	if err != nil {
		return nil, err
	}
	summaries, err := c.app.businessAPI.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	for _, summary := range summaries {
		if summary.Category.ID == id {
			return summary.Category, nil
		}
	}
	return nil, errors.NewNotFoundError("category", value)
}

// DeleteCategoryCommand handles the category delete command
type DeleteCategoryCommand struct {
	app *App
}

// NewDeleteCategoryCommand creates a new category delete command handler
func NewDeleteCategoryCommand(app *App) *DeleteCategoryCommand {
	return &DeleteCategoryCommand{app: app}
}

// Execute runs the category delete command. Tasks in the deleted category
// move to the default category.
func (c *DeleteCategoryCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("id", args, "usage: tm category delete <id>")
	}

	moved, err := c.app.businessAPI.DeleteCategory(ctx, args[0])
	if err != nil {
		return err
	}

	p, err := c.app.printer()
	if err != nil {
		return err
	}
	result := map[string]interface{}{"deleted": args[0], "reassignedTasks": moved}
	return p.Result(result, "Deleted category %s, %d task(s) moved to the default category", args[0], moved)
}

func (o CategoryOptions) apply(draft domain.CategoryDraft) domain.CategoryDraft {
	if o.Name != nil {
		draft.Name = *o.Name
	}
	if o.Color != nil {
		draft.Color = domain.Color(strings.ToLower(strings.TrimSpace(*o.Color)))
	}
	if o.Icon != nil {
		draft.Icon = domain.Icon(strings.TrimSpace(*o.Icon))
	}
	return draft
}
