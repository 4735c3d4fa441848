package cli

import (
	"context"
	"strings"

	"task-manager/internal/api"
	"task-manager/internal/domain"
	"task-manager/internal/errors"
	"task-manager/internal/services"
)

// AddTaskOptions holds the flags of the task add command
type AddTaskOptions struct {
	Description string
	Priority    string
	Category    string
	Due         string
	Completed   bool
}

// AddTaskCommand handles the task add command
type AddTaskCommand struct {
	app  *App
	opts AddTaskOptions
}

// NewAddTaskCommand creates a new task add command handler
func NewAddTaskCommand(app *App, opts AddTaskOptions) *AddTaskCommand {
	return &AddTaskCommand{app: app, opts: opts}
}

// Execute runs the task add command
func (c *AddTaskCommand) Execute(ctx context.Context, args []string) error {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return errors.NewInvalidInputError("title", title, "usage: tm task add \"task title\"")
	}

	draft := domain.NewTaskDraft(title)
	draft.Description = c.opts.Description
	draft.Completed = c.opts.Completed
	if c.opts.Priority != "" {
		draft.Priority = parsePriority(c.opts.Priority)
	}
	if c.opts.Category != "" {
		id, err := resolveCategory(ctx, c.app.businessAPI, c.opts.Category)
		if err != nil {
			return err
		}
		draft.Category = id
	}
	if c.opts.Due != "" {
		due, err := c.app.timeService.ParseDate(c.opts.Due)
		if err != nil {
			return err
		}
		draft.DueDate = &due
	}

	view, err := c.app.businessAPI.CreateTask(ctx, draft)
	if err != nil {
		return err
	}

	p, err := c.app.printer()
	if err != nil {
		return err
	}
	return p.Result(newTaskOutput(view), "Created task %s: %s", view.Task.ID, view.Task.Title)
}

// ListTasksOptions holds the flags of the task list command
type ListTasksOptions struct {
	Filter string
	SortBy string
}

// ListTasksCommand handles the task list command
type ListTasksCommand struct {
	app  *App
	opts ListTasksOptions
}

// NewListTasksCommand creates a new task list command handler
func NewListTasksCommand(app *App, opts ListTasksOptions) *ListTasksCommand {
	return &ListTasksCommand{app: app, opts: opts}
}

// Execute runs the task list command. Arguments form the search query.
func (c *ListTasksCommand) Execute(ctx context.Context, args []string) error {
	query := api.TaskQuery{
		Query:  strings.Join(args, " "),
		Filter: services.TaskFilter(strings.ToLower(c.opts.Filter)),
	}
	if c.opts.SortBy != "" {
		sortBy := domain.SortBy(strings.ToLower(c.opts.SortBy))
		query.SortBy = &sortBy
	}

	list, err := c.app.businessAPI.ListTasks(ctx, query)
	if err != nil {
		return err
	}

	p, err := c.app.printer()
	if err != nil {
		return err
	}
	if !p.IsTable() {
		return p.Value(taskListOutput{
			Tasks:  newTaskOutputs(list.Tasks),
			Counts: list.Counts,
			Filter: list.Filter,
			SortBy: list.SortBy,
			Query:  list.Query,
		})
	}

	if len(list.Tasks) == 0 {
		p.Println("No tasks found")
	} else {
		c.app.printTaskTable(p, list.Tasks)
	}
	p.Printf("\nall: %d  today: %d  week: %d  completed: %d  (showing %s, sorted by %s)\n",
		list.Counts.All, list.Counts.Today, list.Counts.Week, list.Counts.Completed, list.Filter, list.SortBy)
	return nil
}

// DueTasksCommand handles the task due command
type DueTasksCommand struct {
	app *App
}

// NewDueTasksCommand creates a new task due command handler
func NewDueTasksCommand(app *App) *DueTasksCommand {
	return &DueTasksCommand{app: app}
}

// Execute runs the task due command
func (c *DueTasksCommand) Execute(ctx context.Context, args []string) error {
	due, err := c.app.businessAPI.DueTasks(ctx)
	if err != nil {
		return err
	}

	p, err := c.app.printer()
	if err != nil {
		return err
	}
	if !p.IsTable() {
		return p.Value(newTaskOutputs(due))
	}
	if len(due) == 0 {
		p.Println("Nothing due today")
		return nil
	}
	c.app.printTaskTable(p, due)
	return nil
}

// ShowTaskCommand handles the task show command
type ShowTaskCommand struct {
	app *App
}

// NewShowTaskCommand creates a new task show command handler
func NewShowTaskCommand(app *App) *ShowTaskCommand {
	return &ShowTaskCommand{app: app}
}

// Execute runs the task show command
func (c *ShowTaskCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("id", args, "usage: tm task show <id>")
	}

	view, err := c.app.businessAPI.GetTask(ctx, args[0])
	if err != nil {
		return err
	}

	p, err := c.app.printer()
	if err != nil {
		return err
	}
	if !p.IsTable() {
		return p.Value(newTaskOutput(view))
	}

	task := view.Task
	due := "-"
	if task.DueDate != nil {
		due = c.app.timeService.FormatDate(*task.DueDate)
		if view.Overdue {
			due += " (overdue)"
		}
	}
	p.KeyValues([][2]string{
		{"ID", task.ID},
		{"Title", task.Title},
		{"Description", task.Description},
		{"Status", checkbox(task.Completed)},
		{"Priority", string(task.Priority)},
		{"Category", view.CategoryName},
		{"Due", due},
		{"Created", c.app.timeService.FormatDateTime(task.CreatedAt)},
		{"Updated", c.app.timeService.FormatDateTime(task.UpdatedAt)},
	})
	return nil
}

// EditTaskOptions holds the flags of the task edit command. Nil fields
// were not given and stay unchanged.
type EditTaskOptions struct {
	Title       *string
	Description *string
	Priority    *string
	Category    *string
	Due         *string
	ClearDue    bool
	Completed   *bool
}

// EditTaskCommand handles the task edit command
type EditTaskCommand struct {
	app  *App
	opts EditTaskOptions
}

// NewEditTaskCommand creates a new task edit command handler
func NewEditTaskCommand(app *App, opts EditTaskOptions) *EditTaskCommand {
	return &EditTaskCommand{app: app, opts: opts}
}

// Execute runs the task edit command
func (c *EditTaskCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("id", args, "usage: tm task edit <id> [flags]")
	}
	id := args[0]

	patch, err := c.patch(ctx)
	if err != nil {
		return err
	}
	if patch.IsEmpty() {
		return errors.NewInvalidInputError("edit", id, "no changes given")
	}

	view, err := c.app.businessAPI.EditTask(ctx, id, patch)
	if err != nil {
		return err
	}

	p, err := c.app.printer()
	if err != nil {
		return err
	}
	return p.Result(newTaskOutput(view), "Updated task: %s", view.Task.Title)
}

func (c *EditTaskCommand) patch(ctx context.Context) (domain.TaskPatch, error) {
	patch := domain.TaskPatch{
		Title:       c.opts.Title,
		Description: c.opts.Description,
		Completed:   c.opts.Completed,
	}
	if c.opts.Priority != nil {
		priority := parsePriority(*c.opts.Priority)
		patch.Priority = &priority
	}
	if c.opts.Category != nil {
		id, err := resolveCategory(ctx, c.app.businessAPI, *c.opts.Category)
		if err != nil {
			return patch, err
		}
		patch.Category = &id
	}
	if c.opts.Due != nil && c.opts.ClearDue {
		return patch, errors.NewInvalidInputError("due", *c.opts.Due, "cannot be combined with --clear-due")
	}
	if c.opts.Due != nil {
		due, err := c.app.timeService.ParseDate(*c.opts.Due)
		if err != nil {
			return patch, err
		}
		patch.DueDate = &due
	}
	patch.ClearDueDate = c.opts.ClearDue
	return patch, nil
}

// ToggleTaskCommand handles the task done command
type ToggleTaskCommand struct {
	app *App
}

// NewToggleTaskCommand creates a new task done command handler
func NewToggleTaskCommand(app *App) *ToggleTaskCommand {
	return &ToggleTaskCommand{app: app}
}

// Execute runs the task done command
func (c *ToggleTaskCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("id", args, "usage: tm task done <id>")
	}

	view, err := c.app.businessAPI.ToggleTask(ctx, args[0])
	if err != nil {
		return err
	}

	p, err := c.app.printer()
	if err != nil {
		return err
	}
	if view.Task.Completed {
		return p.Result(newTaskOutput(view), "Completed task: %s", view.Task.Title)
	}
	return p.Result(newTaskOutput(view), "Reopened task: %s", view.Task.Title)
}

// DeleteTaskCommand handles the task delete command
type DeleteTaskCommand struct {
	app *App
}

// NewDeleteTaskCommand creates a new task delete command handler
func NewDeleteTaskCommand(app *App) *DeleteTaskCommand {
	return &DeleteTaskCommand{app: app}
}

// Execute runs the task delete command. Unknown ids are not an error.
func (c *DeleteTaskCommand) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.NewInvalidInputError("id", args, "usage: tm task delete <id>...")
	}

	for _, id := range args {
		if err := c.app.businessAPI.DeleteTask(ctx, id); err != nil {
			return err
		}
	}

	p, err := c.app.printer()
	if err != nil {
		return err
	}
	return p.Result(map[string][]string{"deleted": args}, "Deleted %d task(s)", len(args))
}

// printTaskTable renders tasks as the task list table
func (a *App) printTaskTable(p *Printer, views []*api.TaskView) {
	rows := make([][]string, 0, len(views))
	for _, view := range views {
		task := view.Task
		due := view.DueLabel
		if view.Overdue {
			due += " (overdue)"
		}
		rows = append(rows, []string{
			task.ID,
			checkbox(task.Completed),
			task.Title,
			string(task.Priority),
			view.CategoryName,
			due,
		})
	}
	p.Table([]string{"ID", "Done", "Title", "Priority", "Category", "Due"}, rows)
}

func parsePriority(value string) domain.Priority {
	return domain.Priority(strings.ToLower(strings.TrimSpace(value)))
}

// resolveCategory maps a category id or a case-insensitive name to an id
func resolveCategory(ctx context.Context, businessAPI api.BusinessAPI, value string) (string, error) {
	value = strings.TrimSpace(value)
	summaries, err := businessAPI.ListCategories(ctx)
	if err != nil {
		return "", err
	}
	for _, summary := range summaries {
		if summary.Category.ID == value {
			return summary.Category.ID, nil
		}
	}
	for _, summary := range summaries {
		if strings.EqualFold(summary.Category.Name, value) {
			return summary.Category.ID, nil
		}
	}
	return "", errors.NewNotFoundError("category", value)
}
