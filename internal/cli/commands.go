package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// changedString returns the flag value when it was given on the command line
func changedString(flags *pflag.FlagSet, name string) *string {
	if !flags.Changed(name) {
		return nil
	}
	value, _ := flags.GetString(name)
	return &value
}

func changedBool(flags *pflag.FlagSet, name string) *bool {
	if !flags.Changed(name) {
		return nil
	}
	value, _ := flags.GetBool(name)
	return &value
}

// newTaskCommand builds the task command group
func (r *RootCommand) newTaskCommand() *cobra.Command {
	taskCmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks", "t"},
		Short:   "Manage tasks",
	}

	var addOpts AddTaskOptions
	addCmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a new task",
		Long: `Add a new task. The title is every argument joined by spaces.

Due dates accept "today", "tomorrow" or a date such as 2024-03-15 or "2024-03-15 17:00".

Examples:
  tm task add Buy milk
  tm task add "Quarterly report" -p high -c Work --due tomorrow`,
		Args: cobra.MinimumNArgs(1),
		RunE: r.runE("add task", func(app *App) Command {
			return NewAddTaskCommand(app, addOpts)
		}),
	}
	addCmd.Flags().StringVarP(&addOpts.Description, "description", "d", "", "Task description")
	addCmd.Flags().StringVarP(&addOpts.Priority, "priority", "p", "", "Priority: low, medium or high (default medium)")
	addCmd.Flags().StringVarP(&addOpts.Category, "category", "c", "", "Category id or name (default: the default category)")
	addCmd.Flags().StringVar(&addOpts.Due, "due", "", "Due date")
	addCmd.Flags().BoolVar(&addOpts.Completed, "done", false, "Create the task as completed")

	var listOpts ListTasksOptions
	listCmd := &cobra.Command{
		Use:     "list [query]",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Long: `List tasks with optional search, filter and sort.

Filters: all (every incomplete task), today, week, completed
Sort orders: date, priority, manual (default: the sort order in settings)

Examples:
  tm task list
  tm task list -f today
  tm task list -f completed report`,
		RunE: r.runE("list tasks", func(app *App) Command {
			return NewListTasksCommand(app, listOpts)
		}),
	}
	listCmd.Flags().StringVarP(&listOpts.Filter, "filter", "f", "all", "Filter: all, today, week or completed")
	listCmd.Flags().StringVarP(&listOpts.SortBy, "sort", "s", "", "Sort order: date, priority or manual")

	dueCmd := &cobra.Command{
		Use:   "due",
		Short: "Show incomplete tasks that are due today or overdue",
		Args:  cobra.NoArgs,
		RunE: r.runE("list due tasks", func(app *App) Command {
			return NewDueTasksCommand(app)
		}),
	}

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
		RunE: r.runE("show task", func(app *App) Command {
			return NewShowTaskCommand(app)
		}),
	}

	editCmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task",
		Long: `Edit a task. Only the flags given are changed.

Examples:
  tm task edit <id> --title "New title"
  tm task edit <id> -p low --due 2024-04-01
  tm task edit <id> --clear-due`,
		Args: cobra.ExactArgs(1),
	}
	editCmd.Flags().String("title", "", "New title")
	editCmd.Flags().StringP("description", "d", "", "New description")
	editCmd.Flags().StringP("priority", "p", "", "New priority: low, medium or high")
	editCmd.Flags().StringP("category", "c", "", "New category id or name")
	editCmd.Flags().String("due", "", "New due date")
	editCmd.Flags().Bool("clear-due", false, "Remove the due date")
	editCmd.Flags().Bool("done", false, "Set the completed flag")
	editCmd.RunE = func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		clearDue, _ := flags.GetBool("clear-due")
		opts := EditTaskOptions{
			Title:       changedString(flags, "title"),
			Description: changedString(flags, "description"),
			Priority:    changedString(flags, "priority"),
			Category:    changedString(flags, "category"),
			Due:         changedString(flags, "due"),
			ClearDue:    clearDue,
			Completed:   changedBool(flags, "done"),
		}
		return r.runE("edit task", func(app *App) Command {
			return NewEditTaskCommand(app, opts)
		})(cmd, args)
	}

	doneCmd := &cobra.Command{
		Use:     "done <id>",
		Aliases: []string{"toggle"},
		Short:   "Toggle the completed flag of a task",
		Args:    cobra.ExactArgs(1),
		RunE: r.runE("toggle task", func(app *App) Command {
			return NewToggleTaskCommand(app)
		}),
	}

	deleteCmd := &cobra.Command{
		Use:     "delete <id>...",
		Aliases: []string{"rm"},
		Short:   "Delete tasks",
		Args:    cobra.MinimumNArgs(1),
		RunE: r.runE("delete task", func(app *App) Command {
			return NewDeleteTaskCommand(app)
		}),
	}

	taskCmd.AddCommand(addCmd, listCmd, dueCmd, showCmd, editCmd, doneCmd, deleteCmd)
	return taskCmd
}

// newCategoryCommand builds the category command group
func (r *RootCommand) newCategoryCommand() *cobra.Command {
	categoryCmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"categories", "c"},
		Short:   "Manage categories",
	}

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List categories with their number of active tasks",
		Args:    cobra.NoArgs,
		RunE: r.runE("list categories", func(app *App) Command {
			return NewListCategoriesCommand(app)
		}),
	}

	categoryFlags := func(cmd *cobra.Command, withName bool) {
		if withName {
			cmd.Flags().String("name", "", "New name")
		}
		cmd.Flags().String("color", "", "Color: blue, green, purple, red, yellow, pink, indigo or orange")
		cmd.Flags().String("icon", "", "Icon: List, Briefcase, User, Heart, Home, BookOpen or Gamepad2")
	}
	categoryOptions := func(cmd *cobra.Command) CategoryOptions {
		flags := cmd.Flags()
		opts := CategoryOptions{
			Color: changedString(flags, "color"),
			Icon:  changedString(flags, "icon"),
		}
		if flags.Lookup("name") != nil {
			opts.Name = changedString(flags, "name")
		}
		return opts
	}

	addCmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a category",
		Args:  cobra.MinimumNArgs(1),
	}
	categoryFlags(addCmd, false)
	addCmd.RunE = func(cmd *cobra.Command, args []string) error {
		opts := categoryOptions(cmd)
		return r.runE("add category", func(app *App) Command {
			return NewAddCategoryCommand(app, opts)
		})(cmd, args)
	}

	editCmd := &cobra.Command{
		Use:   "edit <id|name>",
		Short: "Edit a category",
		Args:  cobra.ExactArgs(1),
	}
	categoryFlags(editCmd, true)
	editCmd.RunE = func(cmd *cobra.Command, args []string) error {
		opts := categoryOptions(cmd)
		return r.runE("edit category", func(app *App) Command {
			return NewEditCategoryCommand(app, opts)
		})(cmd, args)
	}

	deleteCmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a category and move its tasks to the default category",
		Args:    cobra.ExactArgs(1),
		RunE: r.runE("delete category", func(app *App) Command {
			return NewDeleteCategoryCommand(app)
		}),
	}

	categoryCmd.AddCommand(listCmd, addCmd, editCmd, deleteCmd)
	return categoryCmd
}

// newSettingsCommand builds the settings command group
func (r *RootCommand) newSettingsCommand() *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change settings",
		Args:  cobra.NoArgs,
		RunE: r.runE("show settings", func(app *App) Command {
			return NewShowSettingsCommand(app)
		}),
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the settings",
		Args:  cobra.NoArgs,
		RunE: r.runE("show settings", func(app *App) Command {
			return NewShowSettingsCommand(app)
		}),
	}

	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Change settings",
		Long: `Change settings. Only the flags given are changed.

Examples:
  tm settings set --theme dark
  tm settings set --sort priority --notifications`,
		Args: cobra.NoArgs,
	}
	setCmd.Flags().String("theme", "", "Theme: light, dark or system")
	setCmd.Flags().String("sort", "", "Default sort order: date, priority or manual")
	setCmd.Flags().Bool("notifications", false, "Enable reminders (use --notifications=false to disable)")
	setCmd.RunE = func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		opts := SettingsOptions{
			Theme:         changedString(flags, "theme"),
			SortBy:        changedString(flags, "sort"),
			Notifications: changedBool(flags, "notifications"),
		}
		return r.runE("update settings", func(app *App) Command {
			return NewSetSettingsCommand(app, opts)
		})(cmd, args)
	}

	settingsCmd.AddCommand(showCmd, setCmd)
	return settingsCmd
}

func (r *RootCommand) newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "stats",
		Aliases: []string{"statistics"},
		Short:   "Show completion statistics",
		Args:    cobra.NoArgs,
		RunE: r.runE("compute statistics", func(app *App) Command {
			return NewStatsCommand(app)
		}),
	}
}

func (r *RootCommand) newExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file|-]",
		Short: "Export all data as a JSON backup",
		Long: `Export tasks, categories and settings as a JSON backup.

Without a file the backup is written to the export directory as tm-backup-YYYY-MM-DD.json.
Use "-" to write to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: r.runE("export data", func(app *App) Command {
			return NewExportCommand(app)
		}),
	}
}

func (r *RootCommand) newImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Import a JSON backup",
		Long: `Import a JSON backup. Collections present in the backup replace the stored
ones and collections absent from it are left untouched. Use "-" to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: r.runE("import data", func(app *App) Command {
			return NewImportCommand(app)
		}),
	}
}

func (r *RootCommand) newClearCommand() *cobra.Command {
	var opts ClearOptions
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all tasks, categories and settings",
		Args:  cobra.NoArgs,
		RunE: r.runE("clear data", func(app *App) Command {
			return NewClearCommand(app, opts)
		}),
	}
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func (r *RootCommand) newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show where data is stored and how much there is",
		Args:  cobra.NoArgs,
		RunE: r.runE("show data info", func(app *App) Command {
			return NewInfoCommand(app)
		}),
	}
}

func (r *RootCommand) newRemindCommand() *cobra.Command {
	var opts RemindOptions
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Report tasks that are due today or overdue",
		Long: `Report incomplete tasks that are due today or overdue while notifications are
enabled in settings. Without --once checks run on the reminder schedule until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if r.app == nil {
				return fmt.Errorf("application not initialized")
			}
			command := NewRemindCommand(r.app, opts)
			if opts.Once {
				return r.app.run("check reminders", command, args)
			}
			return r.app.runUntilInterrupted(cmd.Context(), "run reminders", command, args)
		},
	}
	cmd.Flags().BoolVar(&opts.Once, "once", false, "Run a single check and exit")
	cmd.Flags().StringVar(&opts.Schedule, "schedule", "", "Cron schedule (default: the configured reminder schedule)")
	return cmd
}
