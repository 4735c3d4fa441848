package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"task-manager/internal/config"
)

// AppFactory builds the application once flags are parsed. The returned
// cleanup func releases the store and flushes the logger.
type AppFactory func(ctx context.Context, configFile string, overrides *config.ConfigOverrides) (*App, func() error, error)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd     *cobra.Command
	factory AppFactory
	app     *App
	cleanup func() error
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(factory AppFactory) *RootCommand {
	root := &RootCommand{factory: factory}

	root.cmd = &cobra.Command{
		Use:   "tm",
		Short: "A command-line personal task manager",
		Long: `Task Manager (tm) keeps a personal task list with categories, due dates,
priorities and completion statistics.

FEATURES:
  • Add, edit, complete and delete tasks with priorities and due dates
  • Organise tasks into coloured categories
  • Filter by today, this week or completed and search by text
  • Completion statistics with weekly and daily trends
  • JSON backup export and import
  • Scheduled reminders for tasks that are due

EXAMPLES:
  tm task add "Write report" -p high -c Work --due tomorrow
  tm task list -f today                     # Incomplete tasks due today
  tm task list -s priority report           # Search "report", highest priority first
  tm task done <id>                         # Toggle completion
  tm category add Errands --color orange
  tm stats                                  # Completion statistics
  tm export                                 # Write tm-backup-YYYY-MM-DD.json
  tm import backup.json                     # Restore from a backup
  tm remind                                 # Run the reminder scheduler

CONFIGURATION:
  Configuration follows this priority order: command-line flags > environment variables
  (and .env) > config file (~/.tm/config.yaml) > defaults

  Storage Configuration:
    TM_STORE_BACKEND                       sqlite, redis or memory (default: sqlite)
    TM_STORE_KEY_PREFIX                    Key prefix for stored collections (default: tm)
    TM_DB_DIR                              Database directory (default: ~/.tm)
    TM_DB_FILENAME                         Database filename (default: tm.db)
    TM_REDIS_ADDR                          Redis address (default: localhost:6379)

  Calendar Configuration:
    TM_TIMEZONE                            Time zone for today and this week (default: Local)
    TM_WEEK_START                          First day of the week (default: saturday)

  Application Configuration:
    TM_APP_TIMEOUT                         Application timeout (default: 60s)
    TM_OUTPUT_FORMAT                       table, json or yaml (default: table)
    TM_EXPORT_DIR                          Directory for backups (default: .)
    TM_REMINDER_SCHEDULE                   Cron schedule for reminders (default: @every 1h)
    TM_LOG_LEVEL                           debug, info, warn or error (default: warn)

GETTING HELP:
  tm [command] --help                      # Get help for any specific command
  tm completion bash                       # Generate bash completion script`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.setup(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return root.teardown()
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// NewRootCommandWithApp creates a root command around an already built
// application. Flags that affect output still apply.
func NewRootCommandWithApp(app *App) *RootCommand {
	return NewRootCommand(func(ctx context.Context, configFile string, overrides *config.ConfigOverrides) (*App, func() error, error) {
		if overrides.OutputFormat != nil {
			app.config.Commands.OutputFormat = *overrides.OutputFormat
		}
		if overrides.Timeout != nil {
			app.config.Application.Timeout = *overrides.Timeout
		}
		return app, nil, nil
	})
}

// Execute runs the root command
func (r *RootCommand) Execute() error {
	return r.cmd.Execute()
}

// ExecuteContext runs the root command with ctx
func (r *RootCommand) ExecuteContext(ctx context.Context) error {
	return r.cmd.ExecuteContext(ctx)
}

// Command exposes the underlying cobra command
func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

// SetArgs sets the arguments parsed by Execute
func (r *RootCommand) SetArgs(args []string) {
	r.cmd.SetArgs(args)
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("config", "", "Config file (default: ~/.tm/config.yaml)")

	// Storage configuration
	flags.String("backend", "", "Store backend: sqlite, redis or memory (overrides TM_STORE_BACKEND)")
	flags.String("key-prefix", "", "Key prefix for stored collections (overrides TM_STORE_KEY_PREFIX)")
	flags.String("db-dir", "", "Database directory (overrides TM_DB_DIR)")
	flags.String("db-file", "", "Database filename (overrides TM_DB_FILENAME)")
	flags.String("redis-addr", "", "Redis address (overrides TM_REDIS_ADDR)")

	// Calendar configuration
	flags.String("timezone", "", "Time zone used for today and this week (overrides TM_TIMEZONE)")
	flags.String("week-start", "", "First day of the week (overrides TM_WEEK_START)")

	// Application configuration
	flags.Duration("timeout", 0, "Application timeout (overrides TM_APP_TIMEOUT)")
	flags.Bool("verbose", false, "Enable verbose output (overrides TM_APP_VERBOSE)")
	flags.StringP("output", "o", "", "Output format: table, json or yaml (overrides TM_OUTPUT_FORMAT)")
	flags.String("reminder-schedule", "", "Cron schedule for reminders (overrides TM_REMINDER_SCHEDULE)")
	flags.String("log-level", "", "Log level (overrides TM_LOG_LEVEL)")
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	r.cmd.AddCommand(
		r.newTaskCommand(),
		r.newCategoryCommand(),
		r.newSettingsCommand(),
		r.newStatsCommand(),
		r.newExportCommand(),
		r.newImportCommand(),
		r.newClearCommand(),
		r.newInfoCommand(),
		r.newRemindCommand(),
	)
}

// setup builds the application on first use
func (r *RootCommand) setup(ctx context.Context) error {
	if r.app != nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	configFile, _ := r.cmd.PersistentFlags().GetString("config")
	app, cleanup, err := r.factory(ctx, configFile, r.getOverridesFromFlags())
	if err != nil {
		return err
	}
	r.app = app
	r.cleanup = cleanup
	return nil
}

// teardown releases what setup acquired
func (r *RootCommand) teardown() error {
	if r.cleanup == nil {
		return nil
	}
	cleanup := r.cleanup
	r.cleanup = nil
	if err := cleanup(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	return nil
}

// getOverridesFromFlags collects the global flags that were set explicitly
func (r *RootCommand) getOverridesFromFlags() *config.ConfigOverrides {
	flags := r.cmd.PersistentFlags()
	overrides := &config.ConfigOverrides{}

	stringFlag := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		value, _ := flags.GetString(name)
		return &value
	}

	overrides.Backend = stringFlag("backend")
	overrides.KeyPrefix = stringFlag("key-prefix")
	overrides.DBDir = stringFlag("db-dir")
	overrides.DBFile = stringFlag("db-file")
	overrides.RedisAddr = stringFlag("redis-addr")
	overrides.Timezone = stringFlag("timezone")
	overrides.WeekStart = stringFlag("week-start")
	overrides.OutputFormat = stringFlag("output")
	overrides.ReminderSchedule = stringFlag("reminder-schedule")
	overrides.LogLevel = stringFlag("log-level")

	if flags.Changed("timeout") {
		timeout, _ := flags.GetDuration("timeout")
		overrides.Timeout = &timeout
	}
	if flags.Changed("verbose") {
		verbose, _ := flags.GetBool("verbose")
		overrides.Verbose = &verbose
	}

	return overrides
}

// runE adapts a command handler constructor to a cobra RunE func
func (r *RootCommand) runE(operation string, build func(app *App) Command) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if r.app == nil {
			return fmt.Errorf("application not initialized")
		}
		return r.app.run(operation, build(r.app), args)
	}
}
