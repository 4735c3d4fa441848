package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"task-manager/internal/api"
	"task-manager/internal/config"
	"task-manager/internal/logging"
	"task-manager/internal/services"
)

// App represents the main CLI application
type App struct {
	businessAPI  api.BusinessAPI
	timeService  services.TimeService
	config       *config.Config
	logger       *logging.Logger
	errorHandler *ErrorHandler
	out          io.Writer
	in           io.Reader
}

// AppOption configures an App.
type AppOption func(*App)

// WithOutput redirects command output, which goes to stdout by default.
func WithOutput(w io.Writer) AppOption {
	return func(a *App) {
		a.out = w
	}
}

// WithInput sets the reader confirmation prompts read from.
func WithInput(r io.Reader) AppOption {
	return func(a *App) {
		a.in = r
	}
}

// WithAppLogger sets the logger for failed commands and reminders.
func WithAppLogger(logger *logging.Logger) AppOption {
	return func(a *App) {
		a.logger = logger
	}
}

// NewApp creates a new CLI application instance with dependency injection
func NewApp(businessAPI api.BusinessAPI, timeService services.TimeService, cfg *config.Config, opts ...AppOption) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	app := &App{
		businessAPI:  businessAPI,
		timeService:  timeService,
		config:       cfg,
		logger:       logging.NewNop(),
		errorHandler: NewErrorHandler(),
		out:          os.Stdout,
		in:           os.Stdin,
	}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

// printer returns a printer for the configured output format
func (a *App) printer() (*Printer, error) {
	return NewPrinter(a.out, a.config.Commands.OutputFormat)
}

// timeout returns the configured application timeout
func (a *App) timeout() time.Duration {
	if a.config.Application.Timeout > 0 {
		return a.config.Application.Timeout
	}
	return 60 * time.Second
}

// run executes a command handler under the application timeout and turns
// failures into user-facing messages.
func (a *App) run(operation string, command Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout())
	defer cancel()

	if err := command.Execute(ctx, args); err != nil {
		return a.fail(operation, err)
	}
	return nil
}

// fail logs err by kind and converts it for display. Store failures are
// logged at error level since their user message hides the cause.
func (a *App) fail(operation string, err error) error {
	eh := a.errorHandler
	logger := a.logger.WithFields("operation", operation, "code", eh.GetErrorCode(err))
	switch {
	case eh.IsStorageError(err):
		logger.WithError(err).Errorw("Command failed")
	case eh.IsValidationError(err), eh.IsNotFoundError(err):
		logger.Debugw("Command rejected", "error", err.Error())
	default:
		logger.WithError(err).Warnw("Command failed")
	}
	return eh.Handle(operation, err)
}

// runUntilInterrupted executes a long-running command handler until ctx is
// cancelled or the process receives SIGINT or SIGTERM.
func (a *App) runUntilInterrupted(ctx context.Context, operation string, command Command, args []string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := command.Execute(ctx, args); err != nil {
		return a.fail(operation, err)
	}
	return nil
}
