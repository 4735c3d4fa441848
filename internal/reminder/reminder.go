package reminder

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"task-manager/internal/api"
	"task-manager/internal/domain"
	"task-manager/internal/errors"
	"task-manager/internal/logging"
)

// DefaultSchedule runs the due check once an hour.
const DefaultSchedule = "@every 1h"

// Source supplies the settings and the tasks that are due.
type Source interface {
	GetSettings(ctx context.Context) (domain.Settings, error)
	DueTasks(ctx context.Context) ([]*api.TaskView, error)
}

// Notifier delivers a batch of due tasks.
type Notifier interface {
	Notify(ctx context.Context, due []*api.TaskView) error
}

// WriterNotifier prints due tasks as text lines.
type WriterNotifier struct {
	w   io.Writer
	now func() time.Time
}

// NewWriterNotifier creates a notifier writing to w.
func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w, now: time.Now}
}

func (n *WriterNotifier) Notify(ctx context.Context, due []*api.TaskView) error {
	if len(due) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(n.w, "[%s] %d task(s) need attention\n", n.now().Format("15:04"), len(due)); err != nil {
		return err
	}
	for _, view := range due {
		status := "due " + view.DueLabel
		if view.Overdue {
			status = "overdue since " + view.DueLabel
		}
		if _, err := fmt.Fprintf(n.w, "  - %s [%s, %s] %s\n", view.Task.Title, view.Task.Priority, view.CategoryName, status); err != nil {
			return err
		}
	}
	return nil
}

// Scheduler runs the due check on a cron schedule.
type Scheduler struct {
	source   Source
	notifier Notifier
	logger   *logging.Logger
	timeout  time.Duration
	location *time.Location

	mu      sync.Mutex
	cron    *cron.Cron
	entryID cron.EntryID
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the scheduler logger.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTimeout bounds each check.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Scheduler) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithLocation sets the time zone cron schedules are evaluated in.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		if loc != nil {
			s.location = loc
		}
	}
}

// NewScheduler creates a scheduler reading from source and notifying notifier.
func NewScheduler(source Source, notifier Notifier, opts ...Option) *Scheduler {
	s := &Scheduler{
		source:   source,
		notifier: notifier,
		logger:   logging.NewNop(),
		timeout:  30 * time.Second,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent("reminder")
	return s
}

// RunOnce performs a single check and returns how many tasks were reported.
// Nothing is reported while notifications are disabled.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	settings, err := s.source.GetSettings(ctx)
	if err != nil {
		return 0, err
	}
	if !settings.Notifications {
		s.logger.Debugw("Notifications disabled, skipping check")
		return 0, nil
	}

	due, err := s.source.DueTasks(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.notifier.Notify(ctx, due); err != nil {
		return 0, fmt.Errorf("failed to deliver reminder: %w", err)
	}
	s.logger.Debugw("Reminder check complete", "due", len(due))
	return len(due), nil
}

// Start schedules the check on spec and starts the cron runner. Standard
// five-field expressions and descriptors such as "@every 30m" are accepted.
func (s *Scheduler) Start(spec string) error {
	if spec == "" {
		spec = DefaultSchedule
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return errors.NewValidationError("reminder scheduler already started", nil)
	}

	c := cron.New(cron.WithLocation(s.location))
	id, err := c.AddFunc(spec, s.tick)
	if err != nil {
		return errors.NewInvalidInputError("schedule", spec, err.Error())
	}
	s.cron = c
	s.entryID = id
	c.Start()

	s.logger.Infow("Reminder scheduler started", "schedule", spec)
	return nil
}

// Next returns the next scheduled run, or the zero time when not started.
func (s *Scheduler) Next() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron == nil {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

// Stop stops the cron runner and waits for a running check to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
	s.logger.Infow("Reminder scheduler stopped")
}

func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.RunOnce(ctx); err != nil {
		s.logger.WithError(err).Errorw("Reminder check failed")
	}
}
