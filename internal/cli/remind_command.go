package cli

import (
	"context"

	"task-manager/internal/reminder"
)

// RemindOptions holds the flags of the remind command
type RemindOptions struct {
	Once     bool
	Schedule string
}

// RemindCommand handles the remind command
type RemindCommand struct {
	app  *App
	opts RemindOptions
}

// NewRemindCommand creates a new remind command handler
func NewRemindCommand(app *App, opts RemindOptions) *RemindCommand {
	return &RemindCommand{app: app, opts: opts}
}

// Execute runs the remind command. With --once a single check is made,
// otherwise checks run on the schedule until ctx is cancelled.
func (c *RemindCommand) Execute(ctx context.Context, args []string) error {
	scheduler := reminder.NewScheduler(
		c.app.businessAPI,
		reminder.NewWriterNotifier(c.app.out),
		reminder.WithLogger(c.app.logger),
		reminder.WithTimeout(c.app.timeout()),
		reminder.WithLocation(c.app.timeService.Location()),
	)

	p, err := c.app.printer()
	if err != nil {
		return err
	}

	if c.opts.Once {
		count, err := scheduler.RunOnce(ctx)
		if err != nil {
			return err
		}
		if count == 0 {
			settings, err := c.app.businessAPI.GetSettings(ctx)
			if err != nil {
				return err
			}
			if !settings.Notifications {
				p.Println("Notifications are off, enable them with: tm settings set --notifications")
				return nil
			}
			p.Println("Nothing due")
		}
		return nil
	}

	schedule := c.opts.Schedule
	if schedule == "" {
		schedule = c.app.config.Reminder.Schedule
	}
	if err := scheduler.Start(schedule); err != nil {
		return err
	}
	defer scheduler.Stop()

	p.Printf("Reminders scheduled (%s), next check at %s. Press Ctrl+C to stop.\n",
		schedule, c.app.timeService.FormatDateTime(scheduler.Next()))
	<-ctx.Done()
	return nil
}
