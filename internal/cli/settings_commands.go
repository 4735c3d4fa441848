package cli

import (
	"context"
	"strings"

	"task-manager/internal/domain"
	"task-manager/internal/errors"
)

// ShowSettingsCommand handles the settings show command
type ShowSettingsCommand struct {
	app *App
}

// NewShowSettingsCommand creates a new settings show command handler
func NewShowSettingsCommand(app *App) *ShowSettingsCommand {
	return &ShowSettingsCommand{app: app}
}

// Execute runs the settings show command
func (c *ShowSettingsCommand) Execute(ctx context.Context, args []string) error {
	settings, err := c.app.businessAPI.GetSettings(ctx)
	if err != nil {
		return err
	}
	return c.app.printSettings(settings)
}

// SettingsOptions holds the flags of the settings set command. Nil fields
// were not given.
type SettingsOptions struct {
	Theme         *string
	SortBy        *string
	Notifications *bool
}

// SetSettingsCommand handles the settings set command
type SetSettingsCommand struct {
	app  *App
	opts SettingsOptions
}

// NewSetSettingsCommand creates a new settings set command handler
func NewSetSettingsCommand(app *App, opts SettingsOptions) *SetSettingsCommand {
	return &SetSettingsCommand{app: app, opts: opts}
}

// Execute runs the settings set command
func (c *SetSettingsCommand) Execute(ctx context.Context, args []string) error {
	patch := domain.SettingsPatch{Notifications: c.opts.Notifications}
	if c.opts.Theme != nil {
		theme := domain.Theme(strings.ToLower(strings.TrimSpace(*c.opts.Theme)))
		patch.Theme = &theme
	}
	if c.opts.SortBy != nil {
		sortBy := domain.SortBy(strings.ToLower(strings.TrimSpace(*c.opts.SortBy)))
		patch.SortBy = &sortBy
	}
	if patch.Theme == nil && patch.SortBy == nil && patch.Notifications == nil {
		return errors.NewInvalidInputError("settings", nil, "no changes given, use --theme, --sort or --notifications")
	}

	settings, err := c.app.businessAPI.UpdateSettings(ctx, patch)
	if err != nil {
		return err
	}
	return c.app.printSettings(settings)
}

func (a *App) printSettings(settings domain.Settings) error {
	p, err := a.printer()
	if err != nil {
		return err
	}
	if !p.IsTable() {
		return p.Value(mapper.Settings.ToRecord(settings))
	}
	p.KeyValues([][2]string{
		{"Theme", string(settings.Theme)},
		{"Sort by", string(settings.SortBy)},
		{"Notifications", onOff(settings.Notifications)},
	})
	return nil
}
