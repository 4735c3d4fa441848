package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"task-manager/internal/config"
	"task-manager/internal/errors"
)

// stdio is the file argument that selects stdin or stdout
const stdio = "-"

// ExportCommand handles the export command
type ExportCommand struct {
	app *App
}

// NewExportCommand creates a new export command handler
func NewExportCommand(app *App) *ExportCommand {
	return &ExportCommand{app: app}
}

// Execute runs the export command. Without a file argument the backup is
// written to the export directory under the dated default name.
func (c *ExportCommand) Execute(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return errors.NewInvalidInputError("file", args, "usage: tm export [file|-]")
	}

	var path string
	if len(args) == 1 {
		path = args[0]
	}
	if path == stdio {
		return c.app.businessAPI.Export(ctx, c.app.out)
	}
	if path == "" {
		path = filepath.Join(c.app.config.Commands.ExportDir, c.app.businessAPI.ExportFileName())
	}

	if err := c.writeFile(ctx, path); err != nil {
		return err
	}

	p, err := c.app.printer()
	if err != nil {
		return err
	}
	return p.Result(map[string]string{"file": path}, "Exported data to %s", path)
}

func (c *ExportCommand) writeFile(ctx context.Context, path string) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to write export file: %w", closeErr)
		}
	}()
	return c.app.businessAPI.Export(ctx, file)
}

// ImportCommand handles the import command
type ImportCommand struct {
	app *App
}

// NewImportCommand creates a new import command handler
func NewImportCommand(app *App) *ImportCommand {
	return &ImportCommand{app: app}
}

// Execute runs the import command
func (c *ImportCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("file", args, "usage: tm import <file|->")
	}

	var r io.Reader = c.app.in
	if args[0] != stdio {
		file, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open import file: %w", err)
		}
		defer file.Close()
		r = file
	}

	result, err := c.app.businessAPI.Import(ctx, r)
	if err != nil {
		return err
	}

	p, err := c.app.printer()
	if err != nil {
		return err
	}
	if !p.IsTable() {
		return p.Value(result)
	}

	var parts []string
	if result.TasksWritten {
		parts = append(parts, fmt.Sprintf("%d task(s)", result.Tasks))
	}
	if result.CategoriesWritten {
		parts = append(parts, fmt.Sprintf("%d categories", result.Categories))
	}
	if result.SettingsWritten {
		parts = append(parts, "settings")
	}
	if len(parts) == 0 {
		p.Println("Nothing to import")
		return nil
	}
	p.Printf("Imported %s\n", strings.Join(parts, ", "))
	if result.RepairedReferences > 0 {
		p.Printf("%d task(s) referenced missing categories and were moved to the default category\n", result.RepairedReferences)
	}
	return nil
}

// ClearOptions holds the flags of the clear command
type ClearOptions struct {
	Yes bool
}

// ClearCommand handles the clear command
type ClearCommand struct {
	app  *App
	opts ClearOptions
}

// NewClearCommand creates a new clear command handler
func NewClearCommand(app *App, opts ClearOptions) *ClearCommand {
	return &ClearCommand{app: app, opts: opts}
}

// Execute runs the clear command, asking for confirmation unless --yes is given
func (c *ClearCommand) Execute(ctx context.Context, args []string) error {
	p, err := c.app.printer()
	if err != nil {
		return err
	}

	if !c.opts.Yes {
		p.Printf("This deletes all tasks, categories and settings. Continue? [y/N]: ")
		reader := bufio.NewReader(c.app.in)
		answer, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			p.Println("Clear cancelled.")
			return nil
		}
	}

	if err := c.app.businessAPI.ClearAll(ctx); err != nil {
		return err
	}
	return p.Result(map[string]bool{"cleared": true}, "All data cleared")
}

// InfoCommand handles the info command
type InfoCommand struct {
	app *App
}

// NewInfoCommand creates a new info command handler
func NewInfoCommand(app *App) *InfoCommand {
	return &InfoCommand{app: app}
}

// Execute runs the info command
func (c *InfoCommand) Execute(ctx context.Context, args []string) error {
	info, err := c.app.businessAPI.GetDataInfo(ctx)
	if err != nil {
		return err
	}

	storage := c.app.config.Storage
	out := infoOutput{
		Backend:        storage.Backend,
		Location:       storeLocation(c.app.config),
		Tasks:          info.Tasks,
		CompletedTasks: info.CompletedTasks,
		Categories:     info.Categories,
		Settings:       mapper.Settings.ToRecord(info.Settings),
		Keys:           info.Keys,
	}

	p, err := c.app.printer()
	if err != nil {
		return err
	}
	if !p.IsTable() {
		return p.Value(out)
	}
	p.KeyValues([][2]string{
		{"Backend", out.Backend},
		{"Location", out.Location},
		{"Key prefix", storage.KeyPrefix},
		{"Tasks", fmt.Sprintf("%d (%d completed)", out.Tasks, out.CompletedTasks)},
		{"Categories", fmt.Sprintf("%d", out.Categories)},
		{"Theme", string(info.Settings.Theme)},
		{"Sort by", string(info.Settings.SortBy)},
		{"Notifications", onOff(info.Settings.Notifications)},
		{"Stored keys", storedKeys(info.Keys)},
	})
	return nil
}

func storedKeys(keys []string) string {
	if len(keys) == 0 {
		return "none"
	}
	return strings.Join(keys, ", ")
}

func storeLocation(cfg *config.Config) string {
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		return cfg.Storage.RedisAddr
	case config.BackendMemory:
		return "in-memory"
	default:
		return cfg.GetDatabasePath()
	}
}
