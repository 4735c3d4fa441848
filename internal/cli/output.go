package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"task-manager/internal/errors"
)

// Command represents a CLI command handler
type Command interface {
	Execute(ctx context.Context, args []string) error
}

// Output formats accepted by --output.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Printer renders command results as a table, JSON or YAML
type Printer struct {
	w      io.Writer
	format string
}

// NewPrinter creates a printer for format. An empty format selects table.
func NewPrinter(w io.Writer, format string) (*Printer, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "":
		format = FormatTable
	case FormatTable, FormatJSON, FormatYAML:
	default:
		return nil, errors.NewInvalidInputError("output", format, "must be one of table, json, yaml")
	}
	return &Printer{w: w, format: format}, nil
}

// IsTable reports whether results are rendered for people rather than tools
func (p *Printer) IsTable() bool {
	return p.format == FormatTable
}

// Table renders rows under headers
func (p *Printer) Table(headers []string, rows [][]string) {
	table := tablewriter.NewWriter(p.w)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	table.AppendBulk(rows)
	table.Render()
}

// KeyValues renders pairs as a two-column table
func (p *Printer) KeyValues(pairs [][2]string) {
	rows := make([][]string, len(pairs))
	for i, pair := range pairs {
		rows[i] = []string{pair[0], pair[1]}
	}
	table := tablewriter.NewWriter(p.w)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	table.AppendBulk(rows)
	table.Render()
}

// Value encodes v as JSON or YAML
func (p *Printer) Value(v interface{}) error {
	switch p.format {
	case FormatYAML:
		encoder := yaml.NewEncoder(p.w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return encoder.Close()
	default:
		encoder := json.NewEncoder(p.w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	}
}

// Println writes a line of text
func (p *Printer) Println(args ...interface{}) {
	fmt.Fprintln(p.w, args...)
}

// Printf writes formatted text
func (p *Printer) Printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, format, args...)
}

// Result prints message in table mode and v otherwise
func (p *Printer) Result(v interface{}, format string, args ...interface{}) error {
	if p.IsTable() {
		p.Printf(format+"\n", args...)
		return nil
	}
	return p.Value(v)
}
