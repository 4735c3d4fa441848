package cli

import (
	"context"
	"fmt"
	"strconv"
)

// StatsCommand handles the stats command
type StatsCommand struct {
	app *App
}

// NewStatsCommand creates a new stats command handler
func NewStatsCommand(app *App) *StatsCommand {
	return &StatsCommand{app: app}
}

// Execute runs the stats command
func (c *StatsCommand) Execute(ctx context.Context, args []string) error {
	stats, err := c.app.businessAPI.GetStatistics(ctx)
	if err != nil {
		return err
	}

	p, err := c.app.printer()
	if err != nil {
		return err
	}
	if !p.IsTable() {
		return p.Value(stats)
	}

	p.KeyValues([][2]string{
		{"Total", strconv.Itoa(stats.Total)},
		{"Completed", strconv.Itoa(stats.Completed)},
		{"Pending", strconv.Itoa(stats.Pending)},
		{"Completion rate", fmt.Sprintf("%d%%", stats.CompletionRate)},
		{"Open high", strconv.Itoa(stats.Priorities.High)},
		{"Open medium", strconv.Itoa(stats.Priorities.Medium)},
		{"Open low", strconv.Itoa(stats.Priorities.Low)},
	})

	if len(stats.Categories) > 0 {
		p.Println()
		rows := make([][]string, 0, len(stats.Categories))
		for _, category := range stats.Categories {
			rows = append(rows, []string{
				category.Name,
				strconv.Itoa(category.Total),
				strconv.Itoa(category.Completed),
				strconv.Itoa(category.Pending),
			})
		}
		p.Table([]string{"Category", "Total", "Completed", "Pending"}, rows)
	}

	p.Println()
	weekly := make([][]string, 0, len(stats.Weekly))
	for _, point := range stats.Weekly {
		weekly = append(weekly, []string{
			point.Label,
			c.app.timeService.FormatDate(point.Start),
			strconv.Itoa(point.Created),
			strconv.Itoa(point.Completed),
		})
	}
	p.Table([]string{"Week", "Starting", "Created", "Completed"}, weekly)

	p.Println()
	daily := make([][]string, 0, len(stats.Daily))
	for _, point := range stats.Daily {
		daily = append(daily, []string{point.Label, strconv.Itoa(point.Completed)})
	}
	p.Table([]string{"Day", "Completed"}, daily)

	if len(stats.Insights) > 0 {
		p.Println()
		for _, insight := range stats.Insights {
			p.Printf("* %s\n", insight.Message)
		}
	}
	return nil
}
