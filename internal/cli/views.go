package cli

import (
	"task-manager/internal/api"
	"task-manager/internal/domain"
	"task-manager/internal/repository"
	"task-manager/internal/services"
)

var mapper = repository.NewMapper()

// taskOutput is the JSON and YAML form of a task
type taskOutput struct {
	repository.TaskRecord `yaml:",inline"`
	CategoryName          string `json:"categoryName" yaml:"categoryName"`
	Overdue               bool   `json:"overdue" yaml:"overdue"`
	DueLabel              string `json:"dueLabel,omitempty" yaml:"dueLabel,omitempty"`
}

func newTaskOutput(view *api.TaskView) taskOutput {
	return taskOutput{
		TaskRecord:   mapper.Task.ToRecord(*view.Task),
		CategoryName: view.CategoryName,
		Overdue:      view.Overdue,
		DueLabel:     view.DueLabel,
	}
}

func newTaskOutputs(views []*api.TaskView) []taskOutput {
	result := make([]taskOutput, len(views))
	for i, view := range views {
		result[i] = newTaskOutput(view)
	}
	return result
}

// taskListOutput is the JSON and YAML form of the task list
type taskListOutput struct {
	Tasks  []taskOutput          `json:"tasks" yaml:"tasks"`
	Counts services.FilterCounts `json:"counts" yaml:"counts"`
	Filter services.TaskFilter   `json:"filter" yaml:"filter"`
	SortBy domain.SortBy         `json:"sortBy" yaml:"sortBy"`
	Query  string                `json:"query,omitempty" yaml:"query,omitempty"`
}

// categoryOutput is the JSON and YAML form of a category
type categoryOutput struct {
	repository.CategoryRecord `yaml:",inline"`
	ActiveTasks               int `json:"activeTasks" yaml:"activeTasks"`
}

func newCategoryOutputs(summaries []*services.CategorySummary) []categoryOutput {
	result := make([]categoryOutput, len(summaries))
	for i, summary := range summaries {
		result[i] = categoryOutput{
			CategoryRecord: mapper.Category.ToRecord(*summary.Category),
			ActiveTasks:    summary.ActiveTasks,
		}
	}
	return result
}

// infoOutput is the JSON and YAML form of the data summary
type infoOutput struct {
	Backend        string                    `json:"backend" yaml:"backend"`
	Location       string                    `json:"location" yaml:"location"`
	Tasks          int                       `json:"tasks" yaml:"tasks"`
	CompletedTasks int                       `json:"completedTasks" yaml:"completedTasks"`
	Categories     int                       `json:"categories" yaml:"categories"`
	Settings       repository.SettingsRecord `json:"settings" yaml:"settings"`
	Keys           []string                  `json:"keys" yaml:"keys"`
}

// categoryLabel renders a category as its name with the id
func categoryLabel(category *domain.Category) string {
	return category.Name + " (" + category.ID + ")"
}

func checkbox(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}
