package services

import (
	"context"
	"io"
	"time"

	"task-manager/internal/domain"
	"task-manager/internal/repository"
)

// TaskFilter selects which tasks the task list shows.
type TaskFilter string

const (
	// FilterAll shows every incomplete task.
	FilterAll       TaskFilter = "all"
	FilterToday     TaskFilter = "today"
	FilterWeek      TaskFilter = "week"
	FilterCompleted TaskFilter = "completed"
)

// Filters lists the task filters in display order.
func Filters() []TaskFilter {
	return []TaskFilter{FilterAll, FilterToday, FilterWeek, FilterCompleted}
}

// IsValid reports whether f is a known filter.
func (f TaskFilter) IsValid() bool {
	switch f {
	case FilterAll, FilterToday, FilterWeek, FilterCompleted:
		return true
	}
	return false
}

// TimeRange represents a half-open time range [Start, End)
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the range.
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// ListOptions controls how a task list is searched, filtered and sorted.
type ListOptions struct {
	Query  string
	Filter TaskFilter
	SortBy domain.SortBy
}

// FilterCounts holds the number of tasks each filter would show.
type FilterCounts struct {
	All       int `json:"all" yaml:"all"`
	Today     int `json:"today" yaml:"today"`
	Week      int `json:"week" yaml:"week"`
	Completed int `json:"completed" yaml:"completed"`
}

// Get returns the count for filter f.
func (c FilterCounts) Get(f TaskFilter) int {
	switch f {
	case FilterToday:
		return c.Today
	case FilterWeek:
		return c.Week
	case FilterCompleted:
		return c.Completed
	default:
		return c.All
	}
}

// CategorySummary pairs a category with its number of incomplete tasks.
type CategorySummary struct {
	Category    *domain.Category `json:"category" yaml:"category"`
	ActiveTasks int              `json:"activeTasks" yaml:"activeTasks"`
}

// PriorityBreakdown counts incomplete tasks per priority.
type PriorityBreakdown struct {
	High   int `json:"high" yaml:"high"`
	Medium int `json:"medium" yaml:"medium"`
	Low    int `json:"low" yaml:"low"`
}

// CategoryStats holds per-category totals.
type CategoryStats struct {
	CategoryID string       `json:"categoryId" yaml:"categoryId"`
	Name       string       `json:"name" yaml:"name"`
	Color      domain.Color `json:"color" yaml:"color"`
	Total      int          `json:"total" yaml:"total"`
	Completed  int          `json:"completed" yaml:"completed"`
	Pending    int          `json:"pending" yaml:"pending"`
}

// WeeklyPoint counts tasks created in one week and how many of them are done.
type WeeklyPoint struct {
	Label     string    `json:"label" yaml:"label"`
	Start     time.Time `json:"start" yaml:"start"`
	Created   int       `json:"created" yaml:"created"`
	Completed int       `json:"completed" yaml:"completed"`
}

// DailyPoint counts completed tasks last updated on one day.
type DailyPoint struct {
	Label     string    `json:"label" yaml:"label"`
	Date      time.Time `json:"date" yaml:"date"`
	Completed int       `json:"completed" yaml:"completed"`
}

// InsightKind names a statistics insight.
type InsightKind string

const (
	InsightExcellent           InsightKind = "excellent"
	InsightHighPriorityBacklog InsightKind = "high_priority_backlog"
	InsightAllDone             InsightKind = "all_done"
)

// Insight is a short observation about the statistics.
type Insight struct {
	Kind    InsightKind `json:"kind" yaml:"kind"`
	Message string      `json:"message" yaml:"message"`
}

// Statistics aggregates the task collection.
type Statistics struct {
	Total          int               `json:"total" yaml:"total"`
	Completed      int               `json:"completed" yaml:"completed"`
	Pending        int               `json:"pending" yaml:"pending"`
	CompletionRate int               `json:"completionRate" yaml:"completionRate"`
	Priorities     PriorityBreakdown `json:"priorities" yaml:"priorities"`
	Categories     []CategoryStats   `json:"categories" yaml:"categories"`
	Weekly         []WeeklyPoint     `json:"weekly" yaml:"weekly"`
	Daily          []DailyPoint      `json:"daily" yaml:"daily"`
	Insights       []Insight         `json:"insights" yaml:"insights"`
}

// ExportDocument is the backup file format. Nil fields are absent from
// the document and are left untouched on import.
type ExportDocument struct {
	Tasks      *[]repository.TaskRecord     `json:"tasks,omitempty"`
	Categories *[]repository.CategoryRecord `json:"categories,omitempty"`
	Settings   *repository.SettingsRecord   `json:"settings,omitempty"`
	ExportDate string                       `json:"exportDate,omitempty"`
}

// ImportResult describes what an import wrote.
type ImportResult struct {
	Tasks              int  `json:"tasks" yaml:"tasks"`
	Categories         int  `json:"categories" yaml:"categories"`
	TasksWritten       bool `json:"tasksWritten" yaml:"tasksWritten"`
	CategoriesWritten  bool `json:"categoriesWritten" yaml:"categoriesWritten"`
	SettingsWritten    bool `json:"settingsWritten" yaml:"settingsWritten"`
	RepairedReferences int  `json:"repairedReferences" yaml:"repairedReferences"`
}

// TimeService provides the calendar used by filters and statistics
type TimeService interface {
	Now() time.Time
	Location() *time.Location
	WeekStart() time.Weekday
	DayOf(t time.Time) TimeRange
	WeekOf(t time.Time) TimeRange
	Today() TimeRange
	CurrentWeek() TimeRange
	IsToday(t time.Time) bool
	IsThisWeek(t time.Time) bool
	IsOverdue(task *domain.Task) bool
	DueLabel(due time.Time) string
	ParseDate(value string) (time.Time, error)
	FormatDate(t time.Time) string
	FormatDateTime(t time.Time) string
}

// TaskService handles task-related business logic
type TaskService interface {
	CreateTask(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error)
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	ListTasks(ctx context.Context) ([]*domain.Task, error)
	UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)
	ToggleTask(ctx context.Context, id string) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// CategoryService handles category business logic
type CategoryService interface {
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	CreateCategory(ctx context.Context, draft domain.CategoryDraft) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id string, draft domain.CategoryDraft) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) (int, error)
}

// SettingsService handles the display preferences
type SettingsService interface {
	GetSettings(ctx context.Context) (domain.Settings, error)
	UpdateSettings(ctx context.Context, patch domain.SettingsPatch) (domain.Settings, error)
}

// SearchService handles search, filtering and ordering of task lists
type SearchService interface {
	Search(tasks []*domain.Task, query string) []*domain.Task
	Filter(tasks []*domain.Task, filter TaskFilter) []*domain.Task
	CountByFilter(tasks []*domain.Task) FilterCounts
	Sort(tasks []*domain.Task, sortBy domain.SortBy) []*domain.Task
	List(tasks []*domain.Task, opts ListOptions) []*domain.Task
}

// ReportingService handles statistics over the task collection
type ReportingService interface {
	ActiveCounts(tasks []*domain.Task, categories []*domain.Category) map[string]int
	CategorySummaries(tasks []*domain.Task, categories []*domain.Category) []*CategorySummary
	Statistics(tasks []*domain.Task, categories []*domain.Category) *Statistics
}

// TransferService handles backup export and import
type TransferService interface {
	Export(ctx context.Context) (*ExportDocument, error)
	WriteExport(ctx context.Context, w io.Writer) error
	ExportFileName() string
	Import(ctx context.Context, r io.Reader) (*ImportResult, error)
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	TimeService      TimeService
	TaskService      TaskService
	CategoryService  CategoryService
	SettingsService  SettingsService
	SearchService    SearchService
	ReportingService ReportingService
	TransferService  TransferService
}

// NewServiceContainer wires the services around one repository.
func NewServiceContainer(repo repository.Repository, timeService TimeService, opts ...ServiceOption) *ServiceContainer {
	o := serviceOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	return &ServiceContainer{
		TimeService:      timeService,
		TaskService:      NewTaskService(repo, o.taskValidator),
		CategoryService:  NewCategoryService(repo, o.categoryValidator),
		SettingsService:  NewSettingsService(repo, o.settingsValidator),
		SearchService:    NewSearchService(timeService),
		ReportingService: NewReportingService(timeService),
		TransferService:  NewTransferService(repo, timeService),
	}
}
