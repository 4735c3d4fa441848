package api

import (
	"context"
	"io"

	"task-manager/internal/domain"
	"task-manager/internal/errors"
	"task-manager/internal/logging"
	"task-manager/internal/repository"
	"task-manager/internal/services"
)

// TaskView is a task together with the values the task list derives for it
type TaskView struct {
	Task         *domain.Task `json:"task" yaml:"task"`
	CategoryName string       `json:"categoryName" yaml:"categoryName"`
	Overdue      bool         `json:"overdue" yaml:"overdue"`
	DueLabel     string       `json:"dueLabel,omitempty" yaml:"dueLabel,omitempty"`
}

// TaskQuery selects the tasks shown by ListTasks. A nil SortBy uses the
// sort order from the settings.
type TaskQuery struct {
	Query  string
	Filter services.TaskFilter
	SortBy *domain.SortBy
}

// TaskList is one page of the task list view
type TaskList struct {
	Tasks  []*TaskView           `json:"tasks" yaml:"tasks"`
	Counts services.FilterCounts `json:"counts" yaml:"counts"`
	Filter services.TaskFilter   `json:"filter" yaml:"filter"`
	SortBy domain.SortBy         `json:"sortBy" yaml:"sortBy"`
	Query  string                `json:"query,omitempty" yaml:"query,omitempty"`
}

// DataInfo summarises what is stored
type DataInfo struct {
	Tasks          int             `json:"tasks" yaml:"tasks"`
	CompletedTasks int             `json:"completedTasks" yaml:"completedTasks"`
	Categories     int             `json:"categories" yaml:"categories"`
	Settings       domain.Settings `json:"settings" yaml:"settings"`
	Keys           []string        `json:"keys" yaml:"keys"`
}

// BusinessAPI defines the operations the command line exposes
type BusinessAPI interface {
	// ========== Task Workflows ==========

	// CreateTask validates and stores a new task
	CreateTask(ctx context.Context, draft domain.TaskDraft) (*TaskView, error)

	// GetTask returns a single task by ID
	GetTask(ctx context.Context, id string) (*TaskView, error)

	// EditTask applies a partial update to a task
	EditTask(ctx context.Context, id string, patch domain.TaskPatch) (*TaskView, error)

	// ToggleTask flips the completed flag of a task
	ToggleTask(ctx context.Context, id string) (*TaskView, error)

	// DeleteTask removes a task; unknown ids are ignored
	DeleteTask(ctx context.Context, id string) error

	// ListTasks searches, filters and sorts the task list
	ListTasks(ctx context.Context, query TaskQuery) (*TaskList, error)

	// DueTasks returns incomplete tasks that are due today or overdue
	DueTasks(ctx context.Context) ([]*TaskView, error)

	// ========== Category Workflows ==========

	// ListCategories returns every category with its active task count
	ListCategories(ctx context.Context) ([]*services.CategorySummary, error)

	CreateCategory(ctx context.Context, draft domain.CategoryDraft) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id string, draft domain.CategoryDraft) (*domain.Category, error)

	// DeleteCategory removes a category and returns how many tasks moved to
	// the default category
	DeleteCategory(ctx context.Context, id string) (int, error)

	// ========== Settings ==========

	GetSettings(ctx context.Context) (domain.Settings, error)
	UpdateSettings(ctx context.Context, patch domain.SettingsPatch) (domain.Settings, error)

	// ========== Statistics and Data Management ==========

	// GetStatistics returns the aggregate statistics view
	GetStatistics(ctx context.Context) (*services.Statistics, error)

	// Export writes a backup document to w
	Export(ctx context.Context, w io.Writer) error

	// ExportFileName returns the default backup file name
	ExportFileName() string

	// Import restores the collections present in a backup document
	Import(ctx context.Context, r io.Reader) (*services.ImportResult, error)

	// ClearAll removes every stored collection
	ClearAll(ctx context.Context) error

	// GetDataInfo returns record counts, the stored keys and the current settings
	GetDataInfo(ctx context.Context) (*DataInfo, error)
}

// businessAPIImpl implements the BusinessAPI interface
type businessAPIImpl struct {
	repo     repository.Repository
	services *services.ServiceContainer
	logger   *logging.Logger
}

// NewBusinessAPI creates a new BusinessAPI instance
func NewBusinessAPI(repo repository.Repository, container *services.ServiceContainer, logger *logging.Logger) BusinessAPI {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &businessAPIImpl{
		repo:     repo,
		services: container,
		logger:   logger.WithComponent("api"),
	}
}

// ========== Task Workflows ==========

func (b *businessAPIImpl) CreateTask(ctx context.Context, draft domain.TaskDraft) (*TaskView, error) {
	task, err := b.services.TaskService.CreateTask(ctx, draft)
	if err != nil {
		return nil, err
	}
	b.logger.LogAction("task created", map[string]interface{}{"id": task.ID, "category": task.Category})
	return b.viewOne(ctx, task)
}

func (b *businessAPIImpl) GetTask(ctx context.Context, id string) (*TaskView, error) {
	task, err := b.services.TaskService.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	return b.viewOne(ctx, task)
}

func (b *businessAPIImpl) EditTask(ctx context.Context, id string, patch domain.TaskPatch) (*TaskView, error) {
	task, err := b.services.TaskService.UpdateTask(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	b.logger.LogAction("task updated", map[string]interface{}{"id": task.ID})
	return b.viewOne(ctx, task)
}

func (b *businessAPIImpl) ToggleTask(ctx context.Context, id string) (*TaskView, error) {
	task, err := b.services.TaskService.ToggleTask(ctx, id)
	if err != nil {
		return nil, err
	}
	b.logger.LogAction("task toggled", map[string]interface{}{"id": task.ID, "completed": task.Completed})
	return b.viewOne(ctx, task)
}

func (b *businessAPIImpl) DeleteTask(ctx context.Context, id string) error {
	if err := b.services.TaskService.DeleteTask(ctx, id); err != nil {
		return err
	}
	b.logger.LogAction("task deleted", map[string]interface{}{"id": id})
	return nil
}

func (b *businessAPIImpl) ListTasks(ctx context.Context, query TaskQuery) (*TaskList, error) {
	if query.Filter == "" {
		query.Filter = services.FilterAll
	}
	if !query.Filter.IsValid() {
		return nil, errors.NewInvalidInputError("filter", query.Filter, "must be one of all, today, week, completed")
	}

	var sortBy domain.SortBy
	if query.SortBy != nil {
		sortBy = *query.SortBy
		if !sortBy.IsValid() {
			return nil, errors.NewInvalidInputError("sort", sortBy, "must be one of date, priority, manual")
		}
	} else {
		settings, err := b.services.SettingsService.GetSettings(ctx)
		if err != nil {
			return nil, err
		}
		sortBy = settings.SortBy
	}

	tasks, err := b.services.TaskService.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := b.services.CategoryService.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	search := b.services.SearchService
	listed := search.List(tasks, services.ListOptions{Query: query.Query, Filter: query.Filter, SortBy: sortBy})
	return &TaskList{
		Tasks:  b.views(listed, categories),
		Counts: search.CountByFilter(tasks),
		Filter: query.Filter,
		SortBy: sortBy,
		Query:  query.Query,
	}, nil
}

func (b *businessAPIImpl) DueTasks(ctx context.Context) ([]*TaskView, error) {
	tasks, err := b.services.TaskService.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := b.services.CategoryService.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	timeService := b.services.TimeService
	var due []*domain.Task
	for _, task := range tasks {
		if task.Completed || !task.HasDueDate() {
			continue
		}
		if timeService.IsOverdue(task) || timeService.IsToday(*task.DueDate) {
			due = append(due, task)
		}
	}
	return b.views(b.services.SearchService.Sort(due, domain.SortByDate), categories), nil
}

// ========== Category Workflows ==========

func (b *businessAPIImpl) ListCategories(ctx context.Context) ([]*services.CategorySummary, error) {
	categories, err := b.services.CategoryService.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := b.services.TaskService.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.ReportingService.CategorySummaries(tasks, categories), nil
}

func (b *businessAPIImpl) CreateCategory(ctx context.Context, draft domain.CategoryDraft) (*domain.Category, error) {
	category, err := b.services.CategoryService.CreateCategory(ctx, draft)
	if err != nil {
		return nil, err
	}
	b.logger.LogAction("category created", map[string]interface{}{"id": category.ID, "name": category.Name})
	return category, nil
}

func (b *businessAPIImpl) UpdateCategory(ctx context.Context, id string, draft domain.CategoryDraft) (*domain.Category, error) {
	category, err := b.services.CategoryService.UpdateCategory(ctx, id, draft)
	if err != nil {
		return nil, err
	}
	b.logger.LogAction("category updated", map[string]interface{}{"id": category.ID})
	return category, nil
}

func (b *businessAPIImpl) DeleteCategory(ctx context.Context, id string) (int, error) {
	moved, err := b.services.CategoryService.DeleteCategory(ctx, id)
	if err != nil {
		return 0, err
	}
	b.logger.LogAction("category deleted", map[string]interface{}{"id": id, "reassigned": moved})
	return moved, nil
}

// ========== Settings ==========

func (b *businessAPIImpl) GetSettings(ctx context.Context) (domain.Settings, error) {
	return b.services.SettingsService.GetSettings(ctx)
}

func (b *businessAPIImpl) UpdateSettings(ctx context.Context, patch domain.SettingsPatch) (domain.Settings, error) {
	settings, err := b.services.SettingsService.UpdateSettings(ctx, patch)
	if err != nil {
		return domain.Settings{}, err
	}
	b.logger.LogAction("settings updated", map[string]interface{}{
		"theme": settings.Theme, "sortBy": settings.SortBy, "notifications": settings.Notifications,
	})
	return settings, nil
}

// ========== Statistics and Data Management ==========

func (b *businessAPIImpl) GetStatistics(ctx context.Context) (*services.Statistics, error) {
	tasks, err := b.services.TaskService.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := b.services.CategoryService.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.ReportingService.Statistics(tasks, categories), nil
}

func (b *businessAPIImpl) Export(ctx context.Context, w io.Writer) error {
	if err := b.services.TransferService.WriteExport(ctx, w); err != nil {
		return err
	}
	b.logger.LogAction("data exported", nil)
	return nil
}

func (b *businessAPIImpl) ExportFileName() string {
	return b.services.TransferService.ExportFileName()
}

func (b *businessAPIImpl) Import(ctx context.Context, r io.Reader) (*services.ImportResult, error) {
	result, err := b.services.TransferService.Import(ctx, r)
	if err != nil {
		b.logger.WithError(err).Warnw("Import rejected")
		return nil, err
	}
	b.logger.LogAction("data imported", map[string]interface{}{
		"tasks": result.Tasks, "categories": result.Categories, "repaired": result.RepairedReferences,
	})
	return result, nil
}

func (b *businessAPIImpl) ClearAll(ctx context.Context) error {
	if err := b.repo.ClearAll(ctx); err != nil {
		return err
	}
	b.logger.LogAction("data cleared", nil)
	return nil
}

func (b *businessAPIImpl) GetDataInfo(ctx context.Context) (*DataInfo, error) {
	tasks, err := b.services.TaskService.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := b.services.CategoryService.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := b.services.SettingsService.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	keys, err := b.repo.StoredKeys(ctx)
	if err != nil {
		return nil, err
	}

	info := &DataInfo{Tasks: len(tasks), Categories: len(categories), Settings: settings, Keys: keys}
	for _, task := range tasks {
		if task.Completed {
			info.CompletedTasks++
		}
	}
	return info, nil
}

// ========== Helper Methods ==========

func (b *businessAPIImpl) viewOne(ctx context.Context, task *domain.Task) (*TaskView, error) {
	categories, err := b.services.CategoryService.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return b.views([]*domain.Task{task}, categories)[0], nil
}

// views decorates tasks with their category name and due information.
// Dangling category references show the default category.
func (b *businessAPIImpl) views(tasks []*domain.Task, categories []*domain.Category) []*TaskView {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	known := domain.CategoryIndex(categories)
	timeService := b.services.TimeService

	result := make([]*TaskView, 0, len(tasks))
	for _, task := range tasks {
		view := &TaskView{
			Task:         task,
			CategoryName: names[domain.ResolveCategoryID(task.Category, known)],
			Overdue:      timeService.IsOverdue(task),
		}
		if task.HasDueDate() {
			view.DueLabel = timeService.DueLabel(*task.DueDate)
		}
		result = append(result, view)
	}
	return result
}
