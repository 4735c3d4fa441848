package services

import (
	"context"

	"task-manager/internal/domain"
	"task-manager/internal/errors"
	"task-manager/internal/repository"
	"task-manager/internal/validation"
)

// ServiceOption configures the services built by NewServiceContainer.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	taskValidator     *validation.TaskValidator
	categoryValidator *validation.CategoryValidator
	settingsValidator *validation.SettingsValidator
}

// WithValidator makes the task, category and settings services validate with v,
// typically one built from the loaded configuration.
func WithValidator(v *validation.Validator) ServiceOption {
	return func(o *serviceOptions) {
		o.taskValidator = validation.NewTaskValidator(v)
		o.categoryValidator = validation.NewCategoryValidator(v)
		o.settingsValidator = validation.NewSettingsValidator(v)
	}
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	repo          repository.Repository
	taskValidator *validation.TaskValidator
}

// NewTaskService creates a new TaskService instance. A nil validator
// selects the default limits.
func NewTaskService(repo repository.Repository, taskValidator *validation.TaskValidator) TaskService {
	if taskValidator == nil {
		taskValidator = validation.NewTaskValidator(nil)
	}
	return &taskServiceImpl{
		repo:          repo,
		taskValidator: taskValidator,
	}
}

// CreateTask validates and stores a new task
func (t *taskServiceImpl) CreateTask(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error) {
	cleaned, err := t.taskValidator.CleanTaskDraft(draft)
	if err != nil {
		return nil, errors.NewValidationError("invalid task", err)
	}
	return t.repo.AddTask(ctx, cleaned)
}

// GetTask retrieves a task by its ID
func (t *taskServiceImpl) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	if err := t.taskValidator.ValidateTaskID(id); err != nil {
		return nil, errors.NewValidationError("invalid task id", err)
	}
	return t.repo.GetTask(ctx, id)
}

// ListTasks returns every task in storage order
func (t *taskServiceImpl) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	return t.repo.ListTasks(ctx)
}

// UpdateTask validates and applies a partial update
func (t *taskServiceImpl) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	if err := t.taskValidator.ValidateTaskID(id); err != nil {
		return nil, errors.NewValidationError("invalid task id", err)
	}
	cleaned, err := t.taskValidator.CleanTaskPatch(patch)
	if err != nil {
		return nil, errors.NewValidationError("invalid task update", err)
	}
	return t.repo.UpdateTask(ctx, id, cleaned)
}

// ToggleTask flips the completed flag of a task
func (t *taskServiceImpl) ToggleTask(ctx context.Context, id string) (*domain.Task, error) {
	task, err := t.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	completed := !task.Completed
	return t.repo.UpdateTask(ctx, id, domain.TaskPatch{Completed: &completed})
}

// DeleteTask removes a task. Unknown ids are ignored.
func (t *taskServiceImpl) DeleteTask(ctx context.Context, id string) error {
	if err := t.taskValidator.ValidateTaskID(id); err != nil {
		return errors.NewValidationError("invalid task id", err)
	}
	return t.repo.DeleteTask(ctx, id)
}
