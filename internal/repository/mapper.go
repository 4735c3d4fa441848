package repository

import (
	"fmt"

	"task-manager/internal/domain"
)

// TaskMapper handles conversion between domain and stored Task models.
type TaskMapper struct{}

// NewTaskMapper creates a new TaskMapper instance.
func NewTaskMapper() *TaskMapper {
	return &TaskMapper{}
}

// ToRecord converts a domain Task to a stored Task.
func (m *TaskMapper) ToRecord(task domain.Task) TaskRecord {
	return TaskRecord{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		Priority:    string(task.Priority),
		Category:    task.Category,
		DueDate:     FormatTimePtr(task.DueDate),
		CreatedAt:   FormatTime(task.CreatedAt),
		UpdatedAt:   FormatTime(task.UpdatedAt),
	}
}

// FromRecord converts a stored Task to a domain Task.
func (m *TaskMapper) FromRecord(rec TaskRecord) (domain.Task, error) {
	createdAt, err := ParseTime(rec.CreatedAt)
	if err != nil {
		return domain.Task{}, fmt.Errorf("task %s: createdAt: %w", rec.ID, err)
	}
	updatedAt, err := ParseTime(rec.UpdatedAt)
	if err != nil {
		return domain.Task{}, fmt.Errorf("task %s: updatedAt: %w", rec.ID, err)
	}
	dueDate, err := ParseTimePtr(rec.DueDate)
	if err != nil {
		return domain.Task{}, fmt.Errorf("task %s: dueDate: %w", rec.ID, err)
	}

	return domain.Task{
		ID:          rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		Completed:   rec.Completed,
		Priority:    domain.Priority(rec.Priority),
		Category:    rec.Category,
		DueDate:     dueDate,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// ToRecordSlice converts a slice of domain Tasks to stored Tasks.
func (m *TaskMapper) ToRecordSlice(tasks []*domain.Task) []TaskRecord {
	records := make([]TaskRecord, len(tasks))
	for i, task := range tasks {
		records[i] = m.ToRecord(*task)
	}
	return records
}

// FromRecordSlice converts a slice of stored Tasks to domain Tasks.
// A single unreadable record fails the whole slice.
func (m *TaskMapper) FromRecordSlice(records []TaskRecord) ([]*domain.Task, error) {
	tasks := make([]*domain.Task, len(records))
	for i, rec := range records {
		task, err := m.FromRecord(rec)
		if err != nil {
			return nil, err
		}
		tasks[i] = &task
	}
	return tasks, nil
}

// CategoryMapper handles conversion between domain and stored Category models.
type CategoryMapper struct{}

// NewCategoryMapper creates a new CategoryMapper instance.
func NewCategoryMapper() *CategoryMapper {
	return &CategoryMapper{}
}

// ToRecord converts a domain Category to a stored Category.
func (m *CategoryMapper) ToRecord(category domain.Category) CategoryRecord {
	return CategoryRecord{
		ID:        category.ID,
		Name:      category.Name,
		Color:     string(category.Color),
		Icon:      string(category.Icon),
		CreatedAt: FormatTime(category.CreatedAt),
	}
}

// FromRecord converts a stored Category to a domain Category.
func (m *CategoryMapper) FromRecord(rec CategoryRecord) (domain.Category, error) {
	createdAt, err := ParseTime(rec.CreatedAt)
	if err != nil {
		return domain.Category{}, fmt.Errorf("category %s: createdAt: %w", rec.ID, err)
	}
	return domain.Category{
		ID:        rec.ID,
		Name:      rec.Name,
		Color:     domain.Color(rec.Color),
		Icon:      domain.Icon(rec.Icon),
		CreatedAt: createdAt,
	}, nil
}

// ToRecordSlice converts a slice of domain Categories to stored Categories.
func (m *CategoryMapper) ToRecordSlice(categories []*domain.Category) []CategoryRecord {
	records := make([]CategoryRecord, len(categories))
	for i, category := range categories {
		records[i] = m.ToRecord(*category)
	}
	return records
}

// FromRecordSlice converts a slice of stored Categories to domain Categories.
func (m *CategoryMapper) FromRecordSlice(records []CategoryRecord) ([]*domain.Category, error) {
	categories := make([]*domain.Category, len(records))
	for i, rec := range records {
		category, err := m.FromRecord(rec)
		if err != nil {
			return nil, err
		}
		categories[i] = &category
	}
	return categories, nil
}

// SettingsMapper handles conversion between domain and stored Settings.
type SettingsMapper struct{}

// NewSettingsMapper creates a new SettingsMapper instance.
func NewSettingsMapper() *SettingsMapper {
	return &SettingsMapper{}
}

// ToRecord converts domain Settings to stored Settings.
func (m *SettingsMapper) ToRecord(settings domain.Settings) SettingsRecord {
	return SettingsRecord{
		Theme:         string(settings.Theme),
		SortBy:        string(settings.SortBy),
		Notifications: settings.Notifications,
	}
}

// FromRecord converts stored Settings to domain Settings.
func (m *SettingsMapper) FromRecord(rec SettingsRecord) domain.Settings {
	return domain.Settings{
		Theme:         domain.Theme(rec.Theme),
		SortBy:        domain.SortBy(rec.SortBy),
		Notifications: rec.Notifications,
	}
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	Task     *TaskMapper
	Category *CategoryMapper
	Settings *SettingsMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	return &Mapper{
		Task:     NewTaskMapper(),
		Category: NewCategoryMapper(),
		Settings: NewSettingsMapper(),
	}
}
