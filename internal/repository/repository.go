package repository

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"

	"task-manager/internal/domain"
	"task-manager/internal/errors"
	"task-manager/internal/logging"
)

// Snapshot is a set of collections written together by Restore.
// Nil fields are left untouched.
type Snapshot struct {
	Tasks      *[]*domain.Task
	Categories *[]*domain.Category
	Settings   *domain.Settings
}

// Repository defines the persistence operations over the three collections.
type Repository interface {
	// Task operations
	ListTasks(ctx context.Context) ([]*domain.Task, error)
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	AddTask(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error)
	UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
	SaveTasks(ctx context.Context, tasks []*domain.Task) error

	// Category operations
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	AddCategory(ctx context.Context, draft domain.CategoryDraft) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id string, draft domain.CategoryDraft) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) (int, error)
	SaveCategories(ctx context.Context, categories []*domain.Category) error

	// Settings operations
	GetSettings(ctx context.Context) (domain.Settings, error)
	SaveSettings(ctx context.Context, settings domain.Settings) error

	// Bulk operations
	Restore(ctx context.Context, snapshot Snapshot) error
	ClearAll(ctx context.Context) error
	Initialize(ctx context.Context) error
	Reconcile(ctx context.Context) (int, error)

	// Utility
	StoredKeys(ctx context.Context) ([]string, error)
	Close() error
}

// KVRepository implements Repository on top of a Store.
type KVRepository struct {
	store  Store
	keys   Keys
	mapper *Mapper
	now    func() time.Time
	newID  func() string
	logger *logging.Logger
}

// Option configures a KVRepository.
type Option func(*KVRepository)

// WithKeys overrides the collection keys.
func WithKeys(keys Keys) Option {
	return func(r *KVRepository) { r.keys = keys }
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *KVRepository) { r.now = now }
}

// WithIDGenerator overrides the identifier source.
func WithIDGenerator(newID func() string) Option {
	return func(r *KVRepository) { r.newID = newID }
}

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(r *KVRepository) { r.logger = logger }
}

// New creates a repository over store.
func New(store Store, opts ...Option) *KVRepository {
	r := &KVRepository{
		store:  store,
		keys:   NewKeys(DefaultKeyPrefix),
		mapper: NewMapper(),
		now:    time.Now,
		newID:  uuid.NewString,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithComponent("repository")
	return r
}

// Close closes the underlying store
func (r *KVRepository) Close() error {
	return r.store.Close()
}

// StoredKeys returns the keys present in the store in lexical order. Stores
// that cannot enumerate their contents report which collection keys exist.
func (r *KVRepository) StoredKeys(ctx context.Context) ([]string, error) {
	if lister, ok := r.store.(KeyLister); ok {
		keys, err := lister.Keys(ctx)
		if err != nil {
			return nil, storageError("list keys", err)
		}
		return keys, nil
	}

	keys := make([]string, 0, len(r.keys.All()))
	for _, key := range r.keys.All() {
		_, found, err := r.store.Get(ctx, key)
		if err != nil {
			return nil, storageError("list keys", err)
		}
		if found {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// ListTasks returns all stored tasks in storage order.
func (r *KVRepository) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	started := time.Now()
	tasks, err := r.readTasks(ctx, r.store)
	r.logger.LogStoreOperation("list tasks", started, err)
	return tasks, err
}

// GetTask returns a single task by id.
func (r *KVRepository) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	tasks, err := r.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	for _, task := range tasks {
		if task.ID == id {
			return task, nil
		}
	}
	return nil, errors.NewNotFoundError("task", id)
}

// AddTask assigns an identifier and timestamps to draft and appends it.
func (r *KVRepository) AddTask(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error) {
	var created *domain.Task
	err := r.update(ctx, "add task", func(tx Tx) error {
		tasks, err := r.readTasks(ctx, tx)
		if err != nil {
			return err
		}

		now := r.timestamp()
		task := &domain.Task{
			ID:          r.uniqueID(taskIDs(tasks)),
			Title:       draft.Title,
			Description: draft.Description,
			Completed:   draft.Completed,
			Priority:    draft.Priority,
			Category:    draft.Category,
			DueDate:     utcPtr(draft.DueDate),
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := r.writeTasks(ctx, tx, append(tasks, task)); err != nil {
			return err
		}
		created = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateTask merges patch into the task with the given id.
func (r *KVRepository) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	var updated *domain.Task
	err := r.update(ctx, "update task", func(tx Tx) error {
		tasks, err := r.readTasks(ctx, tx)
		if err != nil {
			return err
		}

		for i, task := range tasks {
			if task.ID != id {
				continue
			}

			next := patch.Apply(*task)
			next.DueDate = utcPtr(next.DueDate)
			next.UpdatedAt = r.timestamp()
			if next.UpdatedAt.Before(task.UpdatedAt) {
				next.UpdatedAt = task.UpdatedAt
			}
			tasks[i] = &next

			if err := r.writeTasks(ctx, tx, tasks); err != nil {
				return err
			}
			updated = &next
			return nil
		}

		return errors.NewNotFoundError("task", id)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTask removes the task with the given id. Deleting a missing id is not an error.
func (r *KVRepository) DeleteTask(ctx context.Context, id string) error {
	return r.update(ctx, "delete task", func(tx Tx) error {
		tasks, err := r.readTasks(ctx, tx)
		if err != nil {
			return err
		}

		remaining := make([]*domain.Task, 0, len(tasks))
		for _, task := range tasks {
			if task.ID != id {
				remaining = append(remaining, task)
			}
		}
		return r.writeTasks(ctx, tx, remaining)
	})
}

// SaveTasks replaces the task collection.
func (r *KVRepository) SaveTasks(ctx context.Context, tasks []*domain.Task) error {
	return r.update(ctx, "save tasks", func(tx Tx) error {
		return r.writeTasks(ctx, tx, tasks)
	})
}

// ListCategories returns the stored categories, seeding the defaults the
// first time the collection is read.
func (r *KVRepository) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	started := time.Now()
	categories, found, err := r.readCategories(ctx, r.store)
	r.logger.LogStoreOperation("list categories", started, err)
	if err != nil {
		return nil, err
	}
	if found {
		return categories, nil
	}

	err = r.update(ctx, "seed categories", func(tx Tx) error {
		var err error
		categories, err = r.categoriesOrDefaults(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// AddCategory creates a category from draft.
func (r *KVRepository) AddCategory(ctx context.Context, draft domain.CategoryDraft) (*domain.Category, error) {
	var created *domain.Category
	err := r.update(ctx, "add category", func(tx Tx) error {
		categories, err := r.categoriesOrDefaults(ctx, tx)
		if err != nil {
			return err
		}

		ids := make(map[string]bool, len(categories))
		for _, c := range categories {
			ids[c.ID] = true
		}

		category := &domain.Category{
			ID:        r.uniqueID(ids),
			Name:      draft.Name,
			Color:     draft.Color,
			Icon:      draft.Icon,
			CreatedAt: r.timestamp(),
		}
		if err := r.writeCategories(ctx, tx, append(categories, category)); err != nil {
			return err
		}
		created = category
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateCategory replaces the name, color and icon of a category.
func (r *KVRepository) UpdateCategory(ctx context.Context, id string, draft domain.CategoryDraft) (*domain.Category, error) {
	var updated *domain.Category
	err := r.update(ctx, "update category", func(tx Tx) error {
		categories, err := r.categoriesOrDefaults(ctx, tx)
		if err != nil {
			return err
		}

		for i, category := range categories {
			if category.ID != id {
				continue
			}
			next := *category
			next.Name = draft.Name
			next.Color = draft.Color
			next.Icon = draft.Icon
			categories[i] = &next

			if err := r.writeCategories(ctx, tx, categories); err != nil {
				return err
			}
			updated = &next
			return nil
		}

		return errors.NewNotFoundError("category", id)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteCategory removes a category and moves its tasks to the default
// category in one transaction. It returns the number of reassigned tasks.
func (r *KVRepository) DeleteCategory(ctx context.Context, id string) (int, error) {
	reassigned := 0
	err := r.update(ctx, "delete category", func(tx Tx) error {
		reassigned = 0
		categories, err := r.categoriesOrDefaults(ctx, tx)
		if err != nil {
			return err
		}

		remaining := make([]*domain.Category, 0, len(categories))
		for _, category := range categories {
			if category.ID != id {
				remaining = append(remaining, category)
			}
		}
		if err := r.writeCategories(ctx, tx, remaining); err != nil {
			return err
		}

		tasks, err := r.readTasks(ctx, tx)
		if err != nil {
			return err
		}
		for _, task := range tasks {
			if task.Category == id {
				task.Category = domain.DefaultCategoryID
				reassigned++
			}
		}
		return r.writeTasks(ctx, tx, tasks)
	})
	if err != nil {
		return 0, err
	}
	return reassigned, nil
}

// SaveCategories replaces the category collection.
func (r *KVRepository) SaveCategories(ctx context.Context, categories []*domain.Category) error {
	return r.update(ctx, "save categories", func(tx Tx) error {
		return r.writeCategories(ctx, tx, categories)
	})
}

// GetSettings returns the stored settings, seeding the defaults when none
// were ever written. Unreadable settings yield the defaults without a write.
func (r *KVRepository) GetSettings(ctx context.Context) (domain.Settings, error) {
	started := time.Now()
	settings, found, err := r.readSettings(ctx, r.store)
	r.logger.LogStoreOperation("get settings", started, err)
	if err != nil {
		return domain.Settings{}, err
	}
	if found {
		return settings, nil
	}

	err = r.update(ctx, "seed settings", func(tx Tx) error {
		var err error
		settings, err = r.settingsOrDefaults(ctx, tx)
		return err
	})
	if err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}

// SaveSettings replaces the settings record.
func (r *KVRepository) SaveSettings(ctx context.Context, settings domain.Settings) error {
	return r.update(ctx, "save settings", func(tx Tx) error {
		return r.writeSettings(ctx, tx, settings)
	})
}

// Restore writes every collection present in snapshot in one transaction.
func (r *KVRepository) Restore(ctx context.Context, snapshot Snapshot) error {
	return r.update(ctx, "restore", func(tx Tx) error {
		if snapshot.Tasks != nil {
			if err := r.writeTasks(ctx, tx, *snapshot.Tasks); err != nil {
				return err
			}
		}
		if snapshot.Categories != nil {
			if err := r.writeCategories(ctx, tx, *snapshot.Categories); err != nil {
				return err
			}
		}
		if snapshot.Settings != nil {
			if err := r.writeSettings(ctx, tx, *snapshot.Settings); err != nil {
				return err
			}
		}
		return nil
	})
}

// ClearAll removes every collection.
func (r *KVRepository) ClearAll(ctx context.Context) error {
	return r.update(ctx, "clear all", func(tx Tx) error {
		for _, key := range r.keys.All() {
			if err := tx.Remove(ctx, key); err != nil {
				return err
			}
		}
		return nil
	})
}

// Initialize seeds the default categories and settings when their
// collections have never been written. Calling it again changes nothing.
func (r *KVRepository) Initialize(ctx context.Context) error {
	return r.update(ctx, "initialize", func(tx Tx) error {
		if _, err := r.categoriesOrDefaults(ctx, tx); err != nil {
			return err
		}
		_, err := r.settingsOrDefaults(ctx, tx)
		return err
	})
}

// Reconcile restores the default category if it is missing and moves tasks
// that reference unknown categories to it. It returns the number of tasks moved.
func (r *KVRepository) Reconcile(ctx context.Context) (int, error) {
	repaired := 0
	err := r.update(ctx, "reconcile", func(tx Tx) error {
		repaired = 0
		categories, err := r.categoriesOrDefaults(ctx, tx)
		if err != nil {
			return err
		}

		known := domain.CategoryIndex(categories)
		if !known[domain.DefaultCategoryID] {
			general := domain.DefaultCategories(r.timestamp())[0]
			categories = append([]*domain.Category{general}, categories...)
			if err := r.writeCategories(ctx, tx, categories); err != nil {
				return err
			}
			known[domain.DefaultCategoryID] = true
			r.logger.Warnw("Restored missing default category")
		}

		tasks, err := r.readTasks(ctx, tx)
		if err != nil {
			return err
		}
		for _, task := range tasks {
			if resolved := domain.ResolveCategoryID(task.Category, known); resolved != task.Category {
				task.Category = resolved
				repaired++
			}
		}
		if repaired == 0 {
			return nil
		}
		r.logger.Warnw("Reassigned tasks with unknown categories", "count", repaired)
		return r.writeTasks(ctx, tx, tasks)
	})
	if err != nil {
		return 0, err
	}
	return repaired, nil
}

// update runs fn in a store transaction and converts backend failures to
// storage errors. Application errors returned by fn pass through unchanged.
func (r *KVRepository) update(ctx context.Context, operation string, fn func(tx Tx) error) error {
	started := time.Now()
	err := r.store.Update(ctx, fn)
	if err != nil {
		err = storageError(operation, err)
	}
	logged := err
	if logged != nil && !errors.ShouldLogError(logged) {
		logged = nil
	}
	r.logger.LogStoreOperation(operation, started, logged)
	return err
}

func (r *KVRepository) timestamp() time.Time {
	return r.now().UTC()
}

// uniqueID draws identifiers until one is not in taken.
func (r *KVRepository) uniqueID(taken map[string]bool) string {
	for {
		id := r.newID()
		if !taken[id] {
			return id
		}
	}
}

func (r *KVRepository) readTasks(ctx context.Context, rd Reader) ([]*domain.Task, error) {
	raw, found, err := rd.Get(ctx, r.keys.Tasks)
	if err != nil {
		return nil, storageError("read tasks", err)
	}
	if !found || raw == "" {
		return []*domain.Task{}, nil
	}

	var records []TaskRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		r.logger.Warnw("Ignoring unreadable tasks", "key", r.keys.Tasks, "error", err)
		return []*domain.Task{}, nil
	}
	tasks, err := r.mapper.Task.FromRecordSlice(records)
	if err != nil {
		r.logger.Warnw("Ignoring unreadable tasks", "key", r.keys.Tasks, "error", err)
		return []*domain.Task{}, nil
	}
	return tasks, nil
}

func (r *KVRepository) writeTasks(ctx context.Context, tx Tx, tasks []*domain.Task) error {
	data, err := json.Marshal(r.mapper.Task.ToRecordSlice(tasks))
	if err != nil {
		return storageError("encode tasks", err)
	}
	if err := tx.Set(ctx, r.keys.Tasks, string(data)); err != nil {
		return storageError("write tasks", err)
	}
	return nil
}

// readCategories reports found=false when the collection was never written
// or holds an empty string. An unreadable collection counts as found and empty.
func (r *KVRepository) readCategories(ctx context.Context, rd Reader) ([]*domain.Category, bool, error) {
	raw, found, err := rd.Get(ctx, r.keys.Categories)
	if err != nil {
		return nil, false, storageError("read categories", err)
	}
	if !found || raw == "" {
		return nil, false, nil
	}

	var records []CategoryRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		r.logger.Warnw("Ignoring unreadable categories", "key", r.keys.Categories, "error", err)
		return []*domain.Category{}, true, nil
	}
	categories, err := r.mapper.Category.FromRecordSlice(records)
	if err != nil {
		r.logger.Warnw("Ignoring unreadable categories", "key", r.keys.Categories, "error", err)
		return []*domain.Category{}, true, nil
	}
	return categories, true, nil
}

// categoriesOrDefaults reads the categories inside tx, seeding and
// persisting the defaults when the collection was never written.
func (r *KVRepository) categoriesOrDefaults(ctx context.Context, tx Tx) ([]*domain.Category, error) {
	categories, found, err := r.readCategories(ctx, tx)
	if err != nil || found {
		return categories, err
	}

	categories = domain.DefaultCategories(r.timestamp())
	if err := r.writeCategories(ctx, tx, categories); err != nil {
		return nil, err
	}
	r.logger.Debugw("Seeded default categories", "count", len(categories))
	return categories, nil
}

func (r *KVRepository) writeCategories(ctx context.Context, tx Tx, categories []*domain.Category) error {
	data, err := json.Marshal(r.mapper.Category.ToRecordSlice(categories))
	if err != nil {
		return storageError("encode categories", err)
	}
	if err := tx.Set(ctx, r.keys.Categories, string(data)); err != nil {
		return storageError("write categories", err)
	}
	return nil
}

// readSettings reports found=false when settings were never written or
// hold an empty string. An unreadable record counts as found and yields the defaults.
func (r *KVRepository) readSettings(ctx context.Context, rd Reader) (domain.Settings, bool, error) {
	raw, found, err := rd.Get(ctx, r.keys.Settings)
	if err != nil {
		return domain.Settings{}, false, storageError("read settings", err)
	}
	if !found || raw == "" {
		return domain.Settings{}, false, nil
	}

	var record SettingsRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		r.logger.Warnw("Ignoring unreadable settings", "key", r.keys.Settings, "error", err)
		return domain.DefaultSettings(), true, nil
	}
	return r.mapper.Settings.FromRecord(record), true, nil
}

func (r *KVRepository) settingsOrDefaults(ctx context.Context, tx Tx) (domain.Settings, error) {
	settings, found, err := r.readSettings(ctx, tx)
	if err != nil || found {
		return settings, err
	}

	settings = domain.DefaultSettings()
	if err := r.writeSettings(ctx, tx, settings); err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}

func (r *KVRepository) writeSettings(ctx context.Context, tx Tx, settings domain.Settings) error {
	data, err := json.Marshal(r.mapper.Settings.ToRecord(settings))
	if err != nil {
		return storageError("encode settings", err)
	}
	if err := tx.Set(ctx, r.keys.Settings, string(data)); err != nil {
		return storageError("write settings", err)
	}
	return nil
}

func taskIDs(tasks []*domain.Task) map[string]bool {
	ids := make(map[string]bool, len(tasks))
	for _, task := range tasks {
		ids[task.ID] = true
	}
	return ids
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// storageError wraps a backend failure unless the backend already produced
// an application error.
func storageError(operation string, err error) error {
	if errors.IsAppError(err) {
		return err
	}
	return errors.NewStorageError(operation, err)
}
