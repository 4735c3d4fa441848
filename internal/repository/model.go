package repository

// TaskRecord is the stored form of a task.
type TaskRecord struct {
	ID          string  `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description" yaml:"description"`
	Completed   bool    `json:"completed" yaml:"completed"`
	Priority    string  `json:"priority" yaml:"priority"`
	Category    string  `json:"category" yaml:"category"`
	DueDate     *string `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	CreatedAt   string  `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   string  `json:"updatedAt" yaml:"updatedAt"`
}

// CategoryRecord is the stored form of a category.
type CategoryRecord struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Color     string `json:"color" yaml:"color"`
	Icon      string `json:"icon" yaml:"icon"`
	CreatedAt string `json:"createdAt" yaml:"createdAt"`
}

// SettingsRecord is the stored form of the settings.
type SettingsRecord struct {
	Theme         string `json:"theme" yaml:"theme"`
	SortBy        string `json:"sortBy" yaml:"sortBy"`
	Notifications bool   `json:"notifications" yaml:"notifications"`
}
