package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Store backends
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config holds all configuration options for the task manager
type Config struct {
	Storage     StorageConfig     `mapstructure:"storage"`
	Calendar    CalendarConfig    `mapstructure:"calendar"`
	Validation  ValidationConfig  `mapstructure:"validation"`
	Display     DisplayConfig     `mapstructure:"display"`
	Application ApplicationConfig `mapstructure:"application"`
	Commands    CommandsConfig    `mapstructure:"commands"`
	Reminder    ReminderConfig    `mapstructure:"reminder"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// StorageConfig holds store backend configuration
type StorageConfig struct {
	Backend        string        `mapstructure:"backend" env:"TM_STORE_BACKEND"`
	KeyPrefix      string        `mapstructure:"key_prefix" env:"TM_STORE_KEY_PREFIX"`
	Dir            string        `mapstructure:"dir" env:"TM_DB_DIR"`
	Filename       string        `mapstructure:"filename" env:"TM_DB_FILENAME"`
	QueryTimeout   time.Duration `mapstructure:"query_timeout" env:"TM_DB_QUERY_TIMEOUT"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout" env:"TM_DB_WRITE_TIMEOUT"`
	DirPermissions uint32        `mapstructure:"dir_permissions" env:"TM_DB_DIR_PERMISSIONS"`
	RedisAddr      string        `mapstructure:"redis_addr" env:"TM_REDIS_ADDR"`
	RedisPassword  string        `mapstructure:"redis_password" env:"TM_REDIS_PASSWORD"`
	RedisDB        int           `mapstructure:"redis_db" env:"TM_REDIS_DB"`
}

// CalendarConfig holds the calendar used by date filters and statistics
type CalendarConfig struct {
	Timezone  string `mapstructure:"timezone" env:"TM_TIMEZONE"`
	WeekStart string `mapstructure:"week_start" env:"TM_WEEK_START"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	TitleMaxLength        int `mapstructure:"title_max_length" env:"TM_VALIDATION_TITLE_MAX"`
	DescriptionMaxLength  int `mapstructure:"description_max_length" env:"TM_VALIDATION_DESCRIPTION_MAX"`
	CategoryNameMaxLength int `mapstructure:"category_name_max_length" env:"TM_VALIDATION_CATEGORY_NAME_MAX"`
}

// DisplayConfig holds display formatting configuration
type DisplayConfig struct {
	DateFormat     string `mapstructure:"date_format" env:"TM_DISPLAY_DATE_FORMAT"`
	DateTimeFormat string `mapstructure:"datetime_format" env:"TM_DISPLAY_DATETIME_FORMAT"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `mapstructure:"timeout" env:"TM_APP_TIMEOUT"`
	Verbose bool          `mapstructure:"verbose" env:"TM_APP_VERBOSE"`
}

// CommandsConfig holds command-specific defaults
type CommandsConfig struct {
	OutputFormat string `mapstructure:"output_format" env:"TM_OUTPUT_FORMAT"`
	ExportDir    string `mapstructure:"export_dir" env:"TM_EXPORT_DIR"`
}

// ReminderConfig holds the reminder schedule
type ReminderConfig struct {
	Schedule string `mapstructure:"schedule" env:"TM_REMINDER_SCHEDULE"`
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level" env:"TM_LOG_LEVEL"`
	Format string `mapstructure:"format" env:"TM_LOG_FORMAT"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:        BackendSQLite,
			KeyPrefix:      "tm",
			Dir:            DefaultDir(),
			Filename:       "tm.db",
			QueryTimeout:   10 * time.Second,
			WriteTimeout:   5 * time.Second,
			DirPermissions: 0755,
			RedisAddr:      "localhost:6379",
		},
		Calendar: CalendarConfig{
			Timezone:  "Local",
			WeekStart: "saturday",
		},
		Validation: ValidationConfig{
			TitleMaxLength:        200,
			DescriptionMaxLength:  2000,
			CategoryNameMaxLength: 50,
		},
		Display: DisplayConfig{
			DateFormat:     "Jan 2, 2006",
			DateTimeFormat: "2006-01-02 15:04",
		},
		Application: ApplicationConfig{
			Timeout: 60 * time.Second,
			Verbose: false,
		},
		Commands: CommandsConfig{
			OutputFormat: "table",
			ExportDir:    ".",
		},
		Reminder: ReminderConfig{
			Schedule: "@every 1h",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// DefaultDir returns the directory holding the database and config file.
func DefaultDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".tm")
}

// GetDatabasePath returns the full path to the database file
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Storage.Dir, c.Storage.Filename)
}

// GetQueryTimeout returns the database query timeout
func (c *Config) GetQueryTimeout() time.Duration {
	return c.Storage.QueryTimeout
}

// GetWriteTimeout returns the database write timeout
func (c *Config) GetWriteTimeout() time.Duration {
	return c.Storage.WriteTimeout
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	switch strings.ToLower(c.Calendar.Timezone) {
	case "", "local":
		return time.Local, nil
	case "utc":
		return time.UTC, nil
	}
	return time.LoadLocation(c.Calendar.Timezone)
}

// WeekStartDay resolves the configured first day of the week.
func (c *Config) WeekStartDay() (time.Weekday, bool) {
	return ParseWeekday(c.Calendar.WeekStart)
}

// ParseWeekday parses an English weekday name, full or abbreviated.
func ParseWeekday(name string) (time.Weekday, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for day := time.Sunday; day <= time.Saturday; day++ {
		full := strings.ToLower(day.String())
		if name == full || name == full[:3] {
			return day, true
		}
	}
	return time.Sunday, false
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() error {
	// Storage configuration
	if backend := os.Getenv("TM_STORE_BACKEND"); backend != "" {
		c.Storage.Backend = backend
	}
	if prefix := os.Getenv("TM_STORE_KEY_PREFIX"); prefix != "" {
		c.Storage.KeyPrefix = prefix
	}
	if dir := os.Getenv("TM_DB_DIR"); dir != "" {
		c.Storage.Dir = dir
	}
	if filename := os.Getenv("TM_DB_FILENAME"); filename != "" {
		c.Storage.Filename = filename
	}
	if timeout := os.Getenv("TM_DB_QUERY_TIMEOUT"); timeout != "" {
		c.Storage.QueryTimeout = ParseDurationWithFallback(timeout, c.Storage.QueryTimeout)
	}
	if timeout := os.Getenv("TM_DB_WRITE_TIMEOUT"); timeout != "" {
		c.Storage.WriteTimeout = ParseDurationWithFallback(timeout, c.Storage.WriteTimeout)
	}
	if perms := os.Getenv("TM_DB_DIR_PERMISSIONS"); perms != "" {
		c.Storage.DirPermissions = ParseUint32WithFallback(perms, 8, c.Storage.DirPermissions)
	}
	if addr := os.Getenv("TM_REDIS_ADDR"); addr != "" {
		c.Storage.RedisAddr = addr
	}
	if password := os.Getenv("TM_REDIS_PASSWORD"); password != "" {
		c.Storage.RedisPassword = password
	}
	if db := os.Getenv("TM_REDIS_DB"); db != "" {
		c.Storage.RedisDB = ParseIntWithFallback(db, c.Storage.RedisDB)
	}

	// Calendar configuration
	if tz := os.Getenv("TM_TIMEZONE"); tz != "" {
		c.Calendar.Timezone = tz
	}
	if weekStart := os.Getenv("TM_WEEK_START"); weekStart != "" {
		c.Calendar.WeekStart = weekStart
	}

	// Validation configuration
	if maxLen := os.Getenv("TM_VALIDATION_TITLE_MAX"); maxLen != "" {
		c.Validation.TitleMaxLength = ParseIntWithFallback(maxLen, c.Validation.TitleMaxLength)
	}
	if maxLen := os.Getenv("TM_VALIDATION_DESCRIPTION_MAX"); maxLen != "" {
		c.Validation.DescriptionMaxLength = ParseIntWithFallback(maxLen, c.Validation.DescriptionMaxLength)
	}
	if maxLen := os.Getenv("TM_VALIDATION_CATEGORY_NAME_MAX"); maxLen != "" {
		c.Validation.CategoryNameMaxLength = ParseIntWithFallback(maxLen, c.Validation.CategoryNameMaxLength)
	}

	// Display configuration
	if format := os.Getenv("TM_DISPLAY_DATE_FORMAT"); format != "" {
		c.Display.DateFormat = format
	}
	if format := os.Getenv("TM_DISPLAY_DATETIME_FORMAT"); format != "" {
		c.Display.DateTimeFormat = format
	}

	// Application configuration
	if timeout := os.Getenv("TM_APP_TIMEOUT"); timeout != "" {
		c.Application.Timeout = ParseDurationWithFallback(timeout, c.Application.Timeout)
	}
	if verbose := os.Getenv("TM_APP_VERBOSE"); verbose != "" {
		c.Application.Verbose = ParseBoolWithFallback(verbose, c.Application.Verbose)
	}

	// Commands configuration
	if format := os.Getenv("TM_OUTPUT_FORMAT"); format != "" {
		c.Commands.OutputFormat = format
	}
	if dir := os.Getenv("TM_EXPORT_DIR"); dir != "" {
		c.Commands.ExportDir = dir
	}

	// Reminder configuration
	if schedule := os.Getenv("TM_REMINDER_SCHEDULE"); schedule != "" {
		c.Reminder.Schedule = schedule
	}

	// Logging configuration
	if level := os.Getenv("TM_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if format := os.Getenv("TM_LOG_FORMAT"); format != "" {
		c.Logging.Format = format
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate storage configuration
	switch c.Storage.Backend {
	case BackendSQLite:
		if c.Storage.Dir == "" {
			return &ConfigError{Field: "storage.dir", Message: "database directory cannot be empty"}
		}
		if c.Storage.Filename == "" {
			return &ConfigError{Field: "storage.filename", Message: "database filename cannot be empty"}
		}
	case BackendRedis:
		if c.Storage.RedisAddr == "" {
			return &ConfigError{Field: "storage.redis_addr", Message: "redis address cannot be empty"}
		}
	case BackendMemory:
	default:
		return &ConfigError{Field: "storage.backend", Message: "backend must be one of sqlite, memory, redis"}
	}
	if c.Storage.KeyPrefix == "" {
		return &ConfigError{Field: "storage.key_prefix", Message: "key prefix cannot be empty"}
	}
	if c.Storage.QueryTimeout <= 0 {
		return &ConfigError{Field: "storage.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Storage.WriteTimeout <= 0 {
		return &ConfigError{Field: "storage.write_timeout", Message: "write timeout must be positive"}
	}

	// Validate calendar configuration
	if _, err := c.Location(); err != nil {
		return &ConfigError{Field: "calendar.timezone", Message: "unknown timezone " + strconv.Quote(c.Calendar.Timezone)}
	}
	if _, ok := c.WeekStartDay(); !ok {
		return &ConfigError{Field: "calendar.week_start", Message: "week start must be a weekday name"}
	}

	// Validate validation configuration
	if c.Validation.TitleMaxLength < 1 {
		return &ConfigError{Field: "validation.title_max_length", Message: "title maximum length must be at least 1"}
	}
	if c.Validation.DescriptionMaxLength < 0 {
		return &ConfigError{Field: "validation.description_max_length", Message: "description maximum length cannot be negative"}
	}
	if c.Validation.CategoryNameMaxLength < 1 {
		return &ConfigError{Field: "validation.category_name_max_length", Message: "category name maximum length must be at least 1"}
	}

	// Validate display configuration
	if c.Display.DateFormat == "" {
		return &ConfigError{Field: "display.date_format", Message: "date format cannot be empty"}
	}
	if c.Display.DateTimeFormat == "" {
		return &ConfigError{Field: "display.datetime_format", Message: "datetime format cannot be empty"}
	}

	// Validate application configuration
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	// Validate commands configuration
	switch c.Commands.OutputFormat {
	case "table", "json", "yaml":
	default:
		return &ConfigError{Field: "commands.output_format", Message: "output format must be one of table, json, yaml"}
	}

	// Validate reminder configuration
	if _, err := cron.ParseStandard(c.Reminder.Schedule); err != nil {
		return &ConfigError{Field: "reminder.schedule", Message: "invalid schedule: " + err.Error()}
	}

	// Validate logging configuration
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return &ConfigError{Field: "logging.level", Message: "level must be one of debug, info, warn, error"}
	}
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: "format must be console or json"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
