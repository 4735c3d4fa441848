package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ConfigFileEnv names an explicit config file, overriding the default location.
const ConfigFileEnv = "TM_CONFIG"

// Loader handles loading configuration from multiple sources
type Loader struct {
	config     *Config
	configFile string
	dotEnvFile string
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		config:     NewConfig(),
		configFile: os.Getenv(ConfigFileEnv),
		dotEnvFile: ".env",
	}
}

// WithConfigFile sets the YAML config file to read. An empty path selects
// the default location.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configFile = path
	return l
}

// WithDotEnvFile sets the dotenv file to read. An empty path disables it.
func (l *Loader) WithDotEnvFile(path string) *Loader {
	l.dotEnvFile = path
	return l
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the YAML config file
// 3. Override with environment variables, including those from .env
// 4. Override with command line flags (handled by cobra)
func (l *Loader) Load() (*Config, error) {
	if err := l.loadFile(); err != nil {
		return nil, err
	}

	if err := l.loadDotEnv(); err != nil {
		return nil, err
	}

	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		l.applyOverrides(config, overrides)
	}

	// Re-validate after applying overrides
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfigFile returns the config file read when none is named.
func DefaultConfigFile() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// loadFile merges the YAML config file into the defaults. A missing
// default file is not an error; a missing explicit file is.
func (l *Loader) loadFile() error {
	path := l.configFile
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile()
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return &ConfigError{Field: "config_file", Message: err.Error()}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return &ConfigError{Field: "config_file", Message: fmt.Sprintf("failed to read %s: %v", path, err)}
	}
	if err := v.Unmarshal(l.config); err != nil {
		return &ConfigError{Field: "config_file", Message: fmt.Sprintf("failed to decode %s: %v", path, err)}
	}
	return nil
}

// loadDotEnv exports variables from the dotenv file without overriding
// variables already set in the process environment.
func (l *Loader) loadDotEnv() error {
	if l.dotEnvFile == "" {
		return nil
	}
	if _, err := os.Stat(l.dotEnvFile); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(l.dotEnvFile); err != nil {
		return &ConfigError{Field: "dotenv", Message: err.Error()}
	}
	return nil
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	// Storage overrides
	Backend   *string
	KeyPrefix *string
	DBDir     *string
	DBFile    *string
	RedisAddr *string

	// Calendar overrides
	Timezone  *string
	WeekStart *string

	// Application overrides
	Timeout *time.Duration
	Verbose *bool

	// Commands overrides
	OutputFormat *string

	// Reminder overrides
	ReminderSchedule *string

	// Logging overrides
	LogLevel *string
}

// applyOverrides applies command line overrides to the configuration
func (l *Loader) applyOverrides(config *Config, overrides *ConfigOverrides) {
	// Storage overrides
	if overrides.Backend != nil {
		config.Storage.Backend = *overrides.Backend
	}
	if overrides.KeyPrefix != nil {
		config.Storage.KeyPrefix = *overrides.KeyPrefix
	}
	if overrides.DBDir != nil {
		config.Storage.Dir = *overrides.DBDir
	}
	if overrides.DBFile != nil {
		config.Storage.Filename = *overrides.DBFile
	}
	if overrides.RedisAddr != nil {
		config.Storage.RedisAddr = *overrides.RedisAddr
	}

	// Calendar overrides
	if overrides.Timezone != nil {
		config.Calendar.Timezone = *overrides.Timezone
	}
	if overrides.WeekStart != nil {
		config.Calendar.WeekStart = *overrides.WeekStart
	}

	// Application overrides
	if overrides.Timeout != nil {
		config.Application.Timeout = *overrides.Timeout
	}
	if overrides.Verbose != nil {
		config.Application.Verbose = *overrides.Verbose
	}

	// Commands overrides
	if overrides.OutputFormat != nil {
		config.Commands.OutputFormat = *overrides.OutputFormat
	}

	// Reminder overrides
	if overrides.ReminderSchedule != nil {
		config.Reminder.Schedule = *overrides.ReminderSchedule
	}

	// Logging overrides
	if overrides.LogLevel != nil {
		config.Logging.Level = *overrides.LogLevel
	}
}

// ParseDurationWithFallback parses a duration string with a fallback value
func ParseDurationWithFallback(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}

// ParseIntWithFallback parses an integer string with a fallback value
func ParseIntWithFallback(s string, fallback int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return fallback
}

// ParseBoolWithFallback parses a boolean string with a fallback value
func ParseBoolWithFallback(s string, fallback bool) bool {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return fallback
}

// ParseUint32WithFallback parses a uint32 string with a fallback value
func ParseUint32WithFallback(s string, base int, fallback uint32) uint32 {
	if u, err := strconv.ParseUint(s, base, 32); err == nil {
		return uint32(u)
	}
	return fallback
}
