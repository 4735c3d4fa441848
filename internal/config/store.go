package config

import (
	"context"
	"fmt"
	"os"

	"task-manager/internal/errors"
	"task-manager/internal/logging"
	"task-manager/internal/repository"
	"task-manager/internal/repository/redisstore"
	"task-manager/internal/repository/sqlite"
)

// Environment represents the current environment
type Environment string

const (
	Development Environment = "development"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// GetEnvironment determines the current environment from TM_ENV
func GetEnvironment() Environment {
	switch os.Getenv("TM_ENV") {
	case "development":
		return Development
	case "testing":
		return Testing
	default:
		// Default to production for safety
		return Production
	}
}

// StoreFactory creates store backends based on environment and configuration
type StoreFactory struct {
	env    Environment
	config *Config
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(env Environment, config *Config) *StoreFactory {
	return &StoreFactory{env: env, config: config}
}

// CreateStore opens the configured backend. The testing environment always
// uses an in-memory store; development keeps its database in the working
// directory.
func (f *StoreFactory) CreateStore(ctx context.Context) (repository.Store, error) {
	switch f.env {
	case Testing:
		return repository.NewMemoryStore(), nil
	case Development:
		if f.config.Storage.Backend == BackendSQLite {
			return f.openSQLite(f.config.Storage.Filename)
		}
	}

	switch f.config.Storage.Backend {
	case BackendMemory:
		return repository.NewMemoryStore(), nil
	case BackendRedis:
		store, err := redisstore.New(ctx, redisstore.Options{
			Addr:     f.config.Storage.RedisAddr,
			Password: f.config.Storage.RedisPassword,
			DB:       f.config.Storage.RedisDB,
			Timeout:  f.config.Storage.QueryTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return store, nil
	default:
		if err := os.MkdirAll(f.config.Storage.Dir, os.FileMode(f.config.Storage.DirPermissions)); err != nil {
			return nil, errors.WrapError(err, errors.ErrorTypeStorage, "failed to create database directory")
		}
		return f.openSQLite(f.config.GetDatabasePath())
	}
}

// CreateRepository opens the store and wraps it in a repository.
func (f *StoreFactory) CreateRepository(ctx context.Context, logger *logging.Logger) (*repository.KVRepository, error) {
	store, err := f.CreateStore(ctx)
	if err != nil {
		return nil, err
	}
	return repository.New(store,
		repository.WithKeys(repository.NewKeys(f.config.Storage.KeyPrefix)),
		repository.WithLogger(logger),
	), nil
}

func (f *StoreFactory) openSQLite(path string) (repository.Store, error) {
	store, err := sqlite.NewWithOptions(path, sqlite.Options{
		QueryTimeout: f.config.GetQueryTimeout(),
		WriteTimeout: f.config.GetWriteTimeout(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return store, nil
}
