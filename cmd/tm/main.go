package main

import (
	"context"
	"fmt"
	"os"

	"task-manager/internal/api"
	"task-manager/internal/cli"
	"task-manager/internal/config"
	"task-manager/internal/logging"
	"task-manager/internal/services"
	"task-manager/internal/validation"
)

func main() {
	root := cli.NewRootCommand(buildApp)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildApp loads configuration and wires the store, services and business
// API behind the command line.
func buildApp(ctx context.Context, configFile string, overrides *config.ConfigOverrides) (*cli.App, func() error, error) {
	cfg, err := config.NewLoader().
		WithConfigFile(configFile).
		LoadWithOverrides(overrides)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	level := cfg.Logging.Level
	if cfg.Application.Verbose && level != "debug" {
		level = "info"
	}
	logger, err := logging.New(logging.Options{Level: level, Format: cfg.Logging.Format})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	env := config.GetEnvironment()
	repo, err := config.NewStoreFactory(env, cfg).CreateRepository(ctx, logger.WithComponent("repository"))
	if err != nil {
		logger.Close()
		return nil, nil, err
	}
	cleanup := func() error {
		defer logger.Close()
		return repo.Close()
	}

	if err := repo.Initialize(ctx); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	if repaired, err := repo.Reconcile(ctx); err != nil {
		logger.WithError(err).Warnw("Could not repair category references")
	} else if repaired > 0 {
		logger.Infow("Repaired dangling category references", "tasks", repaired)
	}

	timeService, err := services.NewTimeServiceFromConfig(cfg)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("invalid calendar configuration: %w", err)
	}

	container := services.NewServiceContainer(repo, timeService,
		services.WithValidator(validation.NewValidatorWithConfig(cfg)))
	businessAPI := api.NewBusinessAPI(repo, container, logger)

	logger.Debugw("Application ready", "environment", env, "backend", cfg.Storage.Backend)
	app := cli.NewApp(businessAPI, timeService, cfg, cli.WithAppLogger(logger))
	return app, cleanup, nil
}
