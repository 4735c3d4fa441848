package services

import (
	"context"

	"task-manager/internal/domain"
	"task-manager/internal/errors"
	"task-manager/internal/repository"
	"task-manager/internal/validation"
)

// settingsServiceImpl implements the SettingsService interface
type settingsServiceImpl struct {
	repo              repository.Repository
	settingsValidator *validation.SettingsValidator
}

// NewSettingsService creates a new SettingsService instance
func NewSettingsService(repo repository.Repository, settingsValidator *validation.SettingsValidator) SettingsService {
	if settingsValidator == nil {
		settingsValidator = validation.NewSettingsValidator(nil)
	}
	return &settingsServiceImpl{
		repo:              repo,
		settingsValidator: settingsValidator,
	}
}

// GetSettings returns the stored settings, seeding the defaults on first use
func (s *settingsServiceImpl) GetSettings(ctx context.Context) (domain.Settings, error) {
	return s.repo.GetSettings(ctx)
}

// UpdateSettings applies patch to the stored settings and saves the result.
// Nothing is written when the result is invalid.
func (s *settingsServiceImpl) UpdateSettings(ctx context.Context, patch domain.SettingsPatch) (domain.Settings, error) {
	current, err := s.repo.GetSettings(ctx)
	if err != nil {
		return domain.Settings{}, err
	}
	updated := patch.Apply(current)
	if err := s.settingsValidator.ValidateSettings(updated); err != nil {
		return domain.Settings{}, errors.NewValidationError("invalid settings", err)
	}
	if err := s.repo.SaveSettings(ctx, updated); err != nil {
		return domain.Settings{}, err
	}
	return updated, nil
}
