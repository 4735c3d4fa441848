package validation

import (
	"task-manager/internal/domain"
)

// SettingsValidator validates display preferences
type SettingsValidator struct {
	validator *Validator
}

// NewSettingsValidator creates a new settings validator
func NewSettingsValidator(v *Validator) *SettingsValidator {
	if v == nil {
		v = NewValidator()
	}
	return &SettingsValidator{validator: v}
}

// ValidateSettings checks theme and sort order against their enumerations.
func (sv *SettingsValidator) ValidateSettings(settings domain.Settings) error {
	return sv.validator.Struct(settings)
}
