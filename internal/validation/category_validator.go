package validation

import (
	"strings"

	"task-manager/internal/domain"
)

// CategoryValidator validates category and settings input
type CategoryValidator struct {
	validator *Validator
}

// NewCategoryValidator creates a new category validator
func NewCategoryValidator(v *Validator) *CategoryValidator {
	if v == nil {
		v = NewValidator()
	}
	return &CategoryValidator{validator: v}
}

// CleanCategoryDraft trims the name and checks it against the configured
// limit and the palette and icon set.
func (cv *CategoryValidator) CleanCategoryDraft(draft domain.CategoryDraft) (domain.CategoryDraft, error) {
	draft.Name = strings.TrimSpace(draft.Name)

	validationError := cv.validator.structErrors(draft)
	cv.validator.checkMaxLength(validationError, "name", draft.Name, cv.validator.getCategoryNameMaxLength())

	return draft, validationError.ErrorOrNil()
}

// ValidateCategoryID validates a category ID
func (cv *CategoryValidator) ValidateCategoryID(id string) error {
	return validateID("category_id", id)
}
