package validation

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"task-manager/internal/config"
	"task-manager/internal/domain"
)

// Validator provides common validation utilities
type Validator struct {
	validate *validator.Validate
	config   *config.Config
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		validate: newValidate(),
		config:   nil, // Use defaults
	}
}

// NewValidatorWithConfig creates a new validator instance with configuration
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	return &Validator{
		validate: newValidate(),
		config:   cfg,
	}
}

// newValidate registers the enumeration tags used on domain types.
func newValidate() *validator.Validate {
	v := validator.New()
	mustRegister(v, "priority", func(fl validator.FieldLevel) bool {
		return domain.Priority(fl.Field().String()).IsValid()
	})
	mustRegister(v, "theme", func(fl validator.FieldLevel) bool {
		return domain.Theme(fl.Field().String()).IsValid()
	})
	mustRegister(v, "sortby", func(fl validator.FieldLevel) bool {
		return domain.SortBy(fl.Field().String()).IsValid()
	})
	mustRegister(v, "palette", func(fl validator.FieldLevel) bool {
		return domain.Color(fl.Field().String()).Known()
	})
	mustRegister(v, "categoryicon", func(fl validator.FieldLevel) bool {
		return domain.Icon(fl.Field().String()).Known()
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// Struct runs the tag rules on s and converts failures to a ValidationError.
func (v *Validator) Struct(s interface{}) error {
	return v.structErrors(s).ErrorOrNil()
}

func (v *Validator) structErrors(s interface{}) *ValidationError {
	validationError := NewValidationError()
	if err := v.validate.Struct(s); err != nil {
		validationError.appendTagErrors(err)
	}
	return validationError
}

// AllowedValues describes the accepted values of an enumeration tag.
func AllowedValues(tag string) string {
	var values []string
	switch tag {
	case "priority":
		for _, p := range domain.Priorities() {
			values = append(values, string(p))
		}
	case "theme":
		values = []string{string(domain.ThemeLight), string(domain.ThemeDark), string(domain.ThemeSystem)}
	case "sortby":
		values = []string{string(domain.SortByDate), string(domain.SortByPriority), string(domain.SortByManual)}
	case "palette":
		for _, c := range domain.Colors() {
			values = append(values, string(c))
		}
	case "categoryicon":
		for _, i := range domain.Icons() {
			values = append(values, string(i))
		}
	default:
		return "failed " + tag + " check"
	}
	return "must be one of " + strings.Join(values, ", ")
}

// FieldName converts a Go field name to the snake_case name shown to users.
func FieldName(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// IsValidStringLength checks if a string length in characters is within the specified range
func (v *Validator) IsValidStringLength(s string, min, max int) bool {
	length := utf8.RuneCountInString(strings.TrimSpace(s))
	return length >= min && length <= max
}

// checkMaxLength records a length error when value exceeds max characters.
// A max of zero or less means unlimited.
func (v *Validator) checkMaxLength(ve *ValidationError, field, value string, max int) {
	if max > 0 && !v.IsValidStringLength(value, 0, max) {
		ve.AddTooLongError(field, value, max)
	}
}

// getTitleMaxLength returns configured maximum task title length or default
func (v *Validator) getTitleMaxLength() int {
	if v.config != nil {
		return v.config.Validation.TitleMaxLength
	}
	return 200 // Default maximum
}

// getDescriptionMaxLength returns configured maximum description length or default
func (v *Validator) getDescriptionMaxLength() int {
	if v.config != nil {
		return v.config.Validation.DescriptionMaxLength
	}
	return 2000 // Default maximum
}

// getCategoryNameMaxLength returns configured maximum category name length or default
func (v *Validator) getCategoryNameMaxLength() int {
	if v.config != nil {
		return v.config.Validation.CategoryNameMaxLength
	}
	return 50 // Default maximum
}
