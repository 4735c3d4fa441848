package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Rule names the check a field failed.
type Rule string

const (
	RuleRequired  Rule = "required"
	RuleMaxLength Rule = "max_length"
	RuleOneOf     Rule = "one_of"
	RuleConflict  Rule = "conflict"
)

// FieldError is a single failed check on a task, category or settings field.
type FieldError struct {
	Field   string
	Rule    Rule
	Value   interface{}
	Message string
}

func (fe FieldError) Error() string {
	return fe.Message
}

// ValidationError collects every field that failed, in the order checked.
type ValidationError struct {
	Errors []FieldError
}

// NewValidationError returns an empty collection.
func NewValidationError() *ValidationError {
	return &ValidationError{Errors: make([]FieldError, 0)}
}

func (ve *ValidationError) Error() string {
	switch len(ve.Errors) {
	case 0:
		return "invalid input"
	case 1:
		return ve.Errors[0].Message
	}
	return "invalid input: " + strings.Join(ve.messages(), "; ")
}

// IsValidationError reports whether err wraps a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// HasErrors reports whether any field failed.
func (ve *ValidationError) HasErrors() bool {
	return len(ve.Errors) > 0
}

// ErrorOrNil returns ve when it holds errors and nil otherwise.
func (ve *ValidationError) ErrorOrNil() error {
	if ve.HasErrors() {
		return ve
	}
	return nil
}

func (ve *ValidationError) add(field string, rule Rule, value interface{}, message string) {
	ve.Errors = append(ve.Errors, FieldError{Field: field, Rule: rule, Value: value, Message: message})
}

// AddRequiredError records a blank or missing field.
func (ve *ValidationError) AddRequiredError(field string) {
	ve.add(field, RuleRequired, nil, field+" is required")
}

// AddTooLongError records a text field longer than max characters.
func (ve *ValidationError) AddTooLongError(field, value string, max int) {
	ve.add(field, RuleMaxLength, value, fmt.Sprintf("%s must be at most %d characters long", field, max))
}

// AddOneOfError records a value outside its enumeration.
func (ve *ValidationError) AddOneOfError(field string, value interface{}, allowed string) {
	ve.add(field, RuleOneOf, value, fmt.Sprintf("%s %q is not allowed, %s", field, value, allowed))
}

// AddConflictError records fields that cannot be combined.
func (ve *ValidationError) AddConflictError(field string, value interface{}, reason string) {
	ve.add(field, RuleConflict, value, field+" "+reason)
}

// GetFieldErrors returns the failures recorded for field.
func (ve *ValidationError) GetFieldErrors(field string) []FieldError {
	var out []FieldError
	for _, fe := range ve.Errors {
		if fe.Field == field {
			out = append(out, fe)
		}
	}
	return out
}

// GetUserFriendlyMessage renders the failures for the terminal, one per line
// when there is more than one.
func (ve *ValidationError) GetUserFriendlyMessage() string {
	switch len(ve.Errors) {
	case 0:
		return "Input validation failed"
	case 1:
		return ve.Errors[0].Message
	}
	lines := ve.messages()
	for i := range lines {
		lines[i] = "- " + lines[i]
	}
	return "Please fix the following:\n" + strings.Join(lines, "\n")
}

func (ve *ValidationError) messages() []string {
	out := make([]string, len(ve.Errors))
	for i, fe := range ve.Errors {
		out[i] = fe.Message
	}
	return out
}

// appendTagErrors converts struct tag failures into field errors.
func (ve *ValidationError) appendTagErrors(err error) {
	var tagErrs validator.ValidationErrors
	if !errors.As(err, &tagErrs) {
		ve.AddConflictError("input", nil, err.Error())
		return
	}
	for _, fe := range tagErrs {
		field := FieldName(fe.Field())
		switch fe.Tag() {
		case "required", "min":
			ve.AddRequiredError(field)
		default:
			ve.AddOneOfError(field, fe.Value(), AllowedValues(fe.Tag()))
		}
	}
}
