package errors

import (
	"fmt"
)

// ErrorType classifies an AppError. The value is the name used in logs.
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeStorage      ErrorType = "storage"
	ErrorTypeInvalidInput ErrorType = "invalid_input"
	ErrorTypeTimeout      ErrorType = "timeout"
	ErrorTypeImport       ErrorType = "import"
	ErrorTypeProtected    ErrorType = "protected"
)

func (et ErrorType) String() string {
	if et == "" {
		return "unknown"
	}
	return string(et)
}

// IsUserError reports whether the error was caused by what the user asked
// for rather than by the store.
func (et ErrorType) IsUserError() bool {
	switch et {
	case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeInvalidInput, ErrorTypeProtected, ErrorTypeImport:
		return true
	}
	return false
}

// AppError is the error returned across package boundaries. Context carries
// the identifiers involved (task id, key, field) for logging.
type AppError struct {
	Type    ErrorType
	Message string
	Code    string
	Cause   error
	Context map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another AppError with the same type and code, so sentinels
// such as ErrNotFound work with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && e.Type == t.Type && e.Code == t.Code
}

// IsType reports whether e is of errorType.
func (e *AppError) IsType(errorType ErrorType) bool {
	return e.Type == errorType
}

// WithContext records key on the error and returns it for chaining.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// GetContext returns the value recorded under key.
func (e *AppError) GetContext(key string) (interface{}, bool) {
	value, ok := e.Context[key]
	return value, ok
}

// LogFields flattens the error for structured logging.
func (e *AppError) LogFields() []interface{} {
	fields := []interface{}{"error_type", e.Type.String(), "error_code", e.Code}
	for k, v := range e.Context {
		fields = append(fields, k, v)
	}
	return fields
}
