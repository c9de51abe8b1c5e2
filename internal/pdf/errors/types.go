package errors

import (
	"errors"
	"fmt"
	"time"
)

// FormError is a designer failure with enough context to decide whether the
// caller can carry on
type FormError struct {
	Type        ErrorType `json:"type"`
	Message     string    `json:"message"`
	Context     string    `json:"context,omitempty"`
	FieldID     string    `json:"field_id,omitempty"`
	Recoverable bool      `json:"recoverable"`
	Timestamp   time.Time `json:"timestamp"`
	Err         error     `json:"-"`
}

// ErrorType categorises designer failures
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeResolutionFailure is a font or style that could not be resolved
	ErrorTypeResolutionFailure
	// ErrorTypeMalformedState is persisted state that could not be decoded
	ErrorTypeMalformedState
	// ErrorTypeMissingTarget is a mutation naming a field that does not exist
	ErrorTypeMissingTarget
	// ErrorTypeInputUnreadable is an uploaded base document that cannot be read
	ErrorTypeInputUnreadable
	// ErrorTypeInvalidField is a field or patch that fails validation
	ErrorTypeInvalidField
	// ErrorTypeExportFailed is a failure of the export collaborator
	ErrorTypeExportFailed
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity int

const (
	SeverityInfo ErrorSeverity = iota
	SeverityWarning
	SeverityError
)

// Error implements the error interface
func (e *FormError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Type.String(), e.Message)
	if e.FieldID != "" {
		msg = fmt.Sprintf("[%s] field %s: %s", e.Type.String(), e.FieldID, e.Message)
	}
	if e.Context != "" {
		msg += ": " + e.Context
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *FormError) Unwrap() error {
	return e.Err
}

// String returns a string representation of the ErrorType
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeResolutionFailure:
		return "RESOLUTION_FAILURE"
	case ErrorTypeMalformedState:
		return "MALFORMED_STATE"
	case ErrorTypeMissingTarget:
		return "MISSING_TARGET"
	case ErrorTypeInputUnreadable:
		return "INPUT_UNREADABLE"
	case ErrorTypeInvalidField:
		return "INVALID_FIELD"
	case ErrorTypeExportFailed:
		return "EXPORT_FAILED"
	default:
		return "UNKNOWN"
	}
}

// GetSeverity returns the severity level for a given error type
func (et ErrorType) GetSeverity() ErrorSeverity {
	switch et {
	case ErrorTypeResolutionFailure, ErrorTypeMalformedState:
		return SeverityWarning
	case ErrorTypeMissingTarget:
		return SeverityInfo
	default:
		return SeverityError
	}
}

// IsRecoverable reports whether the session continues unchanged after an
// error of this type
func (et ErrorType) IsRecoverable() bool {
	switch et {
	case ErrorTypeResolutionFailure, ErrorTypeMalformedState, ErrorTypeMissingTarget:
		return true
	case ErrorTypeInvalidField, ErrorTypeInputUnreadable:
		return true // nothing is committed
	default:
		return false
	}
}

// New creates a FormError of the given type
func New(errorType ErrorType, message string) *FormError {
	return &FormError{
		Type:        errorType,
		Message:     message,
		Recoverable: errorType.IsRecoverable(),
		Timestamp:   time.Now(),
	}
}

// Wrap wraps err as a FormError. A nil err yields nil.
func Wrap(errorType ErrorType, err error) *FormError {
	if err == nil {
		return nil
	}
	e := New(errorType, err.Error())
	e.Err = err
	return e
}

// WithContext adds context to an existing FormError
func (e *FormError) WithContext(context string) *FormError {
	e.Context = context
	return e
}

// WithField records the field the error concerns
func (e *FormError) WithField(id string) *FormError {
	e.FieldID = id
	return e
}

// IsType reports whether err, or anything it wraps, is a FormError of type t
func IsType(err error, t ErrorType) bool {
	var fe *FormError
	if errors.As(err, &fe) {
		return fe.Type == t
	}
	return false
}

// ErrorCollection gathers the non-fatal problems of one operation
type ErrorCollection struct {
	Errors   []*FormError `json:"errors"`
	Warnings []*FormError `json:"warnings"`
}

// NewErrorCollection creates an empty collection
func NewErrorCollection() *ErrorCollection {
	return &ErrorCollection{
		Errors:   make([]*FormError, 0),
		Warnings: make([]*FormError, 0),
	}
}

// Add files err by severity
func (ec *ErrorCollection) Add(err *FormError) {
	if err == nil {
		return
	}
	severity := err.Type.GetSeverity()
	if severity == SeverityWarning || severity == SeverityInfo {
		ec.Warnings = append(ec.Warnings, err)
	} else {
		ec.Errors = append(ec.Errors, err)
	}
}

// Count returns the total number of errors and warnings
func (ec *ErrorCollection) Count() (errors, warnings int) {
	return len(ec.Errors), len(ec.Warnings)
}

// Messages returns every warning message in insertion order
func (ec *ErrorCollection) Messages() []string {
	out := make([]string, 0, len(ec.Warnings))
	for _, w := range ec.Warnings {
		out = append(out, w.Error())
	}
	return out
}

// Summary returns a text summary of all errors and warnings
func (ec *ErrorCollection) Summary() string {
	errorCount, warningCount := ec.Count()
	if errorCount == 0 && warningCount == 0 {
		return "No errors or warnings"
	}
	return fmt.Sprintf("Found %d error(s) and %d warning(s)", errorCount, warningCount)
}
