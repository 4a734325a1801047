package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"

	// Field level validation codes
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	// Business rules
	CodeNoEligibleQuestions ErrorCode = "NO_ELIGIBLE_QUESTIONS"
	CodeTestHasAttempts     ErrorCode = "TEST_HAS_ATTEMPTS"
	CodeTestLocked          ErrorCode = "TEST_LOCKED"
	CodeTestInactive        ErrorCode = "TEST_INACTIVE"
	CodeMaxAttemptsReached  ErrorCode = "MAX_ATTEMPTS_REACHED"
	CodeAttemptExpired      ErrorCode = "ATTEMPT_EXPIRED"
	CodeImportFailed        ErrorCode = "IMPORT_FAILED"
	CodeAnswerInUse         ErrorCode = "ANSWER_IN_USE"
)

// ErrAnswerInUse is returned by the answer store when an edit would drop an option that a
// recorded response points at.
var ErrAnswerInUse = errors.New("answer is referenced by recorded responses")

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// WithContext attaches a detail that the HTTP layer returns to the caller.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

func NewForbiddenError(message string) *DomainError {
	return NewError(CodeForbidden, message, nil)
}

func NewTestNotFoundError(testID string) *DomainError {
	return NewError(CodeNotFound, fmt.Sprintf("Test not found with ID: %s", testID), nil)
}

func NewQuestionNotFoundError(questionID string) *DomainError {
	return NewError(CodeNotFound, fmt.Sprintf("Question not found with ID: %s", questionID), nil)
}

func NewAttemptNotFoundError(attemptID string) *DomainError {
	return NewError(CodeNotFound, fmt.Sprintf("Attempt not found with ID: %s", attemptID), nil)
}

func NewNoEligibleQuestionsError() *DomainError {
	return NewError(CodeNoEligibleQuestions, "No questions match the test's selection criteria", nil)
}

func NewTestHasAttemptsError(attempts int) *DomainError {
	return NewError(CodeTestHasAttempts, "Test cannot be deleted because it already has attempts", nil).
		WithContext("attempts", attempts)
}

func NewTestLockedError() *DomainError {
	return NewError(CodeTestLocked, "Test cannot be changed once attempts exist; only activation can be toggled", nil)
}

func NewTestInactiveError(testID string) *DomainError {
	return NewError(CodeTestInactive, fmt.Sprintf("Test %s is not active", testID), nil)
}

func NewMaxAttemptsReachedError(max int) *DomainError {
	return NewError(CodeMaxAttemptsReached, "Maximum number of attempts reached for this test", nil).
		WithContext("max_attempts", max)
}

func NewAttemptExpiredError(attemptID string) *DomainError {
	return NewError(CodeAttemptExpired, fmt.Sprintf("Attempt %s passed its deadline", attemptID), nil)
}

func NewAnswerInUseError(cause error) *DomainError {
	return NewError(CodeAnswerInUse, "Answers picked in past attempts cannot be removed; keep their ids in the update", cause)
}

func NewImportFailedError(cause error) *DomainError {
	return NewError(CodeImportFailed, "Import failed and was rolled back", cause)
}

// ValidationError describes one invalid field.
type ValidationError struct {
	Field   string      `json:"field"`
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is returned whole so the caller sees every invalid field at once.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// OrNil converts an empty list into a nil error.
func (v ValidationErrors) OrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func NewValidationError(message string) ValidationError {
	return ValidationError{Code: CodeValidation, Message: message}
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Field: field, Code: CodeMissingField, Message: "is required"}
}

func NewInvalidFormatError(field string, value interface{}) ValidationError {
	return ValidationError{Field: field, Code: CodeInvalidFormat, Message: "has an invalid format", Value: value}
}

func NewOutOfRangeError(field string, value interface{}, min, max int) ValidationError {
	return ValidationError{
		Field:   field,
		Code:    CodeOutOfRange,
		Message: fmt.Sprintf("must be between %d and %d", min, max),
		Value:   value,
	}
}
