package errx

import (
	"errors"
	"fmt"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// RedisErrorMessage describes conversation store failures.
	RedisErrorMessage = "conversation store operation failed"
	// RedisNotFoundMessage describes a missing key in the conversation store.
	RedisNotFoundMessage = "conversation not found"
	// DirectoryErrorMessage describes contact directory read failures.
	DirectoryErrorMessage = "contact directory read failed"
	// InferenceErrorMessage describes language model invocation failures.
	InferenceErrorMessage = "language model call failed"
	// KnowledgeErrorMessage describes knowledge source failures.
	KnowledgeErrorMessage = "knowledge lookup failed"
	// MailErrorMessage describes mail transport failures.
	MailErrorMessage = "mail delivery failed"
	// DraftContractMessage describes a drafted email that violated the
	// subject/body output contract.
	DraftContractMessage = "drafted email did not follow the expected format"
)

// AppError wraps an underlying error with an HTTP status and safe message.
type AppError struct {
	Err     error
	Status  int
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// Is reports whether the target matches the underlying error or the AppError itself.
func (e *AppError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// As allows casting to AppError or the wrapped error in a chain.
func (e *AppError) As(target any) bool {
	if errors.As(e.Err, target) {
		return true
	}
	if t, ok := target.(**AppError); ok {
		*t = e
		return true
	}
	return false
}

// UserMessage extracts a message safe to surface to the end user. Errors that
// are not AppErrors fall back to the generic system message so internal
// details never leak into the conversation.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return SystemErrorMessage
}
