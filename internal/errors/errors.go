package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

const (
	// Validation
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// Pairing
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeAlreadyPaired ErrorCode = "ALREADY_PAIRED"
	ErrCodeNoCandidate   ErrorCode = "NO_CANDIDATE"

	// Advanced operations
	ErrCodeQuotaExceeded        ErrorCode = "QUOTA_EXCEEDED"
	ErrCodeTargetUnpaired       ErrorCode = "TARGET_UNPAIRED"
	ErrCodeTargetLocked         ErrorCode = "TARGET_LOCKED"
	ErrCodeOnlyResponderCanLock ErrorCode = "ONLY_RESPONDER_CAN_LOCK"
	ErrCodeFeatureDisabled      ErrorCode = "FEATURE_DISABLED"
	ErrCodeNoSuchTarget         ErrorCode = "NO_SUCH_TARGET"

	// Throttling
	ErrCodeUserBlocked ErrorCode = "USER_BLOCKED"

	// Collaborators & infrastructure
	ErrCodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	ErrCodePersistenceFailure  ErrorCode = "PERSISTENCE_FAILURE"

	// Auth (admin command surface)
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// Internal
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// AppError is a structured error that can be surfaced to the chat layer
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details any       `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.cause
}

// WithCause adds a cause to the error
func (e *AppError) WithCause(err error) *AppError {
	e.cause = err
	return e
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError
func Wrap(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Common error constructors

func NotFound(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

func AlreadyPaired() *AppError {
	return New(ErrCodeAlreadyPaired, "Participant already has a partner today")
}

func NoCandidate() *AppError {
	return New(ErrCodeNoCandidate, "No eligible partner available")
}

func QuotaExceeded(operation string) *AppError {
	return New(ErrCodeQuotaExceeded, fmt.Sprintf("Daily %s quota exhausted", operation))
}

func TargetUnpaired() *AppError {
	return New(ErrCodeTargetUnpaired, "Target has no partner to take over")
}

func TargetLocked() *AppError {
	return New(ErrCodeTargetLocked, "Target pairing is locked")
}

func OnlyResponderCanLock() *AppError {
	return New(ErrCodeOnlyResponderCanLock, "Only the responder side may lock a pairing")
}

func FeatureDisabled() *AppError {
	return New(ErrCodeFeatureDisabled, "Advanced features are not enabled for this group")
}

func NoSuchTarget(targetID string) *AppError {
	return New(ErrCodeNoSuchTarget, fmt.Sprintf("No group member with id %s", targetID))
}

func UserBlocked(userID string) *AppError {
	return New(ErrCodeUserBlocked, fmt.Sprintf("Participant %s is suspended from matchmaking", userID))
}

func ValidationError(message string) *AppError {
	return New(ErrCodeValidation, message)
}

func InvalidInput(field string, reason string) *AppError {
	return New(ErrCodeInvalidInput, fmt.Sprintf("Invalid %s: %s", field, reason))
}

func Unauthorized(message string) *AppError {
	return New(ErrCodeUnauthorized, message)
}

func UpstreamUnavailable(cause error) *AppError {
	return Wrap(ErrCodeUpstreamUnavailable, "Roster service unavailable", cause)
}

func PersistenceFailure(cause error) *AppError {
	return Wrap(ErrCodePersistenceFailure, "Failed to persist state", cause)
}

func Internal(message string) *AppError {
	return New(ErrCodeInternal, message)
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetCode returns the error code if the error is an AppError, otherwise returns ErrCodeInternal
func GetCode(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ErrCodeInternal
}
