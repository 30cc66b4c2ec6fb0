package shared

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

type ErrorKind string

const (
	KindInvalidInput        ErrorKind = "InvalidInput"
	KindRateExceeded        ErrorKind = "RateExceeded"
	KindWindowExceeded      ErrorKind = "WindowExceeded"
	KindDuplicateSubmission ErrorKind = "DuplicateSubmission"
	KindStoreFailure        ErrorKind = "StoreFailure"
	KindUnauthorized        ErrorKind = "Unauthorized"
	KindNotFound            ErrorKind = "NotFound"
)

// AppError is an error that already knows how it should be rendered to the client.
type AppError struct {
	StatusCode int
	Kind       ErrorKind
	Message    string
	Err        error

	// RetryAfter is sent as the Retry-After header when positive.
	RetryAfter time.Duration
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	appErr, ok := GetAppError(err)
	return ok && appErr.Kind == kind
}

func NewBadRequestError(err error, message string) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Kind: KindInvalidInput, Message: message, Err: err}
}

func NewRateExceededError(message string, retryAfter time.Duration) *AppError {
	return &AppError{StatusCode: http.StatusTooManyRequests, Kind: KindRateExceeded, Message: message, RetryAfter: retryAfter}
}

func NewWindowExceededError(message string, retryAfter time.Duration) *AppError {
	return &AppError{StatusCode: http.StatusTooManyRequests, Kind: KindWindowExceeded, Message: message, RetryAfter: retryAfter}
}

func NewConflictError(message string) *AppError {
	return &AppError{StatusCode: http.StatusConflict, Kind: KindDuplicateSubmission, Message: message}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{StatusCode: http.StatusForbidden, Kind: KindUnauthorized, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{StatusCode: http.StatusNotFound, Kind: KindNotFound, Message: message}
}

// NewInternalError wraps a store or unexpected failure. The message is only logged;
// clients always see a generic server error.
func NewInternalError(err error, message string) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Kind: KindStoreFailure, Message: message, Err: err}
}
