package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies the kind of an application error.
type ErrorCode string

const (
	// Auth errors
	ErrCodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidToken     ErrorCode = "INVALID_TOKEN"
	ErrCodeMissingToken     ErrorCode = "MISSING_TOKEN"
	ErrCodeInvalidPassword  ErrorCode = "INVALID_PASSWORD"
	ErrCodeInvalidCode      ErrorCode = "INVALID_CODE"
	ErrCodeExpiredCode      ErrorCode = "EXPIRED_CODE"
	ErrCodeTooManyAttempts  ErrorCode = "TOO_MANY_ATTEMPTS"
	ErrCodeForbidden        ErrorCode = "FORBIDDEN"
	ErrCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrCodeConflict         ErrorCode = "CONFLICT"
	ErrCodeUpstream         ErrorCode = "UPSTREAM_ERROR"
	ErrCodeDBError          ErrorCode = "DB_ERROR"
	ErrCodeValidation       ErrorCode = "VALIDATION_ERROR"
	ErrCodeRequiredField    ErrorCode = "REQUIRED_FIELD"
	ErrCodeInvalidFormat    ErrorCode = "INVALID_FORMAT"
	ErrCodeInvalidEmail     ErrorCode = "INVALID_EMAIL"
	ErrCodeInvalidOperation ErrorCode = "INVALID_OPERATION"
)

// AppError is the error type every service returns to the HTTP layer.
// Fields carries per-field messages for validation failures.
type AppError struct {
	Code    ErrorCode
	Message string
	Fields  map[string]string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewValidationError builds a VALIDATION_ERROR from a field -> message map.
func NewValidationError(fields map[string]string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: "Invalid data",
		Fields:  fields,
	}
}

// FieldError is a single-field validation failure.
func FieldError(field, message string) *AppError {
	return NewValidationError(map[string]string{field: message})
}

func NotFound(resource string) *AppError {
	return NewAppError(ErrCodeNotFound, resource+" not found", nil)
}

func Forbidden(reason string) *AppError {
	return NewAppError(ErrCodeForbidden, reason, nil)
}

func Conflict(message string, err error) *AppError {
	return NewAppError(ErrCodeConflict, message, err)
}

func Unauthorized(message string) *AppError {
	return NewAppError(ErrCodeUnauthorized, message, nil)
}

func Internal(message string, err error) *AppError {
	return NewAppError(ErrCodeDBError, message, err)
}

// IsAppError reports whether err wraps an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError returns the wrapped AppError or nil.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Code == code
}

// HTTPStatus maps an error code to the status the API answers with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidation, ErrCodeRequiredField, ErrCodeInvalidFormat, ErrCodeInvalidEmail,
		ErrCodeInvalidPassword, ErrCodeInvalidCode, ErrCodeExpiredCode, ErrCodeInvalidOperation:
		return http.StatusBadRequest
	case ErrCodeUnauthorized, ErrCodeInvalidToken, ErrCodeMissingToken:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeTooManyAttempts:
		return http.StatusTooManyRequests
	case ErrCodeUpstream:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrStorageDisabled    = errors.New("media storage is not configured")
	ErrGeocodeNoResult    = errors.New("no geocoding result")
)
