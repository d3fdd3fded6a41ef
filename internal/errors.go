package internal

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	ErrCodeUserNotFound   ErrorCode = "USER_NOT_FOUND"
	ErrCodeEmailTaken     ErrorCode = "EMAIL_TAKEN"
	ErrCodeSelfDelete     ErrorCode = "CANNOT_DELETE_SELF"
	ErrCodeUserInactive   ErrorCode = "USER_INACTIVE"
	ErrCodeInvalidUserID  ErrorCode = "INVALID_USER_ID"
	ErrCodeDuplicateEntry ErrorCode = "DUPLICATE_ENTRY"

	ErrCodePermissionNotFound ErrorCode = "PERMISSION_NOT_FOUND"
	ErrCodePermissionInUse    ErrorCode = "PERMISSION_IN_USE"
	ErrCodeRoleNotFound       ErrorCode = "ROLE_NOT_FOUND"
	ErrCodeRoleInUse          ErrorCode = "ROLE_IN_USE"
	ErrCodeUnknownPermissions ErrorCode = "UNKNOWN_PERMISSION_IDS"

	ErrCodeInvalidCredentials     ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeInvalidToken           ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired           ErrorCode = "TOKEN_EXPIRED"
	ErrCodeTokenRevoked           ErrorCode = "TOKEN_REVOKED"
	ErrCodeInsufficientPermission ErrorCode = "INSUFFICIENT_PERMISSION"
	ErrCodeRateLimited            ErrorCode = "RATE_LIMITED"
)

// AppError is the error shape every service returns. Handlers map it onto
// the HTTP envelope via transport.BaseHandler.
type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
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

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

// FieldErrors carries per-field validation messages, keyed by field name.
type FieldErrors map[string][]string

func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

func (f FieldErrors) Empty() bool { return len(f) == 0 }

func (f FieldErrors) String() string {
	var parts []string
	for field, msgs := range f {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(msgs, ", ")))
	}
	return strings.Join(parts, "; ")
}

func NewValidationError(message string, fields FieldErrors) *AppError {
	e := &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
	}
	if len(fields) > 0 {
		e.Details = fields
	}
	return e
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	// Login failures share one message so callers cannot probe which
	// emails exist.
	ErrInvalidCredentials = NewUnauthorizedError("invalid email or password", ErrCodeInvalidCredentials)
	ErrInvalidToken       = NewUnauthorizedError("invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("token has expired", ErrCodeTokenExpired)
	ErrTokenRevoked       = NewUnauthorizedError("token has been revoked", ErrCodeTokenRevoked)
	ErrUserInactive       = NewForbiddenError("user account is inactive", ErrCodeUserInactive)

	ErrUserNotFound       = NewNotFoundError("user not found", ErrCodeUserNotFound)
	ErrPermissionNotFound = NewNotFoundError("permission not found", ErrCodePermissionNotFound)
	ErrRoleNotFound       = NewNotFoundError("role not found", ErrCodeRoleNotFound)

	ErrEmailTaken       = NewConflictError("email is already registered", ErrCodeEmailTaken)
	ErrSelfDelete       = NewForbiddenError("cannot delete your own account", ErrCodeSelfDelete)
	ErrPermissionInUse  = NewConflictError("cannot delete permission that is still assigned", ErrCodePermissionInUse)
	ErrRoleInUse        = NewConflictError("cannot delete role that is assigned to users", ErrCodeRoleInUse)
	ErrForbiddenByGuard = NewForbiddenError("insufficient permissions", ErrCodeInsufficientPermission)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
