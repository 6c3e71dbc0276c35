package commonerrors

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCategory string

const (
	CategoryValidation   ErrorCategory = "VALIDATION"
	CategoryNotFound     ErrorCategory = "NOT_FOUND"
	CategoryConflict     ErrorCategory = "CONFLICT"
	CategoryUnauthorized ErrorCategory = "UNAUTHORIZED"
	CategoryInternal     ErrorCategory = "INTERNAL"
	CategoryExternal     ErrorCategory = "EXTERNAL"
)

type DomainError interface {
	error
	Code() string
	Category() ErrorCategory
	HTTPStatus() int
	Message() string
	Details() map[string]any
	Unwrap() error
	WithCause(cause error) DomainError
	WithDetails(details map[string]any) DomainError
}

type domainError struct {
	code     string
	category ErrorCategory
	status   int
	message  string
	details  map[string]any
	cause    error
}

func (e *domainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *domainError) Code() string {
	return e.code
}

func (e *domainError) Category() ErrorCategory {
	return e.category
}

func (e *domainError) HTTPStatus() int {
	return e.status
}

func (e *domainError) Message() string {
	return e.message
}

func (e *domainError) Details() map[string]any {
	return e.details
}

func (e *domainError) Unwrap() error {
	return e.cause
}

// Is matches on code so that values derived through WithCause or WithDetails
// still satisfy errors.Is against the sentinel they were built from.
func (e *domainError) Is(target error) bool {
	var de *domainError
	if !errors.As(target, &de) {
		return false
	}
	return de.code == e.code
}

func (e *domainError) WithCause(cause error) DomainError {
	return &domainError{
		code:     e.code,
		category: e.category,
		status:   e.status,
		message:  e.message,
		details:  e.details,
		cause:    cause,
	}
}

func (e *domainError) WithDetails(details map[string]any) DomainError {
	return &domainError{
		code:     e.code,
		category: e.category,
		status:   e.status,
		message:  e.message,
		details:  details,
		cause:    e.cause,
	}
}

func NewDomainError(code string, category ErrorCategory, status int, message string) DomainError {
	return &domainError{
		code:     code,
		category: category,
		status:   status,
		message:  message,
	}
}

func IsDomainError(err error) bool {
	var de DomainError
	return errors.As(err, &de)
}

func AsDomainError(err error) (DomainError, bool) {
	var de DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

var (
	ErrMissingRequiredEnv = NewDomainError(
		"MISSING_REQUIRED_ENV",
		CategoryValidation,
		http.StatusInternalServerError,
		"missing required configuration value",
	)

	ErrInvalidJWTSecret = NewDomainError(
		"INVALID_JWT_SECRET",
		CategoryValidation,
		http.StatusInternalServerError,
		"JWT secret must be at least 32 bytes",
	)

	ErrEmailAlreadyExists = NewDomainError(
		"EMAIL_ALREADY_EXISTS",
		CategoryConflict,
		http.StatusConflict,
		"email already exists",
	)

	ErrUserNotFound = NewDomainError(
		"USER_NOT_FOUND",
		CategoryNotFound,
		http.StatusNotFound,
		"user not found",
	)

	ErrCircuitOpen = NewDomainError(
		"CIRCUIT_OPEN",
		CategoryExternal,
		http.StatusServiceUnavailable,
		"circuit breaker is open",
	)

	ErrInvalidToken = NewDomainError(
		"INVALID_TOKEN",
		CategoryUnauthorized,
		http.StatusUnauthorized,
		"token is not valid",
	)

	ErrInvalidTokenSigningMethod = NewDomainError(
		"INVALID_TOKEN_SIGNING_METHOD",
		CategoryUnauthorized,
		http.StatusUnauthorized,
		"invalid token signing method",
	)

	ErrInvalidTokenClaims = NewDomainError(
		"INVALID_TOKEN_CLAIMS",
		CategoryUnauthorized,
		http.StatusUnauthorized,
		"invalid token claims",
	)

	ErrMissingTokenClaims = NewDomainError(
		"MISSING_TOKEN_CLAIMS",
		CategoryUnauthorized,
		http.StatusUnauthorized,
		"missing required token claims",
	)

	ErrInternalError = NewDomainError(
		"INTERNAL_SERVER_ERROR",
		CategoryInternal,
		http.StatusInternalServerError,
		"internal server error",
	)

	ErrDatabaseError = NewDomainError(
		"DATABASE_ERROR",
		CategoryInternal,
		http.StatusInternalServerError,
		"database operation failed",
	)

	ErrMailDeliveryFailed = NewDomainError(
		"MAIL_DELIVERY_FAILED",
		CategoryExternal,
		http.StatusInternalServerError,
		"failed to send email",
	)
)
