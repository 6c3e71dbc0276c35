package service

import (
	"net/http"

	commonerrors "github.com/AlibekovAA/gql-user-auth/internal/common/errors"
)

var (
	ErrDuplicateEmail = commonerrors.NewDomainError(
		"DUPLICATE_EMAIL",
		commonerrors.CategoryConflict,
		http.StatusConflict,
		"email already exists",
	)

	ErrInvalidCredentials = commonerrors.NewDomainError(
		"INVALID_CREDENTIALS",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"invalid email or password",
	)

	ErrUnauthenticated = commonerrors.NewDomainError(
		"UNAUTHENTICATED",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"authentication required",
	)

	ErrEmailNotFound = commonerrors.NewDomainError(
		"EMAIL_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"email not found",
	)

	ErrResetTokenInvalidOrExpired = commonerrors.NewDomainError(
		"RESET_TOKEN_INVALID_OR_EXPIRED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"reset token is invalid or has expired",
	)

	ErrValidation = commonerrors.NewDomainError(
		"VALIDATION_FAILED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"validation failed",
	)

	ErrInternal = commonerrors.ErrInternalError
)
