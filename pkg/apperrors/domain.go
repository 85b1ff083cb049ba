package apperrors

import (
	"net/http"
)

// Factories and predefined errors for the editorial domain.

// ErrNotFound converts a repository miss (gorm.ErrRecordNotFound and the
// like) into a 404 AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// ErrSelfApproval - an editor may never approve or reject their own article.
var ErrSelfApproval = New(
	CodeForbidden,
	"editorial",
	"Editors cannot approve their own articles",
	http.StatusForbidden,
)

// ErrInsufficientPermissions - a non-editor attempted an editorial action.
var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// ErrInvalidUserRole - the operation is not defined for the user's role,
// e.g. subscribing to a user who is not a journalist.
var ErrInvalidUserRole = New(
	CodeInvalidOperation,
	"business_logic",
	"Invalid user role for this operation",
	http.StatusBadRequest,
)

// ErrRateLimited - too many requests from one client.
var ErrRateLimited = New(
	CodeRateLimited,
	"tracking",
	"Too many requests, please wait a moment before trying again",
	http.StatusTooManyRequests,
)
