package apperror

import (
	"fmt"
	"net/http"
)

var (
	ErrNotFound = New(
		CodeNotFound,
		"Resource not found",
		http.StatusNotFound,
	)

	ErrInternal = New(
		CodeInternalError,
		"Internal server error",
		http.StatusInternalServerError,
	)

	ErrAntiForgeryRejected = New(
		CodeAntiForgeryRejected,
		"The anti-forgery token is missing or invalid",
		http.StatusBadRequest,
	)
)

// RequiredField returns a validation error for a missing field, e.g. "Last Name is required".
func RequiredField(field string) *AppError {
	return New(CodeValidation, fmt.Sprintf("%s is required", field), http.StatusUnprocessableEntity)
}

// InvalidField returns a validation error for a field that failed any other rule.
func InvalidField(field string) *AppError {
	return New(CodeValidation, fmt.Sprintf("%s is invalid", field), http.StatusUnprocessableEntity)
}
