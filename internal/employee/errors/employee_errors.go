package employeeerrors

import (
	"fmt"
	"net/http"

	"github.com/kscudds/Employee/internal/shared/apperror"
)

const (
	MsgUnableToSave = "unable to save changes"
	MsgDeleteFailed = "Delete failed"
	MsgNoFields     = "no editable fields supplied"

	MsgStorageUnavailable = "Employee storage is unavailable"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrMalformedPayload = apperror.New(
		apperror.CodeInvalidInput,
		"Malformed request body",
		http.StatusBadRequest,
	)
)

// StorageError reports a failure of the persistence layer: I/O, constraint
// violation or conflict. Constraint is set when the database named one.
type StorageError struct {
	Op         string
	Constraint string
	Err        error
}

func (e *StorageError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("employee storage %s (constraint %s): %v", e.Op, e.Constraint, e.Err)
	}
	return fmt.Sprintf("employee storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
