package employee

import (
	"errors"
	"strings"

	employeeerrors "github.com/kscudds/Employee/internal/employee/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// mapRepositoryError wraps a driver error into a StorageError for op.
func mapRepositoryError(op string, err error) error {
	if err == nil {
		return nil
	}

	var storageErr *employeeerrors.StorageError
	if errors.As(err, &storageErr) {
		return err
	}

	mapped := &employeeerrors.StorageError{Op: op, Err: err}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505", "23502", "23514": // unique, not_null, check
			mapped.Constraint = pgErr.ConstraintName
			if mapped.Constraint == "" {
				mapped.Constraint = pgErr.ColumnName
			}
		}
		return mapped
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "constraint failed") {
		// sqlite: "NOT NULL constraint failed: employee.last_name"
		if i := strings.LastIndex(errMsg, ": "); i >= 0 {
			mapped.Constraint = strings.TrimSpace(errMsg[i+2:])
		}
	}
	return mapped
}
