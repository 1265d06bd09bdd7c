package employee

import (
	"errors"
	"fmt"
	"testing"

	employeeerrors "github.com/kscudds/Employee/internal/employee/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapRepositoryError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, mapRepositoryError("insert", nil))
	})

	t.Run("postgres unique violation keeps constraint", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "employee_pkey"}

		err := mapRepositoryError("insert", fmt.Errorf("create: %w", pgErr))

		var storageErr *employeeerrors.StorageError
		if assert.ErrorAs(t, err, &storageErr) {
			assert.Equal(t, "insert", storageErr.Op)
			assert.Equal(t, "employee_pkey", storageErr.Constraint)
		}
		assert.ErrorIs(t, err, pgErr)
	})

	t.Run("postgres not null falls back to column", func(t *testing.T) {
		err := mapRepositoryError("update", &pgconn.PgError{Code: "23502", ColumnName: "last_name"})

		var storageErr *employeeerrors.StorageError
		assert.ErrorAs(t, err, &storageErr)
		assert.Equal(t, "last_name", storageErr.Constraint)
	})

	t.Run("postgres other codes have no constraint", func(t *testing.T) {
		err := mapRepositoryError("list", &pgconn.PgError{Code: "57P01", ConstraintName: "ignored"})

		var storageErr *employeeerrors.StorageError
		assert.ErrorAs(t, err, &storageErr)
		assert.Empty(t, storageErr.Constraint)
	})

	t.Run("sqlite constraint text", func(t *testing.T) {
		err := mapRepositoryError("insert", errors.New("NOT NULL constraint failed: employee.last_name"))

		var storageErr *employeeerrors.StorageError
		assert.ErrorAs(t, err, &storageErr)
		assert.Equal(t, "employee.last_name", storageErr.Constraint)
		assert.Contains(t, err.Error(), "constraint employee.last_name")
	})

	t.Run("already mapped passes through", func(t *testing.T) {
		orig := &employeeerrors.StorageError{Op: "find", Err: errors.New("eof")}

		assert.Same(t, orig, mapRepositoryError("update", orig))
	})
}
