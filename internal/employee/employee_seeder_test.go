package employee_test

import (
	"context"
	"errors"
	"testing"

	"github.com/kscudds/Employee/internal/employee"

	employeeMock "github.com/kscudds/Employee/internal/employee/mock"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func TestSeed(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store gets two founders", func(t *testing.T) {
		repo := employee.NewRepository(newSQLiteDB(t))

		n, err := employee.Seed(ctx, repo, zap.NewNop())

		assert.NoError(t, err)
		assert.Equal(t, 2, n)
		emps, _ := repo.ListAll(ctx)
		if assert.Len(t, emps, 2) {
			assert.Equal(t, "Washington", emps[0].LastName)
			assert.Equal(t, "George", emps[0].FirstName)
			assert.Equal(t, "Adams", emps[1].LastName)
			assert.Equal(t, "John", emps[1].FirstName)
		}
	})

	t.Run("non-empty store is left alone", func(t *testing.T) {
		repo := employee.NewRepository(newSQLiteDB(t))
		seedRows(t, repo, [2]string{"Madison", "James"})

		n, err := employee.Seed(ctx, repo, nil)

		assert.NoError(t, err)
		assert.Equal(t, 0, n)
		count, _ := repo.Count(ctx)
		assert.Equal(t, int64(1), count)
	})

	t.Run("second run is a no-op", func(t *testing.T) {
		repo := employee.NewRepository(newSQLiteDB(t))

		_, err := employee.Seed(ctx, repo, nil)
		assert.NoError(t, err)
		n, err := employee.Seed(ctx, repo, nil)

		assert.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("count failure aborts", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := employeeMock.NewMockRepository(ctrl)
		repo.EXPECT().Count(ctx).Return(int64(0), errConnReset)

		_, err := employee.Seed(ctx, repo, nil)

		assert.ErrorIs(t, err, errConnReset)
	})

	t.Run("insert failure reports progress", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := employeeMock.NewMockRepository(ctrl)
		errDisk := errors.New("disk full")
		gomock.InOrder(
			repo.EXPECT().Count(ctx).Return(int64(0), nil),
			repo.EXPECT().Insert(ctx, gomock.Any()).Return(nil),
			repo.EXPECT().Insert(ctx, gomock.Any()).Return(errDisk),
		)

		n, err := employee.Seed(ctx, repo, nil)

		assert.ErrorIs(t, err, errDisk)
		assert.Equal(t, 1, n)
	})
}
