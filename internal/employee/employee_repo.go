package employee

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	ListAll(ctx context.Context) ([]Employee, error)
	FindByID(ctx context.Context, id uint) (Employee, bool, error)
	Insert(ctx context.Context, empl *Employee) error
	Update(ctx context.Context, id uint, patch EmployeePatch) (Employee, bool, error)
	Remove(ctx context.Context, id uint) (bool, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListAll(ctx context.Context) ([]Employee, error) {
	var emps []Employee
	err := r.db.WithContext(ctx).
		Order("id").
		Find(&emps).Error
	return emps, err
}

// FindByID returns a detached copy; a missing row is reported through found.
func (r *repository) FindByID(ctx context.Context, id uint) (Employee, bool, error) {
	var empl Employee
	err := r.db.WithContext(ctx).
		First(&empl, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Employee{}, false, nil
	}
	if err != nil {
		return Employee{}, false, err
	}
	return empl, true, nil
}

// Insert persists empl and writes the store-assigned id back into it. Any id
// already set on empl is discarded.
func (r *repository) Insert(ctx context.Context, empl *Employee) error {
	empl.ID = 0
	return r.db.WithContext(ctx).Create(empl).Error
}

func (r *repository) Update(ctx context.Context, id uint, patch EmployeePatch) (Employee, bool, error) {
	var (
		empl  Employee
		found bool
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&empl, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		found = true

		cols := patch.columns()
		if len(cols) == 0 {
			return nil
		}
		if err := tx.Model(&Employee{}).Where("id = ?", id).Updates(cols).Error; err != nil {
			return err
		}
		return tx.First(&empl, "id = ?", id).Error
	})
	if err != nil {
		return Employee{}, false, err
	}
	if !found {
		return Employee{}, false, nil
	}
	return empl, true, nil
}

func (r *repository) Remove(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&Employee{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("id = ?", id).
		Count(&n).Error
	return n > 0, err
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Employee{}).Count(&n).Error
	return n, err
}
