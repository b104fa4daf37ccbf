package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"library-management/backend/internal/model"
)

// SalaryRepository payroll data access.
type SalaryRepository interface {
	// UpsertComputed writes present days and amount for (staff, month).
	// Status is set only on insert, so a Paid row stays Paid.
	UpsertComputed(ctx context.Context, rec *model.SalaryRecord) (*model.SalaryRecord, error)
	GetByID(ctx context.Context, id string) (*model.SalaryRecord, error)
	GetByStaffMonth(ctx context.Context, staffID, month string) (*model.SalaryRecord, error)
	// ListByStaff returns the staff member's rows, newest month first.
	// A non-positive limit returns every row.
	ListByStaff(ctx context.Context, staffID string, limit int) ([]model.SalaryRecord, error)
	// ListAll returns every row, or one month's rows when month is non-empty.
	ListAll(ctx context.Context, month string) ([]model.SalaryRecord, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type salaryRepo struct {
	db *gorm.DB
}

// NewSalaryRepo returns the GORM SalaryRepository.
func NewSalaryRepo(db *gorm.DB) SalaryRepository {
	return &salaryRepo{db: db}
}

func (r *salaryRepo) UpsertComputed(ctx context.Context, rec *model.SalaryRecord) (*model.SalaryRecord, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "staff_id"}, {Name: "month"}},
			DoUpdates: clause.AssignmentColumns([]string{"total_present_days", "calculated_amount", "updated_at"}),
		}).
		Create(rec).Error
	if err != nil {
		return nil, err
	}
	return r.GetByStaffMonth(ctx, rec.StaffID, rec.Month)
}

func (r *salaryRepo) GetByID(ctx context.Context, id string) (*model.SalaryRecord, error) {
	var rec model.SalaryRecord
	err := r.db.WithContext(ctx).
		Preload("Staff.User").
		Where("salary_id = ?", id).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *salaryRepo) GetByStaffMonth(ctx context.Context, staffID, month string) (*model.SalaryRecord, error) {
	var rec model.SalaryRecord
	err := r.db.WithContext(ctx).
		Where("staff_id = ? AND month = ?", staffID, month).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *salaryRepo) ListByStaff(ctx context.Context, staffID string, limit int) ([]model.SalaryRecord, error) {
	var list []model.SalaryRecord
	db := r.db.WithContext(ctx).
		Where("staff_id = ?", staffID).
		Order("month DESC")
	if limit > 0 {
		db = db.Limit(limit)
	}
	err := db.Find(&list).Error
	return list, err
}

func (r *salaryRepo) ListAll(ctx context.Context, month string) ([]model.SalaryRecord, error) {
	var list []model.SalaryRecord
	db := r.db.WithContext(ctx).Preload("Staff.User")
	if month != "" {
		db = db.Where("month = ?", month)
	}
	err := db.Order("month DESC, created_at ASC").Find(&list).Error
	return list, err
}

func (r *salaryRepo) UpdateStatus(ctx context.Context, id, status string) error {
	res := r.db.WithContext(ctx).
		Model(&model.SalaryRecord{}).
		Where("salary_id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
