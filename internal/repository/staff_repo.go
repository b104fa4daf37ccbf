package repository

import (
	"context"

	"gorm.io/gorm"

	"library-management/backend/internal/model"
)

// StaffRepository staff profile data access.
type StaffRepository interface {
	Create(ctx context.Context, s *model.Staff) error
	GetByID(ctx context.Context, id string) (*model.Staff, error)
	GetByUserID(ctx context.Context, userID string) (*model.Staff, error)
	ListActive(ctx context.Context) ([]model.Staff, error)
	ListAll(ctx context.Context) ([]model.Staff, error)
	Update(ctx context.Context, s *model.Staff) error
}

type staffRepo struct {
	db *gorm.DB
}

// NewStaffRepo returns the GORM StaffRepository.
func NewStaffRepo(db *gorm.DB) StaffRepository {
	return &staffRepo{db: db}
}

func (r *staffRepo) Create(ctx context.Context, s *model.Staff) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *staffRepo) GetByID(ctx context.Context, id string) (*model.Staff, error) {
	var s model.Staff
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("staff_id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *staffRepo) GetByUserID(ctx context.Context, userID string) (*model.Staff, error) {
	var s model.Staff
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *staffRepo) ListActive(ctx context.Context) ([]model.Staff, error) {
	var list []model.Staff
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("active = ?", true).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *staffRepo) ListAll(ctx context.Context) ([]model.Staff, error) {
	var list []model.Staff
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *staffRepo) Update(ctx context.Context, s *model.Staff) error {
	return r.db.WithContext(ctx).
		Model(&model.Staff{}).
		Where("staff_id = ?", s.StaffID).
		Updates(map[string]interface{}{
			"designation": s.Designation,
			"salary_type": s.SalaryType,
			"base_salary": s.BaseSalary,
			"active":      s.Active,
		}).Error
}
