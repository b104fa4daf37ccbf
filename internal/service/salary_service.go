package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"library-management/backend/internal/dto"
	"library-management/backend/internal/model"
	"library-management/backend/internal/repository"
)

// ── salary errors ──

var (
	ErrInvalidMonth        = errors.New("month must be YYYY-MM")
	ErrSalaryNotFound      = errors.New("salary record not found")
	ErrStaffNotFound       = errors.New("staff profile not found")
	ErrInvalidSalaryStatus = errors.New("salary status must be Pending or Paid")
)

// SalaryService derives monthly payroll from staff attendance.
type SalaryService interface {
	// Calculate recomputes every active staff member's row for month.
	// Present days and amount are refreshed; a Paid status is kept.
	Calculate(ctx context.Context, month string) (*dto.SalaryCalculationResponse, error)
	ListMine(ctx context.Context, userID string) ([]dto.SalaryResponse, error)
	ListAll(ctx context.Context, month string) ([]dto.SalaryResponse, error)
	UpdateStatus(ctx context.Context, salaryID, status string) (*dto.SalaryResponse, error)
}

type salaryService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSalaryService returns a SalaryService.
func NewSalaryService(repo *repository.Repository, logger *zap.Logger) SalaryService {
	return &salaryService{repo: repo, logger: logger}
}

// MonthRange returns [first day of month, first day of next month) in the
// CalendarDay encoding used by attendance dates.
func MonthRange(month string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidMonth
	}
	return start, start.AddDate(0, 1, 0), nil
}

// ComputeAmount applies the salary rule: Daily pays per present day, Monthly pays the base.
func ComputeAmount(salaryType string, baseSalary int64, presentDays int) int64 {
	if salaryType == model.SalaryDaily {
		return int64(presentDays) * baseSalary
	}
	return baseSalary
}

// ────────────────────── Calculate ──────────────────────

func (s *salaryService) Calculate(ctx context.Context, month string) (*dto.SalaryCalculationResponse, error) {
	from, to, err := MonthRange(month)
	if err != nil {
		return nil, err
	}

	staffList, err := s.repo.Staff.ListActive(ctx)
	if err != nil {
		s.logger.Error("failed to list active staff", zap.Error(err))
		return nil, err
	}

	records := make([]dto.SalaryResponse, 0, len(staffList))
	for i := range staffList {
		st := &staffList[i]

		present, err := s.repo.Attendance.CountPresent(ctx, st.UserID, model.RoleStaff, from, to)
		if err != nil {
			s.logger.Error("failed to count attendance", zap.String("staff_id", st.StaffID), zap.Error(err))
			return nil, err
		}

		stored, err := s.repo.Salary.UpsertComputed(ctx, &model.SalaryRecord{
			StaffID:          st.StaffID,
			Month:            month,
			TotalPresentDays: int(present),
			CalculatedAmount: ComputeAmount(st.SalaryType, st.BaseSalary, int(present)),
			Status:           model.SalaryPending,
		})
		if err != nil {
			s.logger.Error("failed to store salary", zap.String("staff_id", st.StaffID), zap.Error(err))
			return nil, err
		}
		stored.Staff = st
		records = append(records, *toSalaryResponse(stored))
	}

	s.logger.Info("salaries calculated", zap.String("month", month), zap.Int("staff", len(records)))
	return &dto.SalaryCalculationResponse{Month: month, Records: records}, nil
}

// ────────────────────── queries ──────────────────────

func (s *salaryService) ListMine(ctx context.Context, userID string) ([]dto.SalaryResponse, error) {
	st, err := s.repo.Staff.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		s.logger.Error("failed to load staff profile", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	rows, err := s.repo.Salary.ListByStaff(ctx, st.StaffID, 0)
	if err != nil {
		s.logger.Error("failed to list salaries", zap.String("staff_id", st.StaffID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.SalaryResponse, 0, len(rows))
	for i := range rows {
		rows[i].Staff = st
		result = append(result, *toSalaryResponse(&rows[i]))
	}
	return result, nil
}

func (s *salaryService) ListAll(ctx context.Context, month string) ([]dto.SalaryResponse, error) {
	if month != "" {
		if _, _, err := MonthRange(month); err != nil {
			return nil, err
		}
	}

	rows, err := s.repo.Salary.ListAll(ctx, month)
	if err != nil {
		s.logger.Error("failed to list salaries", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SalaryResponse, 0, len(rows))
	for i := range rows {
		result = append(result, *toSalaryResponse(&rows[i]))
	}
	return result, nil
}

// ────────────────────── UpdateStatus ──────────────────────

func (s *salaryService) UpdateStatus(ctx context.Context, salaryID, status string) (*dto.SalaryResponse, error) {
	if status != model.SalaryPending && status != model.SalaryPaid {
		return nil, ErrInvalidSalaryStatus
	}

	if err := s.repo.Salary.UpdateStatus(ctx, salaryID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSalaryNotFound
		}
		s.logger.Error("failed to update salary status", zap.String("salary_id", salaryID), zap.Error(err))
		return nil, err
	}

	rec, err := s.repo.Salary.GetByID(ctx, salaryID)
	if err != nil {
		s.logger.Error("failed to reload salary", zap.String("salary_id", salaryID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("salary status updated", zap.String("salary_id", salaryID), zap.String("status", status))
	return toSalaryResponse(rec), nil
}

func toSalaryResponse(rec *model.SalaryRecord) *dto.SalaryResponse {
	resp := &dto.SalaryResponse{
		ID:               rec.SalaryID,
		StaffID:          rec.StaffID,
		Month:            rec.Month,
		TotalPresentDays: rec.TotalPresentDays,
		CalculatedAmount: rec.CalculatedAmount,
		Status:           rec.Status,
	}
	if rec.Staff != nil && rec.Staff.User != nil {
		resp.StaffName = rec.Staff.User.Name
	}
	return resp
}
