package service

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"library-management/backend/internal/dto"
	"library-management/backend/internal/model"
	"library-management/backend/internal/repository"
)

// StaffService is the administrator's staff directory.
type StaffService interface {
	// ListWithSummary lists every staff member with month-to-date attendance.
	ListWithSummary(ctx context.Context) ([]dto.StaffSummaryResponse, error)
	// GetDetail returns one staff member with the last 30 days of attendance
	// and the latest salary rows.
	GetDetail(ctx context.Context, staffID string) (*dto.StaffDetailResponse, error)
	UpdateSalaryInfo(ctx context.Context, staffID string, req *dto.UpdateStaffSalaryRequest) (*dto.StaffResponse, error)
}

const (
	staffHistoryDays  = 30
	staffSalaryMonths = 12
)

type staffService struct {
	repo   *repository.Repository
	loc    *time.Location
	now    Clock
	logger *zap.Logger
}

// NewStaffService returns a StaffService.
func NewStaffService(repo *repository.Repository, loc *time.Location, clock Clock, logger *zap.Logger) StaffService {
	return &staffService{repo: repo, loc: loc, now: clock, logger: logger}
}

func (s *staffService) ListWithSummary(ctx context.Context) ([]dto.StaffSummaryResponse, error) {
	staffList, err := s.repo.Staff.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to list staff", zap.Error(err))
		return nil, err
	}

	month := s.now().In(s.loc).Format("2006-01")
	from, to, _ := MonthRange(month)
	totalDays := int(to.Sub(from).Hours() / 24)

	result := make([]dto.StaffSummaryResponse, 0, len(staffList))
	for i := range staffList {
		st := &staffList[i]

		present, err := s.repo.Attendance.CountPresent(ctx, st.UserID, model.RoleStaff, from, to)
		if err != nil {
			s.logger.Error("failed to count attendance", zap.String("staff_id", st.StaffID), zap.Error(err))
			return nil, err
		}

		summary := dto.AttendanceSummary{
			Month:          month,
			PresentDays:    int(present),
			TotalDays:      totalDays,
			Percentage:     math.Round(float64(present) / float64(totalDays) * 100),
			ExpectedSalary: ComputeAmount(st.SalaryType, st.BaseSalary, int(present)),
		}

		rec, err := s.repo.Salary.GetByStaffMonth(ctx, st.StaffID, month)
		switch {
		case err == nil:
			summary.SalaryStatus = rec.Status
		case !errors.Is(err, gorm.ErrRecordNotFound):
			s.logger.Error("failed to load salary", zap.String("staff_id", st.StaffID), zap.Error(err))
			return nil, err
		}

		result = append(result, dto.StaffSummaryResponse{
			StaffResponse: *toStaffResponse(st),
			Attendance:    summary,
		})
	}
	return result, nil
}

func (s *staffService) GetDetail(ctx context.Context, staffID string) (*dto.StaffDetailResponse, error) {
	st, err := s.repo.Staff.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		s.logger.Error("failed to load staff", zap.String("staff_id", staffID), zap.Error(err))
		return nil, err
	}

	since := model.CalendarDay(s.now(), s.loc).AddDate(0, 0, -staffHistoryDays)
	records, err := s.repo.Attendance.ListByUserSince(ctx, st.UserID, model.RoleStaff, since)
	if err != nil {
		s.logger.Error("failed to list staff attendance", zap.String("staff_id", staffID), zap.Error(err))
		return nil, err
	}

	salaries, err := s.repo.Salary.ListByStaff(ctx, st.StaffID, staffSalaryMonths)
	if err != nil {
		s.logger.Error("failed to list staff salaries", zap.String("staff_id", staffID), zap.Error(err))
		return nil, err
	}

	resp := &dto.StaffDetailResponse{
		StaffResponse:     *toStaffResponse(st),
		AttendanceHistory: make([]dto.AttendanceResponse, 0, len(records)),
		SalaryHistory:     make([]dto.SalaryResponse, 0, len(salaries)),
	}
	for i := range records {
		resp.AttendanceHistory = append(resp.AttendanceHistory, *toAttendanceResponse(&records[i]))
	}
	for i := range salaries {
		resp.SalaryHistory = append(resp.SalaryHistory, *toSalaryResponse(&salaries[i]))
	}
	return resp, nil
}

func (s *staffService) UpdateSalaryInfo(ctx context.Context, staffID string, req *dto.UpdateStaffSalaryRequest) (*dto.StaffResponse, error) {
	st, err := s.repo.Staff.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		s.logger.Error("failed to load staff", zap.String("staff_id", staffID), zap.Error(err))
		return nil, err
	}

	if req.Designation != nil {
		st.Designation = *req.Designation
	}
	if req.SalaryType != nil {
		st.SalaryType = *req.SalaryType
	}
	if req.BaseSalary != nil {
		st.BaseSalary = *req.BaseSalary
	}
	if req.Active != nil {
		st.Active = *req.Active
	}

	if err := s.repo.Staff.Update(ctx, st); err != nil {
		s.logger.Error("failed to update staff", zap.String("staff_id", staffID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("staff salary info updated", zap.String("staff_id", staffID))
	return toStaffResponse(st), nil
}

func toStaffResponse(st *model.Staff) *dto.StaffResponse {
	resp := &dto.StaffResponse{
		ID:          st.StaffID,
		UserID:      st.UserID,
		Designation: st.Designation,
		SalaryType:  st.SalaryType,
		BaseSalary:  st.BaseSalary,
		Active:      st.Active,
	}
	if st.User != nil {
		resp.Name = st.User.Name
		resp.Email = st.User.Email
	}
	return resp
}
