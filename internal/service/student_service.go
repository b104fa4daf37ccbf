package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"library-management/backend/internal/dto"
	"library-management/backend/internal/model"
	"library-management/backend/internal/repository"
)

// StudentService is the administrator's student directory.
type StudentService interface {
	// ListWithSummary lists every student with month-to-date attendance.
	// Students without a user account report zero present days.
	ListWithSummary(ctx context.Context) ([]dto.StudentSummaryResponse, error)
}

type studentService struct {
	repo   *repository.Repository
	loc    *time.Location
	now    Clock
	logger *zap.Logger
}

// NewStudentService returns a StudentService.
func NewStudentService(repo *repository.Repository, loc *time.Location, clock Clock, logger *zap.Logger) StudentService {
	return &studentService{repo: repo, loc: loc, now: clock, logger: logger}
}

func (s *studentService) ListWithSummary(ctx context.Context) ([]dto.StudentSummaryResponse, error) {
	students, err := s.repo.Student.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to list students", zap.Error(err))
		return nil, err
	}

	month := s.now().In(s.loc).Format("2006-01")
	from, to, _ := MonthRange(month)
	totalDays := int(to.Sub(from).Hours() / 24)

	result := make([]dto.StudentSummaryResponse, 0, len(students))
	for i := range students {
		st := &students[i]

		var present int64
		if st.UserID != nil {
			present, err = s.repo.Attendance.CountPresent(ctx, *st.UserID, model.RoleStudent, from, to)
			if err != nil {
				s.logger.Error("failed to count attendance", zap.String("student_id", st.StudentID), zap.Error(err))
				return nil, err
			}
		}

		summary := dto.StudentAttendanceSummary{
			Month:       month,
			PresentDays: int(present),
			TotalDays:   totalDays,
		}
		if totalDays > 0 {
			summary.Percentage = math.Round(float64(present) / float64(totalDays) * 100)
		}

		result = append(result, dto.StudentSummaryResponse{
			StudentResponse: *toStudentResponse(st),
			Attendance:      summary,
		})
	}
	return result, nil
}

func toStudentResponse(st *model.Student) *dto.StudentResponse {
	return &dto.StudentResponse{
		ID:              st.StudentID,
		UserID:          st.UserID,
		FullName:        st.FullName,
		StudentCode:     st.StudentCode,
		Phone:           st.Phone,
		Email:           st.Email,
		MembershipStart: st.MembershipStart,
		MembershipEnd:   st.MembershipEnd,
		Status:          st.Status,
	}
}
