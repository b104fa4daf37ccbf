package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"library-management/backend/config"
	"library-management/backend/internal/dto"
	"library-management/backend/internal/model"
	"library-management/backend/internal/repository"
)

// ProfileService provisions the role profile that belongs to a user account.
type ProfileService interface {
	// EnsureProfile returns the user's student or staff profile id, creating
	// the profile with defaults when missing. Admins have no profile.
	EnsureProfile(ctx context.Context, user *model.User) (string, error)
	// Me returns the caller's account with its role profile, provisioning
	// the profile first when missing.
	Me(ctx context.Context, userID string) (*dto.ProfileResponse, error)
}

type profileService struct {
	cfg    *config.PayrollConfig
	repo   *repository.Repository
	now    Clock
	logger *zap.Logger
}

// NewProfileService returns a ProfileService.
func NewProfileService(cfg *config.PayrollConfig, repo *repository.Repository, clock Clock, logger *zap.Logger) ProfileService {
	return &profileService{cfg: cfg, repo: repo, now: clock, logger: logger}
}

func (s *profileService) EnsureProfile(ctx context.Context, user *model.User) (string, error) {
	switch user.Role {
	case model.RoleStudent:
		return s.ensureStudent(ctx, user)
	case model.RoleStaff:
		return s.ensureStaff(ctx, user)
	default:
		return "", nil
	}
}

func (s *profileService) Me(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("failed to load user", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	profileID, err := s.EnsureProfile(ctx, user)
	if err != nil {
		return nil, err
	}

	resp := &dto.ProfileResponse{Role: user.Role, User: toUserResponse(user)}
	switch user.Role {
	case model.RoleStudent:
		st, err := s.repo.Student.GetByID(ctx, profileID)
		if err != nil {
			s.logger.Error("failed to load student profile", zap.String("user_id", userID), zap.Error(err))
			return nil, err
		}
		resp.Student = toStudentResponse(st)
	case model.RoleStaff:
		st, err := s.repo.Staff.GetByID(ctx, profileID)
		if err != nil {
			s.logger.Error("failed to load staff profile", zap.String("user_id", userID), zap.Error(err))
			return nil, err
		}
		resp.Staff = toStaffResponse(st)
	}
	return resp, nil
}

func (s *profileService) ensureStudent(ctx context.Context, user *model.User) (string, error) {
	existing, err := s.repo.Student.GetByUserID(ctx, user.UserID)
	if err == nil {
		return existing.StudentID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("failed to load student profile", zap.String("user_id", user.UserID), zap.Error(err))
		return "", err
	}

	now := s.now()
	end := now.AddDate(1, 0, 0)
	userID := user.UserID
	student := &model.Student{
		UserID:          &userID,
		FullName:        user.Name,
		StudentCode:     fmt.Sprintf("STU%d", now.UnixNano()),
		Email:           user.Email,
		MembershipStart: now,
		MembershipEnd:   &end,
		Status:          model.StudentActive,
	}
	if err := s.repo.Student.Create(ctx, student); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// provisioned concurrently
			existing, getErr := s.repo.Student.GetByUserID(ctx, user.UserID)
			if getErr == nil {
				return existing.StudentID, nil
			}
		}
		s.logger.Error("failed to create student profile", zap.String("user_id", user.UserID), zap.Error(err))
		return "", err
	}

	s.logger.Info("student profile provisioned", zap.String("user_id", user.UserID), zap.String("student_id", student.StudentID))
	return student.StudentID, nil
}

func (s *profileService) ensureStaff(ctx context.Context, user *model.User) (string, error) {
	existing, err := s.repo.Staff.GetByUserID(ctx, user.UserID)
	if err == nil {
		return existing.StaffID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("failed to load staff profile", zap.String("user_id", user.UserID), zap.Error(err))
		return "", err
	}

	staff := &model.Staff{
		UserID:      user.UserID,
		Designation: s.cfg.DefaultDesignation,
		SalaryType:  s.cfg.DefaultSalaryType,
		BaseSalary:  s.cfg.DefaultBaseSalary,
		Active:      true,
	}
	if err := s.repo.Staff.Create(ctx, staff); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, getErr := s.repo.Staff.GetByUserID(ctx, user.UserID)
			if getErr == nil {
				return existing.StaffID, nil
			}
		}
		s.logger.Error("failed to create staff profile", zap.String("user_id", user.UserID), zap.Error(err))
		return "", err
	}

	s.logger.Info("staff profile provisioned", zap.String("user_id", user.UserID), zap.String("staff_id", staff.StaffID))
	return staff.StaffID, nil
}
