package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"library-management/backend/internal/dto"
	"library-management/backend/internal/face"
	"library-management/backend/internal/metrics"
	"library-management/backend/internal/repository"
)

// ── face errors ──

var (
	ErrFaceNotEnrolled = errors.New("face not registered")
	// ErrInvalidDescriptor is returned for descriptors that are not 128 finite numbers.
	ErrInvalidDescriptor = face.ErrInvalidDescriptor
)

// FaceService stores reference descriptors and compares live ones against them.
type FaceService interface {
	// Enroll overwrites the caller's reference descriptor.
	Enroll(ctx context.Context, userID string, descriptor []float64) (*dto.FaceStatusResponse, error)
	Verify(ctx context.Context, userID string, descriptor []float64) (*dto.FaceVerifyResponse, error)
	Status(ctx context.Context, userID string) (*dto.FaceStatusResponse, error)
}

type faceService struct {
	repo   *repository.Repository
	now    Clock
	logger *zap.Logger
}

// NewFaceService returns a FaceService.
func NewFaceService(repo *repository.Repository, clock Clock, logger *zap.Logger) FaceService {
	return &faceService{repo: repo, now: clock, logger: logger}
}

func (s *faceService) Enroll(ctx context.Context, userID string, descriptor []float64) (*dto.FaceStatusResponse, error) {
	if err := face.ValidateDescriptor(descriptor); err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.repo.User.SaveFaceDescriptor(ctx, userID, descriptor, now); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("failed to save face descriptor", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("face enrolled", zap.String("user_id", userID))
	return &dto.FaceStatusResponse{
		FaceRegistered:   true,
		RegistrationDate: formatTime(now),
	}, nil
}

func (s *faceService) Verify(ctx context.Context, userID string, descriptor []float64) (*dto.FaceVerifyResponse, error) {
	if err := face.ValidateDescriptor(descriptor); err != nil {
		metrics.FaceVerifications.WithLabelValues("invalid").Inc()
		return nil, err
	}

	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("failed to load user", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	if !user.FaceRegistered || len(user.FaceDescriptor) == 0 {
		metrics.FaceVerifications.WithLabelValues("not_enrolled").Inc()
		return nil, ErrFaceNotEnrolled
	}

	res, err := face.Compare(user.FaceDescriptor, descriptor)
	if err != nil {
		// a stored descriptor of the wrong size cannot be compared; ask for re-enrollment
		s.logger.Warn("stored face descriptor unusable", zap.String("user_id", userID), zap.Error(err))
		metrics.FaceVerifications.WithLabelValues("not_enrolled").Inc()
		return nil, ErrFaceNotEnrolled
	}

	outcome := "rejected"
	if res.Verified {
		outcome = "verified"
	}
	metrics.FaceVerifications.WithLabelValues(outcome).Inc()

	return &dto.FaceVerifyResponse{
		Verified:   res.Verified,
		Confidence: res.Confidence,
		Distance:   res.Distance,
		Threshold:  res.Threshold,
	}, nil
}

func (s *faceService) Status(ctx context.Context, userID string) (*dto.FaceStatusResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("failed to load user", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	resp := &dto.FaceStatusResponse{FaceRegistered: user.FaceRegistered}
	if user.FaceRegistrationDate != nil {
		resp.RegistrationDate = formatTime(*user.FaceRegistrationDate)
	}
	return resp, nil
}
