package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"library-management/backend/internal/model"
)

// QRSessionRepository QR session data access. Sessions are never updated or deleted.
type QRSessionRepository interface {
	Create(ctx context.Context, s *model.QRSession) error
	// GetValidByToken returns the session only while now < expires_at.
	GetValidByToken(ctx context.Context, token string, now time.Time) (*model.QRSession, error)
	// GetActiveByIssuer returns the newest unexpired session the issuer created at or after since.
	GetActiveByIssuer(ctx context.Context, issuerID string, now, since time.Time) (*model.QRSession, error)
}

type qrSessionRepo struct {
	db *gorm.DB
}

// NewQRSessionRepo returns the GORM QRSessionRepository.
func NewQRSessionRepo(db *gorm.DB) QRSessionRepository {
	return &qrSessionRepo{db: db}
}

func (r *qrSessionRepo) Create(ctx context.Context, s *model.QRSession) error {
	s.ExpiresAt = s.ExpiresAt.UTC()
	if !s.CreatedAt.IsZero() {
		s.CreatedAt = s.CreatedAt.UTC()
	}
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *qrSessionRepo) GetValidByToken(ctx context.Context, token string, now time.Time) (*model.QRSession, error) {
	var s model.QRSession
	err := r.db.WithContext(ctx).
		Where("token = ? AND expires_at > ?", token, now.UTC()).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *qrSessionRepo) GetActiveByIssuer(ctx context.Context, issuerID string, now, since time.Time) (*model.QRSession, error) {
	var s model.QRSession
	err := r.db.WithContext(ctx).
		Where("created_by = ? AND expires_at > ? AND created_at >= ?", issuerID, now.UTC(), since.UTC()).
		Order("created_at DESC").
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}
