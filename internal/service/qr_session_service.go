package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"library-management/backend/config"
	"library-management/backend/internal/dto"
	"library-management/backend/internal/metrics"
	"library-management/backend/internal/model"
	"library-management/backend/internal/repository"
	"library-management/backend/pkg/redis"
)

// ── QR session errors ──

var (
	// ErrQRTokenInvalid covers unknown and expired tokens alike.
	ErrQRTokenInvalid  = errors.New("invalid or expired QR token")
	ErrQRTokenRequired = errors.New("QR token is required")
	ErrQRTTLTooLong    = errors.New("requested QR validity exceeds the allowed maximum")
)

const (
	qrTokenBytes     = 16
	maxTokenAttempts = 3
)

// QRSessionCache is the read-through cache consulted by Validate.
type QRSessionCache interface {
	CacheQRSession(ctx context.Context, token string, payload []byte, ttl time.Duration) error
	GetQRSession(ctx context.Context, token string) ([]byte, error)
}

// QRSessionService issues and validates short-lived attendance tokens.
type QRSessionService interface {
	// Create issues a session for issuerID, or returns the issuer's active
	// session from today when reuse is enabled and no explicit window is requested.
	Create(ctx context.Context, issuerID string, req *dto.CreateQRSessionRequest) (*dto.QRSessionResponse, error)
	// Validate fails with ErrQRTokenInvalid unless now < expiresAt.
	Validate(ctx context.Context, token string) (*dto.QRValidationResponse, error)
	GetActive(ctx context.Context, issuerID string) (*dto.ActiveQRSessionResponse, error)
}

type qrSessionService struct {
	cfg    *config.QRConfig
	repo   *repository.Repository
	cache  QRSessionCache
	loc    *time.Location
	now    Clock
	logger *zap.Logger
}

// NewQRSessionService returns a QRSessionService. cache may be nil.
func NewQRSessionService(
	cfg *config.QRConfig,
	repo *repository.Repository,
	cache QRSessionCache,
	loc *time.Location,
	clock Clock,
	logger *zap.Logger,
) QRSessionService {
	return &qrSessionService{cfg: cfg, repo: repo, cache: cache, loc: loc, now: clock, logger: logger}
}

// cachedSession is the Redis payload for a validated token.
type cachedSession struct {
	ExpiresAt        time.Time `json:"expiresAt"`
	LocationRequired bool      `json:"locationRequired"`
}

// ────────────────────── Create ──────────────────────

func (s *qrSessionService) Create(ctx context.Context, issuerID string, req *dto.CreateQRSessionRequest) (*dto.QRSessionResponse, error) {
	now := s.now()

	if req.ExpiresInSeconds == 0 && s.cfg.ReuseActive {
		existing, err := s.repo.QRSession.GetActiveByIssuer(ctx, issuerID, now, startOfDay(now, s.loc))
		switch {
		case err == nil && existing.LocationRequired != req.LocationRequired:
			// a different location gate needs its own session
		case err == nil:
			metrics.QRSessionsIssued.WithLabelValues("reused").Inc()
			resp := toQRSessionResponse(existing)
			resp.Reused = true
			return resp, nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			s.logger.Error("failed to look up active QR session", zap.String("issuer", issuerID), zap.Error(err))
			return nil, err
		}
	}

	expiresAt, err := s.expiry(now, req.ExpiresInSeconds)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		token, err := newQRToken()
		if err != nil {
			return nil, fmt.Errorf("generate QR token: %w", err)
		}

		session := &model.QRSession{
			Token:            token,
			ExpiresAt:        expiresAt,
			IssuedBy:         issuerID,
			LocationRequired: req.LocationRequired,
			CreatedAt:        now,
		}
		err = s.repo.QRSession.Create(ctx, session)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.logger.Warn("QR token collision, retrying", zap.Int("attempt", attempt+1))
			continue
		}
		if err != nil {
			s.logger.Error("failed to create QR session", zap.String("issuer", issuerID), zap.Error(err))
			return nil, err
		}

		s.store(ctx, session, now)
		metrics.QRSessionsIssued.WithLabelValues("new").Inc()
		s.logger.Info("QR session issued",
			zap.String("issuer", issuerID),
			zap.Time("expires_at", expiresAt),
			zap.Bool("location_required", req.LocationRequired),
		)
		return toQRSessionResponse(session), nil
	}

	return nil, fmt.Errorf("create QR session: %d token collisions", maxTokenAttempts)
}

// expiry applies the explicit window when given, otherwise the configured policy.
func (s *qrSessionService) expiry(now time.Time, expiresInSeconds int) (time.Time, error) {
	if expiresInSeconds > 0 {
		// compare in seconds so huge inputs cannot overflow the Duration
		if int64(expiresInSeconds) > int64(s.cfg.MaxTTL/time.Second) {
			return time.Time{}, ErrQRTTLTooLong
		}
		return now.Add(time.Duration(expiresInSeconds) * time.Second), nil
	}
	if s.cfg.DurationPolicy == config.QRPolicyFixed {
		return now.Add(s.cfg.DefaultTTL), nil
	}
	return nextMidnight(now, s.loc), nil
}

func newQRToken() (string, error) {
	b := make([]byte, qrTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// ────────────────────── Validate ──────────────────────

func (s *qrSessionService) Validate(ctx context.Context, token string) (*dto.QRValidationResponse, error) {
	if token == "" {
		return nil, ErrQRTokenInvalid
	}
	now := s.now()

	if cached, ok := s.lookup(ctx, token); ok {
		if !now.Before(cached.ExpiresAt) {
			metrics.QRValidations.WithLabelValues("invalid", "cache").Inc()
			return nil, ErrQRTokenInvalid
		}
		metrics.QRValidations.WithLabelValues("valid", "cache").Inc()
		return &dto.QRValidationResponse{
			Valid:            true,
			LocationRequired: cached.LocationRequired,
			ExpiresAt:        formatTime(cached.ExpiresAt),
		}, nil
	}

	session, err := s.repo.QRSession.GetValidByToken(ctx, token, now)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.QRValidations.WithLabelValues("invalid", "db").Inc()
			return nil, ErrQRTokenInvalid
		}
		s.logger.Error("failed to validate QR token", zap.Error(err))
		return nil, err
	}

	s.store(ctx, session, now)
	metrics.QRValidations.WithLabelValues("valid", "db").Inc()
	return &dto.QRValidationResponse{
		Valid:            true,
		LocationRequired: session.LocationRequired,
		ExpiresAt:        formatTime(session.ExpiresAt),
	}, nil
}

func (s *qrSessionService) lookup(ctx context.Context, token string) (*cachedSession, bool) {
	if s.cache == nil {
		return nil, false
	}
	b, err := s.cache.GetQRSession(ctx, token)
	if err != nil {
		if !errors.Is(err, redis.ErrCacheMiss) {
			s.logger.Warn("QR cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var cs cachedSession
	if err := json.Unmarshal(b, &cs); err != nil {
		s.logger.Warn("QR cache entry corrupt", zap.Error(err))
		return nil, false
	}
	return &cs, true
}

func (s *qrSessionService) store(ctx context.Context, session *model.QRSession, now time.Time) {
	if s.cache == nil {
		return
	}
	b, err := json.Marshal(cachedSession{ExpiresAt: session.ExpiresAt, LocationRequired: session.LocationRequired})
	if err != nil {
		return
	}
	if err := s.cache.CacheQRSession(ctx, session.Token, b, session.ExpiresAt.Sub(now)); err != nil {
		s.logger.Warn("QR cache write failed", zap.Error(err))
	}
}

// ────────────────────── GetActive ──────────────────────

func (s *qrSessionService) GetActive(ctx context.Context, issuerID string) (*dto.ActiveQRSessionResponse, error) {
	now := s.now()
	session, err := s.repo.QRSession.GetActiveByIssuer(ctx, issuerID, now, startOfDay(now, s.loc))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.ActiveQRSessionResponse{Active: false}, nil
		}
		s.logger.Error("failed to look up active QR session", zap.String("issuer", issuerID), zap.Error(err))
		return nil, err
	}

	return &dto.ActiveQRSessionResponse{
		Active:           true,
		QRToken:          session.Token,
		ExpiresAt:        formatTime(session.ExpiresAt),
		LocationRequired: session.LocationRequired,
		CreatedAt:        formatTime(session.CreatedAt),
	}, nil
}

func toQRSessionResponse(s *model.QRSession) *dto.QRSessionResponse {
	return &dto.QRSessionResponse{
		QRToken:          s.Token,
		ExpiresAt:        formatTime(s.ExpiresAt),
		LocationRequired: s.LocationRequired,
		CreatedAt:        formatTime(s.CreatedAt),
	}
}
