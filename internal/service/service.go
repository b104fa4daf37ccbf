package service

import (
	"time"

	"go.uber.org/zap"

	"library-management/backend/config"
	"library-management/backend/internal/repository"
	"library-management/backend/pkg/jwt"
	"library-management/backend/pkg/redis"
)

// Service aggregates every business service.
type Service struct {
	Auth       AuthService
	Profile    ProfileService
	Face       FaceService
	QRSession  QRSessionService
	Attendance AttendanceService
	Salary     SalaryService
	Staff      StaffService
	Student    StudentService
	Export     ExportService
	Calendar   CalendarService
}

// NewService wires services over the repository aggregate.
// rdb may be nil; every Redis-backed feature then degrades to the database.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	clock := Clock(time.Now)
	loc := cfg.Attendance.Location()

	var (
		revoker TokenRevoker
		cache   QRSessionCache
	)
	if rdb != nil {
		revoker = rdb
		if cfg.QR.CacheEnabled {
			cache = rdb
		}
	}

	profile := NewProfileService(&cfg.Payroll, repo, clock, logger)
	qr := NewQRSessionService(&cfg.QR, repo, cache, loc, clock, logger)
	salary := NewSalaryService(repo, logger)
	attendance := NewAttendanceService(&cfg.Attendance, repo, qr, loc, clock, logger)

	return &Service{
		Auth:       NewAuthService(repo, jwtMgr, revoker, profile, logger),
		Profile:    profile,
		Face:       NewFaceService(repo, clock, logger),
		QRSession:  qr,
		Attendance: attendance,
		Salary:     salary,
		Staff:      NewStaffService(repo, loc, clock, logger),
		Student:    NewStudentService(repo, loc, clock, logger),
		Export:     NewExportService(repo, attendance, salary, logger),
		Calendar:   NewCalendarService(repo, loc, clock, logger),
	}
}
