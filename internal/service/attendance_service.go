package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"library-management/backend/config"
	"library-management/backend/internal/dto"
	"library-management/backend/internal/metrics"
	"library-management/backend/internal/model"
	"library-management/backend/internal/repository"
)

// ── attendance errors ──

var (
	ErrLocationRequired = errors.New("location is required")
	ErrAttendanceLocked = errors.New("attendance for today was set by an administrator")
	ErrUnsupportedRole  = errors.New("role cannot mark attendance")
	ErrStudentNotFound  = errors.New("student not found")
	ErrStudentNotLinked = errors.New("student has no user account")
	ErrInvalidStatus    = errors.New("status must be Present or Absent")
	ErrInvalidDate      = errors.New("date must be YYYY-MM-DD")
)

// AttendanceLockedError carries the administrator-set row that blocked a submission.
type AttendanceLockedError struct {
	Record *dto.AttendanceResponse
}

func (e *AttendanceLockedError) Error() string { return ErrAttendanceLocked.Error() }

func (e *AttendanceLockedError) Unwrap() error { return ErrAttendanceLocked }

// SubmitResult is the outcome of a self-service submission.
//
// Created is false when a Present record already existed for today; Record
// then holds that record. RequiresFaceVerification is set, with no Record,
// when a staff member must complete the face check first.
type SubmitResult struct {
	Record                   *dto.AttendanceResponse
	Created                  bool
	RequiresFaceVerification bool
}

// AttendanceService records daily attendance.
type AttendanceService interface {
	SubmitQR(ctx context.Context, caller Caller, req *dto.QRAttendanceRequest) (*SubmitResult, error)
	SubmitSelf(ctx context.Context, caller Caller, req *dto.SelfAttendanceRequest) (*SubmitResult, error)
	ListMine(ctx context.Context, caller Caller, limit int) ([]dto.AttendanceResponse, error)
	// ListByDate lists every record of a YYYY-MM-DD day; empty means today.
	ListByDate(ctx context.Context, date string) ([]dto.AttendanceResponse, error)
	// SetAttendance is the administrative override. It skips proof checks.
	SetAttendance(ctx context.Context, req *dto.SetAttendanceRequest) (*dto.AttendanceResponse, error)
}

type attendanceService struct {
	cfg    *config.AttendanceConfig
	repo   *repository.Repository
	qr     QRSessionService
	loc    *time.Location
	now    Clock
	logger *zap.Logger
}

// NewAttendanceService returns an AttendanceService that validates QR proofs through qr.
func NewAttendanceService(
	cfg *config.AttendanceConfig,
	repo *repository.Repository,
	qr QRSessionService,
	loc *time.Location,
	clock Clock,
	logger *zap.Logger,
) AttendanceService {
	return &attendanceService{cfg: cfg, repo: repo, qr: qr, loc: loc, now: clock, logger: logger}
}

// ────────────────────── SubmitQR ──────────────────────

func (s *attendanceService) SubmitQR(ctx context.Context, caller Caller, req *dto.QRAttendanceRequest) (res *SubmitResult, err error) {
	defer func() { observeSubmission("qr", res, err) }()

	token := strings.TrimSpace(req.QRToken)
	if token == "" {
		return nil, ErrQRTokenRequired
	}
	if !isAttendeeRole(caller.Role) {
		return nil, ErrUnsupportedRole
	}

	now := s.now()
	day := model.CalendarDay(now, s.loc)

	// today's record wins over any proof, valid or not
	if res, err := s.existing(ctx, caller, day); res != nil || err != nil {
		return res, err
	}

	session, err := s.qr.Validate(ctx, token)
	if err != nil {
		return nil, err
	}
	if session.LocationRequired && !req.Location.Complete() {
		return nil, ErrLocationRequired
	}

	rec, err := s.newRecord(ctx, caller, day, now, model.MethodQR, req.Location)
	if err != nil {
		return nil, err
	}
	return s.insert(ctx, rec)
}

// ────────────────────── SubmitSelf ──────────────────────

func (s *attendanceService) SubmitSelf(ctx context.Context, caller Caller, req *dto.SelfAttendanceRequest) (res *SubmitResult, err error) {
	defer func() { observeSubmission("self", res, err) }()

	if !req.Location.Complete() {
		return nil, ErrLocationRequired
	}
	if !isAttendeeRole(caller.Role) {
		return nil, ErrUnsupportedRole
	}

	now := s.now()
	day := model.CalendarDay(now, s.loc)

	if res, err := s.existing(ctx, caller, day); res != nil || err != nil {
		return res, err
	}

	// remote student check-in keeps the historical QR method
	method := model.MethodQR
	if caller.Role == model.RoleStaff {
		if !req.FaceMatch {
			return &SubmitResult{RequiresFaceVerification: true}, nil
		}
		method = model.MethodFace
	}

	rec, err := s.newRecord(ctx, caller, day, now, method, req.Location)
	if err != nil {
		return nil, err
	}
	return s.insert(ctx, rec)
}

// existing returns today's stored outcome, or nil when the day is unmarked.
func (s *attendanceService) existing(ctx context.Context, caller Caller, day time.Time) (*SubmitResult, error) {
	rec, err := s.repo.Attendance.GetForDay(ctx, caller.UserID, caller.Role, day)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("failed to load today's attendance", zap.String("user_id", caller.UserID), zap.Error(err))
		return nil, err
	}
	return duplicateResult(rec)
}

func (s *attendanceService) insert(ctx context.Context, rec *model.AttendanceRecord) (*SubmitResult, error) {
	stored, created, err := s.repo.Attendance.CreateIfAbsent(ctx, rec)
	if err != nil {
		s.logger.Error("failed to record attendance", zap.String("user_id", rec.UserID), zap.Error(err))
		return nil, err
	}
	if !created {
		return duplicateResult(stored)
	}

	s.logger.Info("attendance recorded",
		zap.String("user_id", rec.UserID),
		zap.String("role", rec.Role),
		zap.String("method", rec.Method),
		zap.String("date", formatDay(rec.Date)),
	)
	return &SubmitResult{Record: toAttendanceResponse(stored), Created: true}, nil
}

func duplicateResult(rec *model.AttendanceRecord) (*SubmitResult, error) {
	if rec.Status != model.StatusPresent {
		return nil, &AttendanceLockedError{Record: toAttendanceResponse(rec)}
	}
	return &SubmitResult{Record: toAttendanceResponse(rec), Created: false}, nil
}

func (s *attendanceService) newRecord(ctx context.Context, caller Caller, day, now time.Time, method string, loc *dto.Location) (*model.AttendanceRecord, error) {
	checkIn := now.UTC()
	rec := &model.AttendanceRecord{
		UserID:      caller.UserID,
		Role:        caller.Role,
		Date:        day,
		CheckInTime: &checkIn,
		Method:      method,
		Status:      model.StatusPresent,
	}
	if loc.Complete() {
		rec.Latitude = loc.Lat
		rec.Longitude = loc.Lng
		rec.Address = loc.Address
	}

	if caller.Role == model.RoleStudent {
		student, err := s.repo.Student.GetByUserID(ctx, caller.UserID)
		switch {
		case err == nil:
			rec.StudentID = &student.StudentID
		case !errors.Is(err, gorm.ErrRecordNotFound):
			s.logger.Error("failed to load student profile", zap.String("user_id", caller.UserID), zap.Error(err))
			return nil, err
		}
	}
	return rec, nil
}

func observeSubmission(path string, res *SubmitResult, err error) {
	outcome := "rejected"
	switch {
	case errors.Is(err, ErrAttendanceLocked):
		outcome = "locked"
	case err != nil:
	case res.RequiresFaceVerification:
		outcome = "face_required"
	case res.Created:
		outcome = "created"
	default:
		outcome = "duplicate"
	}
	metrics.AttendanceSubmissions.WithLabelValues(path, outcome).Inc()
}

// ────────────────────── queries ──────────────────────

func (s *attendanceService) ListMine(ctx context.Context, caller Caller, limit int) ([]dto.AttendanceResponse, error) {
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	if s.cfg.MaxLimit > 0 && limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}

	records, err := s.repo.Attendance.ListByUser(ctx, caller.UserID, caller.Role, limit)
	if err != nil {
		s.logger.Error("failed to list attendance", zap.String("user_id", caller.UserID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.AttendanceResponse, 0, len(records))
	for i := range records {
		result = append(result, *toAttendanceResponse(&records[i]))
	}
	return result, nil
}

func (s *attendanceService) ListByDate(ctx context.Context, date string) ([]dto.AttendanceResponse, error) {
	day, err := s.resolveDay(date)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.Attendance.ListByDate(ctx, day)
	if err != nil {
		s.logger.Error("failed to list attendance by date", zap.String("date", date), zap.Error(err))
		return nil, err
	}

	result := make([]dto.AttendanceResponse, 0, len(records))
	for i := range records {
		result = append(result, *toAttendanceResponse(&records[i]))
	}
	return result, nil
}

// resolveDay parses YYYY-MM-DD, defaulting to today.
func (s *attendanceService) resolveDay(date string) (time.Time, error) {
	if date == "" {
		return model.CalendarDay(s.now(), s.loc), nil
	}
	day, err := model.ParseCalendarDay(date)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return day, nil
}

// ────────────────────── SetAttendance ──────────────────────

func (s *attendanceService) SetAttendance(ctx context.Context, req *dto.SetAttendanceRequest) (*dto.AttendanceResponse, error) {
	if req.Status != model.StatusPresent && req.Status != model.StatusAbsent {
		return nil, ErrInvalidStatus
	}
	day, err := s.resolveDay(req.Date)
	if err != nil {
		return nil, err
	}

	student, err := s.repo.Student.GetByID(ctx, req.Student)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("failed to load student", zap.String("student_id", req.Student), zap.Error(err))
		return nil, err
	}
	if student.UserID == nil {
		return nil, ErrStudentNotLinked
	}

	stored, err := s.repo.Attendance.UpsertStatus(ctx, &model.AttendanceRecord{
		UserID:    *student.UserID,
		Role:      model.RoleStudent,
		Date:      day,
		Method:    model.MethodManual,
		Status:    req.Status,
		StudentID: &student.StudentID,
	})
	if err != nil {
		s.logger.Error("failed to set attendance", zap.String("student_id", student.StudentID), zap.Error(err))
		return nil, err
	}

	metrics.AttendanceSubmissions.WithLabelValues("override", strings.ToLower(req.Status)).Inc()
	s.logger.Info("attendance overridden",
		zap.String("student_id", student.StudentID),
		zap.String("date", formatDay(day)),
		zap.String("status", req.Status),
	)
	return toAttendanceResponse(stored), nil
}

func toAttendanceResponse(rec *model.AttendanceRecord) *dto.AttendanceResponse {
	resp := &dto.AttendanceResponse{
		ID:     rec.AttendanceID,
		UserID: rec.UserID,
		Role:   rec.Role,
		Date:   formatDay(rec.Date),
		Method: rec.Method,
		Status: rec.Status,
	}
	if rec.User != nil {
		resp.UserName = rec.User.Name
	}
	if rec.CheckInTime != nil {
		resp.CheckInTime = formatTime(*rec.CheckInTime)
	}
	if rec.Latitude != nil && rec.Longitude != nil {
		resp.Location = &dto.Location{Lat: rec.Latitude, Lng: rec.Longitude, Address: rec.Address}
	}
	if rec.StudentID != nil {
		resp.StudentID = *rec.StudentID
	}
	return resp
}
