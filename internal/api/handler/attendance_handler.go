package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"library-management/backend/internal/dto"
	"library-management/backend/internal/service"
	"library-management/backend/pkg/response"
)

// AttendanceHandler attendance endpoints.
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
	calendarSvc   service.CalendarService
}

// NewAttendanceHandler returns an AttendanceHandler.
func NewAttendanceHandler(attendanceSvc service.AttendanceService, calendarSvc service.CalendarService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc, calendarSvc: calendarSvc}
}

// SubmitQR POST /api/v1/attendance/qr
//
// 201 with the new record, 409 with today's record when already marked.
func (h *AttendanceHandler) SubmitQR(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	var req dto.QRAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	result, err := h.attendanceSvc.SubmitQR(c.Request.Context(), caller, &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}
	if !result.Created {
		response.Conflict(c, 14002, "attendance already marked for today", result.Record)
		return
	}
	response.Created(c, result.Record)
}

// SubmitSelf POST /api/v1/attendance/self
//
// Staff must pass faceMatch=true; without it the answer asks for face verification.
func (h *AttendanceHandler) SubmitSelf(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	var req dto.SelfAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	result, err := h.attendanceSvc.SubmitSelf(c.Request.Context(), caller, &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}
	switch {
	case result.RequiresFaceVerification:
		response.OK(c, dto.SelfAttendanceResponse{RequiresFaceVerification: true})
	case result.Created:
		response.Created(c, result.Record)
	default:
		response.OK(c, result.Record)
	}
}

// ListMine GET /api/v1/attendance/me?limit=N
func (h *AttendanceHandler) ListMine(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	var req dto.AttendanceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "limit must be a positive integer")
		return
	}

	result, err := h.attendanceSvc.ListMine(c.Request.Context(), caller, req.Limit)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}
	response.OK(c, result)
}

// MyCalendar GET /api/v1/attendance/me/calendar
func (h *AttendanceHandler) MyCalendar(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	feed, err := h.calendarSvc.MyAttendanceCalendar(c.Request.Context(), caller)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="attendance.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}

// ListByDate GET /api/v1/attendance?date=YYYY-MM-DD (Admin)
func (h *AttendanceHandler) ListByDate(c *gin.Context) {
	var req dto.AttendanceDateRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "date must be YYYY-MM-DD")
		return
	}

	result, err := h.attendanceSvc.ListByDate(c.Request.Context(), req.Date)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}
	response.OK(c, result)
}

// SetAttendance POST /api/v1/attendance (Admin)
func (h *AttendanceHandler) SetAttendance(c *gin.Context) {
	var req dto.SetAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "student and status are required")
		return
	}

	result, err := h.attendanceSvc.SetAttendance(c.Request.Context(), &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *AttendanceHandler) handleAttendanceError(c *gin.Context, err error) {
	var locked *service.AttendanceLockedError
	if errors.As(err, &locked) {
		response.Conflict(c, 14003, "attendance for today was set by an administrator", locked.Record)
		return
	}

	switch {
	case errors.Is(err, service.ErrQRTokenRequired):
		response.BadRequest(c, 13002, "QR token is required")
	case errors.Is(err, service.ErrQRTokenInvalid):
		response.BadRequest(c, 13001, "invalid or expired QR token")
	case errors.Is(err, service.ErrLocationRequired):
		response.BadRequest(c, 14001, "location is required")
	case errors.Is(err, service.ErrUnsupportedRole):
		response.Forbidden(c, 14004, "role cannot mark attendance")
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 14005, "student not found")
	case errors.Is(err, service.ErrStudentNotLinked):
		response.BadRequest(c, 14006, "student has no user account")
	case errors.Is(err, service.ErrInvalidStatus):
		response.BadRequest(c, 14007, "status must be Present or Absent")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 14008, "date must be YYYY-MM-DD")
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
