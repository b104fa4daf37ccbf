package handler

import "library-management/backend/internal/service"

// Handler aggregates every HTTP handler.
type Handler struct {
	Auth       *AuthHandler
	Face       *FaceHandler
	Attendance *AttendanceHandler
	QRSession  *QRSessionHandler
	Salary     *SalaryHandler
	Staff      *StaffHandler
	Student    *StudentHandler
	Profile    *ProfileHandler
	Export     *ExportHandler
}

// NewHandler builds the aggregate over the service layer.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Face:       NewFaceHandler(svc.Face),
		Attendance: NewAttendanceHandler(svc.Attendance, svc.Calendar),
		QRSession:  NewQRSessionHandler(svc.QRSession),
		Salary:     NewSalaryHandler(svc.Salary),
		Staff:      NewStaffHandler(svc.Staff),
		Student:    NewStudentHandler(svc.Student),
		Profile:    NewProfileHandler(svc.Profile),
		Export:     NewExportHandler(svc.Export),
	}
}
