package repository

import "gorm.io/gorm"

// Repository aggregates every data-access interface.
type Repository struct {
	User       UserRepository
	Student    StudentRepository
	Staff      StaffRepository
	Attendance AttendanceRepository
	QRSession  QRSessionRepository
	Salary     SalaryRepository
}

// NewRepository builds the aggregate over an injected handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:       NewUserRepo(db),
		Student:    NewStudentRepo(db),
		Staff:      NewStaffRepo(db),
		Attendance: NewAttendanceRepo(db),
		QRSession:  NewQRSessionRepo(db),
		Salary:     NewSalaryRepo(db),
	}
}
