package dto

import "time"

// ── students ──

// StudentResponse student profile.
type StudentResponse struct {
	ID              string     `json:"id"`
	UserID          *string    `json:"userId,omitempty"`
	FullName        string     `json:"fullName"`
	StudentCode     string     `json:"studentCode"`
	Phone           string     `json:"phone,omitempty"`
	Email           string     `json:"email,omitempty"`
	MembershipStart time.Time  `json:"membershipStart"`
	MembershipEnd   *time.Time `json:"membershipEnd,omitempty"`
	Status          string     `json:"status"`
}

// StudentAttendanceSummary month-to-date figures of one student.
type StudentAttendanceSummary struct {
	Month       string  `json:"month"`
	PresentDays int     `json:"presentDays"`
	TotalDays   int     `json:"totalDays"`
	Percentage  float64 `json:"percentage"`
}

// StudentSummaryResponse admin student listing row.
type StudentSummaryResponse struct {
	StudentResponse
	Attendance StudentAttendanceSummary `json:"attendance"`
}

// ProfileResponse GET /profile/me. Student and Staff are set by role.
type ProfileResponse struct {
	Role    string           `json:"role"`
	User    UserResponse     `json:"user"`
	Student *StudentResponse `json:"student,omitempty"`
	Staff   *StaffResponse   `json:"staff,omitempty"`
}
