package dto

// ── attendance ──

// Location client-reported coordinates. Both Lat and Lng must be present to count.
type Location struct {
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
	Address string   `json:"address" binding:"omitempty,max=255"`
}

// Complete reports whether both coordinates were supplied.
func (l *Location) Complete() bool {
	return l != nil && l.Lat != nil && l.Lng != nil
}

// QRAttendanceRequest POST /attendance/qr
type QRAttendanceRequest struct {
	QRToken  string    `json:"qrToken"`
	Location *Location `json:"location"`
}

// SelfAttendanceRequest POST /attendance/self
type SelfAttendanceRequest struct {
	Location  *Location `json:"location"`
	FaceMatch bool      `json:"faceMatch"`
}

// SetAttendanceRequest POST /attendance (admin override)
type SetAttendanceRequest struct {
	Student string `json:"student" binding:"required"`
	Date    string `json:"date"` // YYYY-MM-DD, empty means today
	Status  string `json:"status"  binding:"required"`
}

// AttendanceListRequest GET /attendance/me
type AttendanceListRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

// AttendanceDateRequest GET /attendance
type AttendanceDateRequest struct {
	Date string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

// AttendanceResponse one attendance record.
type AttendanceResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName,omitempty"`
	Role        string    `json:"role"`
	Date        string    `json:"date"`
	CheckInTime string    `json:"checkInTime,omitempty"`
	Method      string    `json:"method"`
	Status      string    `json:"status"`
	Location    *Location `json:"location,omitempty"`
	StudentID   string    `json:"studentId,omitempty"`
}

// SelfAttendanceResponse body of a /attendance/self answer that created nothing.
type SelfAttendanceResponse struct {
	RequiresFaceVerification bool `json:"requiresFaceVerification"`
}
