package model

import (
	"time"

	"gorm.io/gorm"
)

// Attendance methods.
const (
	MethodQR     = "QR"
	MethodFace   = "FACE"
	MethodManual = "MANUAL"
)

// Attendance statuses.
const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
)

// AttendanceRecord daily attendance, table attendance_records
//
// (user_id, role, date) is unique: one row per person, role and day.
type AttendanceRecord struct {
	AttendanceID string     `gorm:"type:uuid;primaryKey"                                             json:"id"`
	UserID       string     `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_user_role_date,priority:1" json:"userId"`
	Role         string     `gorm:"type:varchar(20);not null;uniqueIndex:idx_attendance_user_role_date,priority:2" json:"role"`
	Date         time.Time  `gorm:"type:date;not null;uniqueIndex:idx_attendance_user_role_date,priority:3;index" json:"date"`
	CheckInTime  *time.Time `json:"checkInTime,omitempty"`
	Method       string     `gorm:"type:varchar(10);not null"                                        json:"method"` // QR | FACE | MANUAL
	Latitude     *float64   `json:"lat,omitempty"`
	Longitude    *float64   `json:"lng,omitempty"`
	Address      string     `gorm:"type:varchar(255)"                                                json:"address,omitempty"`
	Status       string     `gorm:"type:varchar(10);not null"                                        json:"status"` // Present | Absent
	StudentID    *string    `gorm:"type:uuid;index"                                                  json:"studentId,omitempty"`
	BaseModel

	User *User `gorm:"foreignKey:UserID;references:UserID" json:"-"`
}

// TableName attendance_records
func (AttendanceRecord) TableName() string { return "attendance_records" }

// BeforeCreate assigns the primary key.
func (a *AttendanceRecord) BeforeCreate(*gorm.DB) error {
	if a.AttendanceID == "" {
		a.AttendanceID = newID()
	}
	return nil
}
