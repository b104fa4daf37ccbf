package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles carried in access tokens.
const (
	RoleAdmin   = "Admin"
	RoleStaff   = "Staff"
	RoleStudent = "Student"
)

// BaseModel audit columns embedded by every table.
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func newID() string { return uuid.NewString() }

// CalendarDay returns the calendar day t falls on in loc, encoded as midnight UTC.
// Every date column stores this encoding so keys compare equal across drivers.
func CalendarDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseCalendarDay parses YYYY-MM-DD into the CalendarDay encoding.
func ParseCalendarDay(s string) (time.Time, error) {
	return time.Parse(time.DateOnly, s)
}
