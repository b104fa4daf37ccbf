package service

import (
	"time"

	"library-management/backend/internal/model"
)

// Clock supplies the current instant. Tests replace it with a fixed time.
type Clock func() time.Time

// Caller is the identity resolved from the request's access token.
type Caller struct {
	UserID string
	Role   string
}

// startOfDay is local midnight of the day containing t.
func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// nextMidnight is local midnight of the day after t.
func nextMidnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, loc)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatDay(t time.Time) string {
	return t.Format(time.DateOnly)
}

func isAttendeeRole(role string) bool {
	return role == model.RoleStudent || role == model.RoleStaff
}
