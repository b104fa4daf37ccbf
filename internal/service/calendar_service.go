package service

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"library-management/backend/internal/repository"
)

const calendarHistoryDays = 366

// CalendarService publishes a user's attendance history as an iCalendar feed.
type CalendarService interface {
	MyAttendanceCalendar(ctx context.Context, caller Caller) (string, error)
}

type calendarService struct {
	repo   *repository.Repository
	loc    *time.Location
	now    Clock
	logger *zap.Logger
}

// NewCalendarService returns a CalendarService.
func NewCalendarService(repo *repository.Repository, loc *time.Location, clock Clock, logger *zap.Logger) CalendarService {
	return &calendarService{repo: repo, loc: loc, now: clock, logger: logger}
}

// MyAttendanceCalendar emits one all-day event per recorded day, newest first.
func (s *calendarService) MyAttendanceCalendar(ctx context.Context, caller Caller) (string, error) {
	records, err := s.repo.Attendance.ListByUser(ctx, caller.UserID, caller.Role, calendarHistoryDays)
	if err != nil {
		s.logger.Error("failed to list attendance for calendar", zap.String("user_id", caller.UserID), zap.Error(err))
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//library-management//attendance//EN")
	cal.SetXWRCalName("Library attendance")
	cal.SetXWRTimezone(s.loc.String())

	stamp := s.now().UTC()
	for i := range records {
		rec := &records[i]
		// stored days are UTC midnight of the local calendar day
		y, m, d := rec.Date.UTC().Date()
		start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

		evt := cal.AddEvent(rec.AttendanceID + "@library-management")
		evt.SetDtStampTime(stamp)
		evt.SetAllDayStartAt(start)
		evt.SetAllDayEndAt(start.AddDate(0, 0, 1))
		evt.SetSummary(fmt.Sprintf("%s (%s)", rec.Status, rec.Method))
		if rec.CheckInTime != nil {
			evt.SetDescription("Checked in at " + rec.CheckInTime.In(s.loc).Format("15:04"))
		}
		if rec.Address != "" {
			evt.SetLocation(rec.Address)
		}
	}

	return cal.Serialize(), nil
}
