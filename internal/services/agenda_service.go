package services

import (
	"context"
	"fmt"
	"time"

	"salon/internal/core"
)

type AgendaStore interface {
	ListAppointmentsByDate(ctx context.Context, d core.Date) ([]core.Appointment, error)
	ListAppointmentsBetween(ctx context.Context, from, to core.Date, limit int) ([]core.Appointment, error)
}

// AgendaService answers the day, upcoming and month views. "Today" is
// taken in the salon's configured location.
type AgendaService struct {
	store AgendaStore
	loc   *time.Location
	now   func() time.Time
}

func NewAgendaService(store AgendaStore, loc *time.Location) *AgendaService {
	if loc == nil {
		loc = time.UTC
	}
	return &AgendaService{store: store, loc: loc, now: time.Now}
}

func (s *AgendaService) Today() core.Date {
	return core.DateOf(s.now().In(s.loc))
}

// Day lists the appointments of d ordered by start time.
func (s *AgendaService) Day(ctx context.Context, d core.Date) ([]core.Appointment, error) {
	if err := d.Validate(); err != nil {
		return nil, core.Invalid("date", "must be YYYY-MM-DD")
	}
	return s.store.ListAppointmentsByDate(ctx, d)
}

// Upcoming lists at most core.UpcomingLimit appointments from today
// through the next core.UpcomingDays days.
func (s *AgendaService) Upcoming(ctx context.Context) ([]core.Appointment, error) {
	from, to := core.UpcomingWindow(s.Today())
	return s.store.ListAppointmentsBetween(ctx, from, to, core.UpcomingLimit)
}

// Month builds the grouped summary of a calendar month.
func (s *AgendaService) Month(ctx context.Context, year, month int) (core.MonthSummary, error) {
	if month < 1 || month > 12 {
		return core.MonthSummary{}, core.Invalid("month", "must be between 1 and 12")
	}
	if year < 1 || year > 9999 {
		return core.MonthSummary{}, core.Invalid("year", "must be a four-digit year")
	}
	from, to := core.MonthRange(year, month)
	appts, err := s.store.ListAppointmentsBetween(ctx, from, to, 0)
	if err != nil {
		return core.MonthSummary{}, fmt.Errorf("list month %04d-%02d: %w", year, month, err)
	}
	return core.BuildMonthSummary(year, month, appts), nil
}
