package core

import "time"

const (
	// UpcomingDays is the inclusive look-ahead of the upcoming agenda.
	UpcomingDays = 7
	// UpcomingLimit caps the upcoming agenda.
	UpcomingLimit = 20
)

// MonthStats summarises a month of appointments.
type MonthStats struct {
	TotalRevenue         Money `json:"totalRevenueCents"`
	TotalAppointments    int   `json:"totalAppointments"`
	DaysWithAppointments int   `json:"daysWithAppointments"`
	AverageTicket        Money `json:"averageTicketCents"`
}

// MonthSummary is a month's appointments grouped by ISO date.
type MonthSummary struct {
	Year  int                      `json:"year"`
	Month int                      `json:"month"` // 1-12
	From  Date                     `json:"from"`
	To    Date                     `json:"to"`
	Days  map[string][]Appointment `json:"days"`
	Stats MonthStats               `json:"stats"`
}

// MonthRange returns the first and last calendar day of the month.
func MonthRange(year, month int) (Date, Date) {
	first := NewDate(year, month, 1)
	// day 0 of the next month is the last day of this one
	last := Date{Time: time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)}
	return first, last
}

// UpcomingWindow returns the inclusive [today, today+UpcomingDays] range.
func UpcomingWindow(today Date) (Date, Date) {
	return today, today.AddDays(UpcomingDays)
}

// AverageTicket rounds revenue/count half-up; zero appointments yield zero.
func AverageTicket(revenue Money, count int) Money {
	if count <= 0 {
		return Money{}
	}
	n := int64(count)
	return Money{Cents: (revenue.Cents + n/2) / n}
}

// BuildMonthSummary groups appts by date. Input order is kept within each
// day, so callers pass rows ordered by date then start time.
func BuildMonthSummary(year, month int, appts []Appointment) MonthSummary {
	from, to := MonthRange(year, month)
	s := MonthSummary{
		Year:  year,
		Month: month,
		From:  from,
		To:    to,
		Days:  make(map[string][]Appointment),
	}
	for _, a := range appts {
		key := a.Date.String()
		s.Days[key] = append(s.Days[key], a)
		s.Stats.TotalRevenue = s.Stats.TotalRevenue.Add(a.Total)
		s.Stats.TotalAppointments++
	}
	s.Stats.DaysWithAppointments = len(s.Days)
	s.Stats.AverageTicket = AverageTicket(s.Stats.TotalRevenue, s.Stats.TotalAppointments)
	return s
}
