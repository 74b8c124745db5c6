package core

import (
	"errors"
	"strings"
	"time"
)

// TopServicesLimit caps the popular services list of a report.
const TopServicesLimit = 5

type (
	ReportTotals struct {
		Customers     int   `json:"customers"`
		Services      int   `json:"services"`
		Appointments  int   `json:"appointments"`
		Revenue       Money `json:"revenueCents"`
		AverageTicket Money `json:"averageTicketCents"`
	}

	DailyRevenue struct {
		Date         Date  `json:"date"`
		Appointments int   `json:"appointments"`
		Revenue      Money `json:"revenueCents"`
	}

	ServicePopularity struct {
		ServiceID int64  `json:"serviceId"`
		Name      string `json:"name"`
		Quantity  int    `json:"quantity"`
		Revenue   Money  `json:"revenueCents"`
	}

	Report struct {
		From        Date                `json:"from"`
		To          Date                `json:"to"`
		Totals      ReportTotals        `json:"totals"`
		ByDay       []DailyRevenue      `json:"byDay"`
		TopServices []ServicePopularity `json:"topServices"`
	}
)

// LedgerEntry is one bookkeeping row mirrored to the external ledger.
type LedgerEntry struct {
	Event         string
	AppointmentID int64
	Date          Date
	Time          string
	Customer      string
	Services      string
	PaymentMethod PaymentMethod
	Total         Money
	RecordedAt    time.Time
}

var ErrEmptyEvent = errors.New("empty ledger event")

func (e LedgerEntry) Validate() error {
	if strings.TrimSpace(e.Event) == "" {
		return ErrEmptyEvent
	}
	if e.AppointmentID <= 0 {
		return errors.New("ledger entry needs an appointment id")
	}
	return e.Total.Validate()
}

// LedgerEntryFor builds the ledger row describing appt.
func LedgerEntryFor(event string, appt Appointment, at time.Time) LedgerEntry {
	return LedgerEntry{
		Event:         event,
		AppointmentID: appt.ID,
		Date:          appt.Date,
		Time:          appt.Time,
		Customer:      appt.CustomerName,
		Services:      appt.ServiceNames(),
		PaymentMethod: appt.PaymentMethod,
		Total:         appt.Total,
		RecordedAt:    at.UTC(),
	}
}
