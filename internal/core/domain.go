package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	PaymentPix  PaymentMethod = "pix"
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	maxNameLength = 120
	maxNoteLength = 1000

	// Bounds keep every appointment total well inside int64.
	MaxLineItemQty    = 1000
	MaxUnitPriceCents = 1_000_000_000
)

type (
	PaymentMethod string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Customer struct {
		ID        int64     `json:"id"`
		Name      string    `json:"name"`
		Phone     string    `json:"phone"`
		Note      string    `json:"note"`
		CreatedAt time.Time `json:"createdAt"`
	}

	Service struct {
		ID          int64     `json:"id"`
		Name        string    `json:"name"`
		UnitPrice   Money     `json:"unitPriceCents"`
		DurationMin int       `json:"durationMin"`
		CreatedAt   time.Time `json:"createdAt"`
	}

	// LineItem is one service quantity inside an appointment. Price and
	// duration are copied at booking time and never follow the catalog.
	LineItem struct {
		ID            int64  `json:"id"`
		AppointmentID int64  `json:"appointmentId"`
		ServiceID     int64  `json:"serviceId,omitempty"` // 0 once the service was removed from the catalog
		ServiceName   string `json:"serviceName"`
		Qty           int    `json:"qty"`
		UnitPrice     Money  `json:"unitPriceCents"`
		DurationMin   int    `json:"durationMin"`
	}

	Appointment struct {
		ID            int64         `json:"id"`
		CustomerID    int64         `json:"customerId"`
		CustomerName  string        `json:"customerName"`
		CustomerPhone string        `json:"customerPhone"`
		Date          Date          `json:"date"`
		Time          string        `json:"time"`
		Total         Money         `json:"totalCents"`
		PaymentMethod PaymentMethod `json:"paymentMethod"`
		Note          string        `json:"note"`
		CreatedAt     time.Time     `json:"createdAt"`
		LineItems     []LineItem    `json:"lineItems"`
	}

	// AppointmentFilter narrows a listing. Nil fields are ignored; an empty
	// filter matches every appointment.
	AppointmentFilter struct {
		DateFrom   *Date
		DateTo     *Date
		CustomerID *int64
	}
)

var (
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidTime          = errors.New("invalid time")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Invalid builds a *ValidationError for field.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseTimeOfDay validates a 24-hour HH:MM start time and returns it
// zero-padded, so "9:05" becomes "09:05".
func ParseTimeOfDay(s string) (string, error) {
	t, err := time.Parse(timeLayout, strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return t.Format(timeLayout), nil
}

// ParsePaymentMethod accepts the canonical codes plus the labels shown on the
// booking screen (PIX, Dinheiro, Cartão).
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pix":
		return PaymentPix, nil
	case "cash", "dinheiro":
		return PaymentCash, nil
	case "card", "cartão", "cartao":
		return PaymentCard, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, s)
}

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentPix, PaymentCash, PaymentCard:
		return true
	}
	return false
}

func (c Customer) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return Invalid("name", "is required")
	}
	if len(name) > maxNameLength {
		return Invalid("name", "too long (max %d characters)", maxNameLength)
	}
	if len(c.Note) > maxNoteLength {
		return Invalid("note", "too long (max %d characters)", maxNoteLength)
	}
	return nil
}

func (s Service) Validate() error {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		return Invalid("name", "is required")
	}
	if len(name) > maxNameLength {
		return Invalid("name", "too long (max %d characters)", maxNameLength)
	}
	if s.UnitPrice.Cents < 0 {
		return Invalid("unitPriceCents", "must be zero or positive")
	}
	if s.UnitPrice.Cents > MaxUnitPriceCents {
		return Invalid("unitPriceCents", "must be at most %d", MaxUnitPriceCents)
	}
	if s.DurationMin <= 0 {
		return Invalid("durationMin", "must be positive")
	}
	return nil
}
