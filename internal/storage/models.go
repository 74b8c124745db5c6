package storage

import "database/sql"

type Customer struct {
	ID        int64
	Name      string
	Phone     string
	Note      string
	CreatedAt string
}

type Service struct {
	ID             int64
	Name           string
	UnitPriceCents int64
	DurationMin    int64
	CreatedAt      string
}

type Appointment struct {
	ID            int64
	CustomerID    int64
	DateIso       string
	StartTime     string
	TotalCents    int64
	PaymentMethod string
	Note          string
	CreatedAt     string
}

type AppointmentLineItem struct {
	ID             int64
	AppointmentID  int64
	ServiceID      sql.NullInt64
	Qty            int64
	UnitPriceCents int64
	DurationMin    int64
}
