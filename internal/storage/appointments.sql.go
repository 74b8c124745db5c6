package storage

import (
	"context"
	"database/sql"
	"strings"
)

// AppointmentRow is an appointment joined with its customer.
type AppointmentRow struct {
	Appointment
	CustomerName  string
	CustomerPhone string
}

// LineItemRow is a line item joined with its (possibly deleted) service.
type LineItemRow struct {
	AppointmentLineItem
	ServiceName sql.NullString
}

const appointmentColumns = `
a.id, a.customer_id, a.date_iso, a.start_time, a.total_cents, a.payment_method, a.note, a.created_at,
c.name, c.phone
`

func scanAppointmentRow(sc interface{ Scan(...any) error }) (AppointmentRow, error) {
	var i AppointmentRow
	err := sc.Scan(
		&i.ID, &i.CustomerID, &i.DateIso, &i.StartTime, &i.TotalCents, &i.PaymentMethod, &i.Note, &i.CreatedAt,
		&i.CustomerName, &i.CustomerPhone,
	)
	return i, err
}

func (q *Queries) queryAppointmentRows(ctx context.Context, query string, args ...interface{}) ([]AppointmentRow, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []AppointmentRow
	for rows.Next() {
		i, err := scanAppointmentRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createAppointment = `
INSERT INTO appointments (customer_id, date_iso, start_time, total_cents, payment_method, note, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id
`

type CreateAppointmentParams struct {
	CustomerID    int64
	DateIso       string
	StartTime     string
	TotalCents    int64
	PaymentMethod string
	Note          string
	CreatedAt     string
}

func (q *Queries) CreateAppointment(ctx context.Context, arg CreateAppointmentParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createAppointment,
		arg.CustomerID, arg.DateIso, arg.StartTime, arg.TotalCents, arg.PaymentMethod, arg.Note, arg.CreatedAt)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const updateAppointment = `
UPDATE appointments
SET customer_id = ?, date_iso = ?, start_time = ?, total_cents = ?, payment_method = ?, note = ?
WHERE id = ?
`

type UpdateAppointmentParams struct {
	CustomerID    int64
	DateIso       string
	StartTime     string
	TotalCents    int64
	PaymentMethod string
	Note          string
	ID            int64
}

func (q *Queries) UpdateAppointment(ctx context.Context, arg UpdateAppointmentParams) error {
	_, err := q.db.ExecContext(ctx, updateAppointment,
		arg.CustomerID, arg.DateIso, arg.StartTime, arg.TotalCents, arg.PaymentMethod, arg.Note, arg.ID)
	return err
}

const deleteAppointment = `
DELETE FROM appointments WHERE id = ?
`

func (q *Queries) DeleteAppointment(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteAppointment, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

var getAppointment = `
SELECT` + appointmentColumns + `FROM appointments a
JOIN customers c ON c.id = a.customer_id
WHERE a.id = ?
`

func (q *Queries) GetAppointment(ctx context.Context, id int64) (AppointmentRow, error) {
	return scanAppointmentRow(q.db.QueryRowContext(ctx, getAppointment, id))
}

var listAppointmentsByDate = `
SELECT` + appointmentColumns + `FROM appointments a
JOIN customers c ON c.id = a.customer_id
WHERE a.date_iso = ?
ORDER BY a.start_time, a.id
`

func (q *Queries) ListAppointmentsByDate(ctx context.Context, dateIso string) ([]AppointmentRow, error) {
	return q.queryAppointmentRows(ctx, listAppointmentsByDate, dateIso)
}

var listAppointmentsBetween = `
SELECT` + appointmentColumns + `FROM appointments a
JOIN customers c ON c.id = a.customer_id
WHERE a.date_iso BETWEEN ? AND ?
ORDER BY a.date_iso, a.start_time, a.id
LIMIT ?
`

type ListAppointmentsBetweenParams struct {
	From  string
	To    string
	Limit int64 // negative means unbounded
}

func (q *Queries) ListAppointmentsBetween(ctx context.Context, arg ListAppointmentsBetweenParams) ([]AppointmentRow, error) {
	return q.queryAppointmentRows(ctx, listAppointmentsBetween, arg.From, arg.To, arg.Limit)
}

var listAppointmentsFiltered = `
SELECT` + appointmentColumns + `FROM appointments a
JOIN customers c ON c.id = a.customer_id
WHERE (? = '' OR a.date_iso >= ?)
  AND (? = '' OR a.date_iso <= ?)
  AND (? = 0 OR a.customer_id = ?)
ORDER BY a.date_iso, a.start_time, a.id
`

// ListAppointmentsFilteredParams uses zero values to mean "no filter".
type ListAppointmentsFilteredParams struct {
	DateFrom   string
	DateTo     string
	CustomerID int64
}

func (q *Queries) ListAppointmentsFiltered(ctx context.Context, arg ListAppointmentsFilteredParams) ([]AppointmentRow, error) {
	return q.queryAppointmentRows(ctx, listAppointmentsFiltered,
		arg.DateFrom, arg.DateFrom,
		arg.DateTo, arg.DateTo,
		arg.CustomerID, arg.CustomerID,
	)
}

const createLineItem = `
INSERT INTO appointment_line_items (appointment_id, service_id, qty, unit_price_cents, duration_min)
VALUES (?, ?, ?, ?, ?)
`

type CreateLineItemParams struct {
	AppointmentID  int64
	ServiceID      sql.NullInt64
	Qty            int64
	UnitPriceCents int64
	DurationMin    int64
}

func (q *Queries) CreateLineItem(ctx context.Context, arg CreateLineItemParams) error {
	_, err := q.db.ExecContext(ctx, createLineItem,
		arg.AppointmentID, arg.ServiceID, arg.Qty, arg.UnitPriceCents, arg.DurationMin)
	return err
}

const deleteLineItemsForAppointment = `
DELETE FROM appointment_line_items WHERE appointment_id = ?
`

func (q *Queries) DeleteLineItemsForAppointment(ctx context.Context, appointmentID int64) error {
	_, err := q.db.ExecContext(ctx, deleteLineItemsForAppointment, appointmentID)
	return err
}

const listLineItemsForAppointments = `
SELECT li.id, li.appointment_id, li.service_id, li.qty, li.unit_price_cents, li.duration_min, s.name
FROM appointment_line_items li
LEFT JOIN services s ON s.id = li.service_id
WHERE li.appointment_id IN (/*SLICE:ids*/?)
ORDER BY li.appointment_id, li.id
`

// ListLineItemsForAppointments loads the items of every appointment in ids.
func (q *Queries) ListLineItemsForAppointments(ctx context.Context, ids []int64) ([]LineItemRow, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := listLineItemsForAppointments
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query = strings.Replace(query, "/*SLICE:ids*/?", strings.Repeat(",?", len(ids))[1:], 1)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []LineItemRow
	for rows.Next() {
		var i LineItemRow
		if err := rows.Scan(
			&i.ID, &i.AppointmentID, &i.ServiceID, &i.Qty, &i.UnitPriceCents, &i.DurationMin, &i.ServiceName,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
