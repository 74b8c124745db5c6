package storage

import (
	"context"
)

const appointmentTotalsBetween = `
SELECT COUNT(*), COALESCE(SUM(total_cents), 0)
FROM appointments
WHERE date_iso BETWEEN ? AND ?
`

type AppointmentTotalsRow struct {
	Count        int64
	RevenueCents int64
}

func (q *Queries) AppointmentTotalsBetween(ctx context.Context, from, to string) (AppointmentTotalsRow, error) {
	row := q.db.QueryRowContext(ctx, appointmentTotalsBetween, from, to)
	var i AppointmentTotalsRow
	err := row.Scan(&i.Count, &i.RevenueCents)
	return i, err
}

const revenueByDay = `
SELECT date_iso, COUNT(*), COALESCE(SUM(total_cents), 0)
FROM appointments
WHERE date_iso BETWEEN ? AND ?
GROUP BY date_iso
ORDER BY date_iso
`

type RevenueByDayRow struct {
	DateIso      string
	Count        int64
	RevenueCents int64
}

func (q *Queries) RevenueByDay(ctx context.Context, from, to string) ([]RevenueByDayRow, error) {
	rows, err := q.db.QueryContext(ctx, revenueByDay, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []RevenueByDayRow
	for rows.Next() {
		var i RevenueByDayRow
		if err := rows.Scan(&i.DateIso, &i.Count, &i.RevenueCents); err != nil {
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

const topServicesBetween = `
SELECT li.service_id, s.name, SUM(li.qty) AS quantity, SUM(li.qty * li.unit_price_cents) AS revenue
FROM appointment_line_items li
JOIN appointments a ON a.id = li.appointment_id
JOIN services s ON s.id = li.service_id
WHERE a.date_iso BETWEEN ? AND ?
GROUP BY li.service_id, s.name
ORDER BY quantity DESC, revenue DESC, s.name
LIMIT ?
`

type TopServicesBetweenParams struct {
	From  string
	To    string
	Limit int64
}

type TopServiceRow struct {
	ServiceID    int64
	Name         string
	Quantity     int64
	RevenueCents int64
}

func (q *Queries) TopServicesBetween(ctx context.Context, arg TopServicesBetweenParams) ([]TopServiceRow, error) {
	rows, err := q.db.QueryContext(ctx, topServicesBetween, arg.From, arg.To, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TopServiceRow
	for rows.Next() {
		var i TopServiceRow
		if err := rows.Scan(&i.ServiceID, &i.Name, &i.Quantity, &i.RevenueCents); err != nil {
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
