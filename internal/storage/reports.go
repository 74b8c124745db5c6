package storage

import (
	"context"
	"fmt"

	"salon/internal/core"
)

func (r *SQLiteRepository) CountCustomers(ctx context.Context) (int, error) {
	n, err := r.queries.CountCustomers(ctx)
	if err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return int(n), nil
}

func (r *SQLiteRepository) CountServices(ctx context.Context) (int, error) {
	n, err := r.queries.CountServices(ctx)
	if err != nil {
		return 0, fmt.Errorf("count services: %w", err)
	}
	return int(n), nil
}

// AppointmentTotals returns the count and revenue of appointments in range.
func (r *SQLiteRepository) AppointmentTotals(ctx context.Context, from, to core.Date) (int, core.Money, error) {
	row, err := r.queries.AppointmentTotalsBetween(ctx, from.String(), to.String())
	if err != nil {
		return 0, core.Money{}, fmt.Errorf("appointment totals: %w", err)
	}
	return int(row.Count), core.Cents(row.RevenueCents), nil
}

func (r *SQLiteRepository) RevenueByDay(ctx context.Context, from, to core.Date) ([]core.DailyRevenue, error) {
	rows, err := r.queries.RevenueByDay(ctx, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("revenue by day: %w", err)
	}
	out := make([]core.DailyRevenue, 0, len(rows))
	for _, row := range rows {
		d, err := core.ParseDate(row.DateIso)
		if err != nil {
			return nil, fmt.Errorf("revenue by day: %w", err)
		}
		out = append(out, core.DailyRevenue{
			Date:         d,
			Appointments: int(row.Count),
			Revenue:      core.Cents(row.RevenueCents),
		})
	}
	return out, nil
}

// TopServices ranks catalog services by quantity booked in range.
func (r *SQLiteRepository) TopServices(ctx context.Context, from, to core.Date, limit int) ([]core.ServicePopularity, error) {
	rows, err := r.queries.TopServicesBetween(ctx, TopServicesBetweenParams{
		From:  from.String(),
		To:    to.String(),
		Limit: int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("top services: %w", err)
	}
	out := make([]core.ServicePopularity, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.ServicePopularity{
			ServiceID: row.ServiceID,
			Name:      row.Name,
			Quantity:  int(row.Quantity),
			Revenue:   core.Cents(row.RevenueCents),
		})
	}
	return out, nil
}
