package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"salon/internal/core"
)

// SQLite caps bound parameters per statement; stay well below it.
const lineItemBatch = 500

// CreateAppointment stores the appointment and its line items in one
// transaction. The total is computed here from the resolved items.
func (r *SQLiteRepository) CreateAppointment(ctx context.Context, in core.AppointmentInput) (core.Appointment, error) {
	startTime, err := core.ParseTimeOfDay(in.Time)
	if err != nil {
		return core.Appointment{}, core.Invalid("time", "must be HH:MM (24-hour)")
	}

	var out core.Appointment
	err = r.withTx(ctx, func(q *Queries) error {
		if err := requireCustomer(ctx, q, in.CustomerID); err != nil {
			return err
		}
		items, err := resolveLineItems(ctx, q, in.LineItems)
		if err != nil {
			return err
		}
		total := core.ComputeTotal(items)

		id, err := q.CreateAppointment(ctx, CreateAppointmentParams{
			CustomerID:    in.CustomerID,
			DateIso:       in.Date.String(),
			StartTime:     startTime,
			TotalCents:    total.Cents,
			PaymentMethod: string(in.PaymentMethod),
			Note:          in.Note,
			CreatedAt:     r.timestamp(),
		})
		if err != nil {
			return fmt.Errorf("create appointment: %w", err)
		}
		if err := insertLineItems(ctx, q, id, items); err != nil {
			return err
		}
		out, err = loadAppointment(ctx, q, id)
		return err
	})
	if err != nil {
		return core.Appointment{}, err
	}

	slog.InfoContext(ctx, "Appointment saved",
		"id", out.ID,
		"date", out.Date.String(),
		"time", out.Time,
		"line_items", len(out.LineItems),
		"total_cents", out.Total.Cents)
	return out, nil
}

// UpdateAppointment applies patch in one transaction. A supplied line-item
// set fully replaces the stored one and the total is recomputed from it;
// otherwise items and total are left as they are.
func (r *SQLiteRepository) UpdateAppointment(ctx context.Context, id int64, patch core.AppointmentPatch) (core.Appointment, error) {
	var out core.Appointment
	err := r.withTx(ctx, func(q *Queries) error {
		row, err := q.GetAppointment(ctx, id)
		if err != nil {
			return notFound(err, "appointment")
		}
		params := UpdateAppointmentParams{
			CustomerID:    row.CustomerID,
			DateIso:       row.DateIso,
			StartTime:     row.StartTime,
			TotalCents:    row.TotalCents,
			PaymentMethod: row.PaymentMethod,
			Note:          row.Note,
			ID:            id,
		}

		if patch.CustomerID != nil && *patch.CustomerID != row.CustomerID {
			if err := requireCustomer(ctx, q, *patch.CustomerID); err != nil {
				return err
			}
			params.CustomerID = *patch.CustomerID
		}
		if patch.Date != nil {
			params.DateIso = patch.Date.String()
		}
		if patch.Time != nil {
			t, err := core.ParseTimeOfDay(*patch.Time)
			if err != nil {
				return core.Invalid("time", "must be HH:MM (24-hour)")
			}
			params.StartTime = t
		}
		if patch.PaymentMethod != nil {
			params.PaymentMethod = string(*patch.PaymentMethod)
		}
		if patch.Note != nil {
			params.Note = *patch.Note
		}

		if patch.ReplacesLineItems() {
			items, err := resolveLineItems(ctx, q, patch.LineItems)
			if err != nil {
				return err
			}
			if err := q.DeleteLineItemsForAppointment(ctx, id); err != nil {
				return fmt.Errorf("delete line items: %w", err)
			}
			if err := insertLineItems(ctx, q, id, items); err != nil {
				return err
			}
			params.TotalCents = core.ComputeTotal(items).Cents
		}

		if err := q.UpdateAppointment(ctx, params); err != nil {
			return fmt.Errorf("update appointment: %w", err)
		}
		out, err = loadAppointment(ctx, q, id)
		return err
	})
	if err != nil {
		return core.Appointment{}, err
	}

	slog.InfoContext(ctx, "Appointment updated",
		"id", id,
		"replaced_line_items", patch.ReplacesLineItems(),
		"total_cents", out.Total.Cents)
	return out, nil
}

// DeleteAppointment removes the appointment; its line items cascade.
// It reports whether a row was actually removed.
func (r *SQLiteRepository) DeleteAppointment(ctx context.Context, id int64) (bool, error) {
	n, err := r.queries.DeleteAppointment(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete appointment: %w", err)
	}
	if n > 0 {
		slog.InfoContext(ctx, "Appointment deleted", "id", id)
	}
	return n > 0, nil
}

// GetAppointment returns the appointment with customer and line items, or
// ErrNotFound.
func (r *SQLiteRepository) GetAppointment(ctx context.Context, id int64) (core.Appointment, error) {
	return loadAppointment(ctx, r.queries, id)
}

// ListAppointmentsByDate returns the day's appointments by start time.
func (r *SQLiteRepository) ListAppointmentsByDate(ctx context.Context, d core.Date) ([]core.Appointment, error) {
	rows, err := r.queries.ListAppointmentsByDate(ctx, d.String())
	if err != nil {
		return nil, fmt.Errorf("list appointments by date: %w", err)
	}
	return hydrate(ctx, r.queries, rows)
}

// ListAppointmentsBetween returns appointments with from <= date <= to,
// ordered by date then start time. limit <= 0 returns every match.
func (r *SQLiteRepository) ListAppointmentsBetween(ctx context.Context, from, to core.Date, limit int) ([]core.Appointment, error) {
	lim := int64(limit)
	if lim <= 0 {
		lim = -1
	}
	rows, err := r.queries.ListAppointmentsBetween(ctx, ListAppointmentsBetweenParams{
		From:  from.String(),
		To:    to.String(),
		Limit: lim,
	})
	if err != nil {
		return nil, fmt.Errorf("list appointments between: %w", err)
	}
	return hydrate(ctx, r.queries, rows)
}

// ListAppointments returns the appointments matching every set filter field.
func (r *SQLiteRepository) ListAppointments(ctx context.Context, f core.AppointmentFilter) ([]core.Appointment, error) {
	var params ListAppointmentsFilteredParams
	if f.DateFrom != nil {
		params.DateFrom = f.DateFrom.String()
	}
	if f.DateTo != nil {
		params.DateTo = f.DateTo.String()
	}
	if f.CustomerID != nil {
		params.CustomerID = *f.CustomerID
	}
	rows, err := r.queries.ListAppointmentsFiltered(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return hydrate(ctx, r.queries, rows)
}

func requireCustomer(ctx context.Context, q *Queries, id int64) error {
	if _, err := q.GetCustomer(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("customer %d: %w", id, ErrCustomerNotFound)
		}
		return fmt.Errorf("get customer: %w", err)
	}
	return nil
}

// resolveLineItems checks every referenced service and fills the duration
// snapshot from the catalog when the caller left it out.
func resolveLineItems(ctx context.Context, q *Queries, inputs []core.LineItemInput) ([]core.LineItem, error) {
	if len(inputs) == 0 {
		return nil, core.Invalid("lineItems", "at least one line item is required")
	}
	items := make([]core.LineItem, 0, len(inputs))
	for i, in := range inputs {
		if in.Qty == nil || in.UnitPriceCents == nil {
			return nil, core.Invalid(fmt.Sprintf("lineItems[%d]", i), "qty and unitPriceCents are required")
		}
		svc, err := q.GetService(ctx, in.ServiceID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("service %d: %w", in.ServiceID, ErrServiceNotFound)
			}
			return nil, fmt.Errorf("get service: %w", err)
		}
		duration := int(svc.DurationMin)
		if in.DurationMin != nil {
			duration = *in.DurationMin
		}
		items = append(items, core.LineItem{
			ServiceID:   svc.ID,
			ServiceName: svc.Name,
			Qty:         *in.Qty,
			UnitPrice:   core.Cents(*in.UnitPriceCents),
			DurationMin: duration,
		})
	}
	return items, nil
}

func insertLineItems(ctx context.Context, q *Queries, appointmentID int64, items []core.LineItem) error {
	for i, it := range items {
		err := q.CreateLineItem(ctx, CreateLineItemParams{
			AppointmentID:  appointmentID,
			ServiceID:      sql.NullInt64{Int64: it.ServiceID, Valid: it.ServiceID > 0},
			Qty:            int64(it.Qty),
			UnitPriceCents: it.UnitPrice.Cents,
			DurationMin:    int64(it.DurationMin),
		})
		if err != nil {
			return fmt.Errorf("create line item %d: %w", i, err)
		}
	}
	return nil
}

func loadAppointment(ctx context.Context, q *Queries, id int64) (core.Appointment, error) {
	row, err := q.GetAppointment(ctx, id)
	if err != nil {
		return core.Appointment{}, notFound(err, "appointment")
	}
	appts, err := hydrate(ctx, q, []AppointmentRow{row})
	if err != nil {
		return core.Appointment{}, err
	}
	return appts[0], nil
}

// hydrate converts rows and attaches each appointment's line items.
func hydrate(ctx context.Context, q *Queries, rows []AppointmentRow) ([]core.Appointment, error) {
	out := make([]core.Appointment, len(rows))
	index := make(map[int64]int, len(rows))
	ids := make([]int64, len(rows))
	for i, row := range rows {
		out[i] = toCoreAppointment(row)
		out[i].LineItems = []core.LineItem{}
		index[row.ID] = i
		ids[i] = row.ID
	}

	for start := 0; start < len(ids); start += lineItemBatch {
		end := min(start+lineItemBatch, len(ids))
		items, err := q.ListLineItemsForAppointments(ctx, ids[start:end])
		if err != nil {
			return nil, fmt.Errorf("list line items: %w", err)
		}
		for _, it := range items {
			i, ok := index[it.AppointmentID]
			if !ok {
				continue
			}
			out[i].LineItems = append(out[i].LineItems, toCoreLineItem(it))
		}
	}
	return out, nil
}

func toCoreAppointment(row AppointmentRow) core.Appointment {
	d, err := core.ParseDate(row.DateIso)
	if err != nil {
		slog.Warn("Stored appointment has malformed date", "id", row.ID, "date", row.DateIso)
	}
	return core.Appointment{
		ID:            row.ID,
		CustomerID:    row.CustomerID,
		CustomerName:  row.CustomerName,
		CustomerPhone: row.CustomerPhone,
		Date:          d,
		Time:          row.StartTime,
		Total:         core.Cents(row.TotalCents),
		PaymentMethod: core.PaymentMethod(row.PaymentMethod),
		Note:          row.Note,
		CreatedAt:     parseTimestamp(row.CreatedAt),
	}
}

func toCoreLineItem(row LineItemRow) core.LineItem {
	return core.LineItem{
		ID:            row.ID,
		AppointmentID: row.AppointmentID,
		ServiceID:     row.ServiceID.Int64,
		ServiceName:   row.ServiceName.String,
		Qty:           int(row.Qty),
		UnitPrice:     core.Cents(row.UnitPriceCents),
		DurationMin:   int(row.DurationMin),
	}
}
