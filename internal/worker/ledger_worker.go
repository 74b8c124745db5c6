package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"salon/internal/amqp"
	"salon/internal/core"
	applog "salon/internal/log"
	"salon/internal/sheets"
	"salon/internal/storage"
)

// AppointmentReader loads the current state of an appointment.
type AppointmentReader interface {
	GetAppointment(ctx context.Context, id int64) (core.Appointment, error)
}

// LedgerWorker mirrors appointment events into the bookkeeping ledger.
type LedgerWorker struct {
	appointments AppointmentReader
	ledger       sheets.LedgerWriter
	now          func() time.Time
}

func NewLedgerWorker(appointments AppointmentReader, ledger sheets.LedgerWriter) *LedgerWorker {
	return &LedgerWorker{
		appointments: appointments,
		ledger:       ledger,
		now:          time.Now,
	}
}

// HandleEvent processes one appointment event from AMQP. A returned error
// asks the consumer to retry the message.
func (w *LedgerWorker) HandleEvent(ctx context.Context, msg *amqp.AppointmentEvent) error {
	slog.InfoContext(ctx, "Processing appointment event",
		"event_id", msg.ID,
		"type", msg.Type,
		"appointment_id", msg.AppointmentID)

	var entry core.LedgerEntry
	switch msg.Type {
	case amqp.EventAppointmentSaved:
		appt, err := w.appointments.GetAppointment(ctx, msg.AppointmentID)
		if errors.Is(err, storage.ErrNotFound) {
			// deleted before we got here; the delete event records it
			slog.InfoContext(ctx, "Appointment gone, skipping saved event", "appointment_id", msg.AppointmentID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("get appointment from storage: %w", err)
		}
		entry = core.LedgerEntryFor(msg.Type, appt, w.now())
	case amqp.EventAppointmentDeleted:
		entry = core.LedgerEntry{
			Event:         msg.Type,
			AppointmentID: msg.AppointmentID,
			RecordedAt:    w.now().UTC(),
		}
	default:
		slog.WarnContext(ctx, "Ignoring unknown event type", "type", msg.Type)
		return nil
	}

	ref, err := w.ledger.AppendEntry(ctx, entry)
	if err != nil {
		return fmt.Errorf("append to ledger: %w", err)
	}

	slog.InfoContext(ctx, "Recorded ledger entry",
		applog.FieldComponent, applog.ComponentWorker,
		applog.FieldOperation, applog.OpAppend,
		applog.FieldAppointmentID, msg.AppointmentID,
		applog.FieldEvent, msg.Type,
		applog.FieldLedgerRef, ref,
		applog.FieldAmountCents, entry.Total.Cents)
	return nil
}
