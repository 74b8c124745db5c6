package worker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"salon/internal/amqp"
	"salon/internal/core"
	"salon/internal/sheets/memory"
	"salon/internal/storage"
)

type fakeAppointments map[int64]core.Appointment

func (f fakeAppointments) GetAppointment(_ context.Context, id int64) (core.Appointment, error) {
	a, ok := f[id]
	if !ok {
		return core.Appointment{}, fmt.Errorf("appointment: %w", storage.ErrNotFound)
	}
	return a, nil
}

type failingLedger struct{}

func (failingLedger) AppendEntry(context.Context, core.LedgerEntry) (string, error) {
	return "", errors.New("quota exceeded")
}

var fixedNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func newWorker(appts fakeAppointments, ledger interface {
	AppendEntry(context.Context, core.LedgerEntry) (string, error)
}) *LedgerWorker {
	w := NewLedgerWorker(appts, ledger)
	w.now = func() time.Time { return fixedNow }
	return w
}

func TestHandleEvent_Saved(t *testing.T) {
	appts := fakeAppointments{
		5: {
			ID:            5,
			CustomerName:  "Ana",
			Date:          core.NewDate(2025, 3, 14),
			Time:          "10:00",
			PaymentMethod: core.PaymentCash,
			Total:         core.Money{Cents: 11000},
			LineItems: []core.LineItem{
				{ServiceName: "Corte", Qty: 1, UnitPrice: core.Money{Cents: 5000}},
				{ServiceName: "Escova", Qty: 2, UnitPrice: core.Money{Cents: 3000}},
			},
		},
	}
	ledger := memory.New()
	w := newWorker(appts, ledger)

	msg := amqp.NewAppointmentEvent(amqp.EventAppointmentSaved, 5)
	if err := w.HandleEvent(context.Background(), msg); err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	entries := ledger.Entries()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	got := entries[0]
	if got.Customer != "Ana" || got.Total.Cents != 11000 || got.Services != "Corte, Escova x2" {
		t.Errorf("entry = %+v", got)
	}
	if !got.RecordedAt.Equal(fixedNow) {
		t.Errorf("RecordedAt = %v", got.RecordedAt)
	}
}

func TestHandleEvent_SavedButGone(t *testing.T) {
	ledger := memory.New()
	w := newWorker(fakeAppointments{}, ledger)

	if err := w.HandleEvent(context.Background(), amqp.NewAppointmentEvent(amqp.EventAppointmentSaved, 9)); err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}
	if len(ledger.Entries()) != 0 {
		t.Fatal("no entry expected for a vanished appointment")
	}
}

func TestHandleEvent_Deleted(t *testing.T) {
	ledger := memory.New()
	w := newWorker(fakeAppointments{}, ledger)

	if err := w.HandleEvent(context.Background(), amqp.NewAppointmentEvent(amqp.EventAppointmentDeleted, 9)); err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}
	entries := ledger.Entries()
	if len(entries) != 1 || entries[0].AppointmentID != 9 || entries[0].Event != amqp.EventAppointmentDeleted {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestHandleEvent_LedgerFailureIsRetried(t *testing.T) {
	w := newWorker(fakeAppointments{}, failingLedger{})

	err := w.HandleEvent(context.Background(), amqp.NewAppointmentEvent(amqp.EventAppointmentDeleted, 9))
	if err == nil {
		t.Fatal("expected error so the message is requeued")
	}
}
