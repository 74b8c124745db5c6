package core

import (
	"errors"
	"testing"
	"time"
)

func validInput() AppointmentInput {
	return AppointmentInput{
		CustomerID:    1,
		Date:          NewDate(2025, 5, 10),
		Time:          "14:00",
		PaymentMethod: PaymentPix,
		LineItems: []LineItemInput{
			{ServiceID: 1, Qty: intp(1), UnitPriceCents: i64p(5000)},
		},
	}
}

func TestComputeTotal(t *testing.T) {
	cases := []struct {
		name  string
		items []LineItem
		want  int64
	}{
		{"empty", nil, 0},
		{"single", []LineItem{{Qty: 1, UnitPrice: Cents(5000)}}, 5000},
		{"mixed quantities", []LineItem{
			{Qty: 1, UnitPrice: Cents(5000)},
			{Qty: 2, UnitPrice: Cents(3000)},
		}, 11000},
		{"free item", []LineItem{{Qty: 3, UnitPrice: Cents(0)}, {Qty: 1, UnitPrice: Cents(1)}}, 1},
		{"largest accepted item", []LineItem{{Qty: MaxLineItemQty, UnitPrice: Cents(MaxUnitPriceCents)}}, 1_000_000_000_000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ComputeTotal(tc.items); got.Cents != tc.want {
				t.Fatalf("got %d want %d", got.Cents, tc.want)
			}
		})
	}
}

func TestAppointmentInputValidate(t *testing.T) {
	if err := validInput().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name  string
		mut   func(*AppointmentInput)
		field string
	}{
		{"missing customer", func(in *AppointmentInput) { in.CustomerID = 0 }, "customerId"},
		{"missing date", func(in *AppointmentInput) { in.Date = Date{} }, "date"},
		{"missing time", func(in *AppointmentInput) { in.Time = "" }, "time"},
		{"bad time", func(in *AppointmentInput) { in.Time = "25:00" }, "time"},
		{"missing payment", func(in *AppointmentInput) { in.PaymentMethod = "" }, "paymentMethod"},
		{"unknown payment", func(in *AppointmentInput) { in.PaymentMethod = "cheque" }, "paymentMethod"},
		{"empty line items", func(in *AppointmentInput) { in.LineItems = nil }, "lineItems"},
		{"empty non-nil line items", func(in *AppointmentInput) { in.LineItems = []LineItemInput{} }, "lineItems"},
		{"missing qty", func(in *AppointmentInput) { in.LineItems[0].Qty = nil }, "lineItems[0].qty"},
		{"zero qty", func(in *AppointmentInput) { in.LineItems[0].Qty = intp(0) }, "lineItems[0].qty"},
		{"missing price", func(in *AppointmentInput) { in.LineItems[0].UnitPriceCents = nil }, "lineItems[0].unitPriceCents"},
		{"negative price", func(in *AppointmentInput) { in.LineItems[0].UnitPriceCents = i64p(-1) }, "lineItems[0].unitPriceCents"},
		{"qty over limit", func(in *AppointmentInput) { in.LineItems[0].Qty = intp(MaxLineItemQty + 1) }, "lineItems[0].qty"},
		{"price over limit", func(in *AppointmentInput) { in.LineItems[0].UnitPriceCents = i64p(MaxUnitPriceCents + 1) }, "lineItems[0].unitPriceCents"},
		{"price that wraps the total", func(in *AppointmentInput) {
			in.LineItems[0].UnitPriceCents = i64p(1 << 62)
			in.LineItems[0].Qty = intp(4)
		}, "lineItems[0].unitPriceCents"},
		{"missing service", func(in *AppointmentInput) { in.LineItems[0].ServiceID = 0 }, "lineItems[0].serviceId"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mut(&in)
			var ve *ValidationError
			if err := in.Validate(); !errors.As(err, &ve) || ve.Field != tc.field {
				t.Fatalf("expected validation error on %s, got %v", tc.field, err)
			}
		})
	}
}

func TestAppointmentPatchValidate(t *testing.T) {
	if err := (AppointmentPatch{}).Validate(); err != nil {
		t.Fatalf("empty patch should be valid, got %v", err)
	}
	if (AppointmentPatch{}).ReplacesLineItems() {
		t.Fatalf("nil line items must not replace")
	}

	p := AppointmentPatch{LineItems: []LineItemInput{}}
	if !p.ReplacesLineItems() {
		t.Fatalf("non-nil line items must replace")
	}
	if err := p.Validate(); err == nil {
		t.Fatalf("empty replacement set must be rejected")
	}

	if err := (AppointmentPatch{Time: strp("7h")}).Validate(); err == nil {
		t.Fatalf("bad time must be rejected")
	}
	bad := PaymentMethod("barter")
	if err := (AppointmentPatch{PaymentMethod: &bad}).Validate(); err == nil {
		t.Fatalf("bad payment method must be rejected")
	}
}

func TestServiceNames(t *testing.T) {
	a := Appointment{LineItems: []LineItem{
		{ServiceName: "Corte", Qty: 1},
		{ServiceName: "Escova", Qty: 2},
		{Qty: 1},
	}}
	want := "Corte, Escova x2, (removed service)"
	if got := a.ServiceNames(); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestLedgerEntryFor(t *testing.T) {
	at := time.Date(2025, 5, 10, 15, 0, 0, 0, time.UTC)
	appt := Appointment{
		ID: 7, CustomerName: "Ana", Date: NewDate(2025, 5, 10), Time: "14:00",
		PaymentMethod: PaymentCard, Total: Cents(11000),
		LineItems: []LineItem{{ServiceName: "Corte", Qty: 1}},
	}
	e := LedgerEntryFor("appointment.saved", appt, at)
	if err := e.Validate(); err != nil {
		t.Fatalf("expected valid entry, got %v", err)
	}
	if e.Services != "Corte" || e.Total.Cents != 11000 || !e.RecordedAt.Equal(at) {
		t.Fatalf("unexpected entry %+v", e)
	}
	if err := (LedgerEntry{AppointmentID: 1}).Validate(); !errors.Is(err, ErrEmptyEvent) {
		t.Fatalf("expected ErrEmptyEvent, got %v", err)
	}
}
