package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"salon/internal/core"
)

func validationField(t *testing.T, err error) string {
	t.Helper()
	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *core.ValidationError", err)
	}
	return verr.Field
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string // empty means success
	}{
		{name: "valid object", body: `{"name":"Ana"}`},
		{name: "empty body", body: "", wantField: "body"},
		{name: "two objects", body: `{"name":"Ana"}{"name":"Bia"}`, wantField: "body"},
		{name: "wrong type", body: `{"name":42}`, wantField: "name"},
		{name: "truncated", body: `{"name":`, wantField: "body"},
		{name: "too large", body: `{"name":"` + strings.Repeat("a", maxBodyBytes) + `"}`, wantField: "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst customerRequest
			err := decodeJSON(httptest.NewRecorder(), req, &dst)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("decodeJSON: %v", err)
				}
				if dst.Name == nil || *dst.Name != "Ana" {
					t.Fatalf("decoded = %+v", dst)
				}
				return
			}
			if got := validationField(t, err); got != tt.wantField {
				t.Errorf("field = %q, want %q", got, tt.wantField)
			}
		})
	}
}

func TestQueryID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"7", 7, false},
		{" 12 ", 12, false},
		{"", 0, true},
		{"0", 0, true},
		{"-3", 0, true},
		{"1.5", 0, true},
	}
	for _, tt := range tests {
		got, err := queryID(url.Values{"id": {tt.raw}})
		if (err != nil) != tt.wantErr {
			t.Errorf("queryID(%q) err = %v, wantErr %v", tt.raw, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("queryID(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestOptionalParams(t *testing.T) {
	q := url.Values{"date": {"2025-03-14"}, "bad": {"2025-13-01"}, "month": {"3"}, "word": {"three"}}

	d, err := optionalDate(q, "date")
	if err != nil || d == nil || d.String() != "2025-03-14" {
		t.Fatalf("optionalDate(date) = %v, %v", d, err)
	}
	if d, err := optionalDate(q, "missing"); d != nil || err != nil {
		t.Fatalf("optionalDate(missing) = %v, %v", d, err)
	}
	if _, err := optionalDate(q, "bad"); validationField(t, err) != "bad" {
		t.Fatal("bad date should name its parameter")
	}

	n, err := optionalInt(q, "month")
	if err != nil || n == nil || *n != 3 {
		t.Fatalf("optionalInt(month) = %v, %v", n, err)
	}
	if _, err := optionalInt(q, "word"); validationField(t, err) != "word" {
		t.Fatal("non-numeric int should name its parameter")
	}
}

func TestCreateAppointmentRequestToInput(t *testing.T) {
	qty, price := 2, int64(3000)
	req := createAppointmentRequest{
		CustomerID:    4,
		Date:          "2025-03-14",
		Time:          " 9:30 ",
		PaymentMethod: "Dinheiro",
		LineItems:     []lineItemRequest{{ServiceID: 1, Qty: &qty, UnitPriceCents: &price}},
	}
	in, err := req.toInput()
	if err != nil {
		t.Fatalf("toInput: %v", err)
	}
	if in.PaymentMethod != core.PaymentCash || in.Time != "9:30" || in.Date.String() != "2025-03-14" {
		t.Fatalf("input = %+v", in)
	}
	if len(in.LineItems) != 1 || *in.LineItems[0].Qty != 2 || in.LineItems[0].DurationMin != nil {
		t.Fatalf("line items = %+v", in.LineItems)
	}

	req.PaymentMethod = "boleto"
	if _, err := req.toInput(); validationField(t, err) != "paymentMethod" {
		t.Fatal("unknown payment method should be rejected")
	}
}

func TestUpdateAppointmentRequestToPatch(t *testing.T) {
	var req updateAppointmentRequest
	patch, err := req.toPatch()
	if err != nil {
		t.Fatalf("toPatch: %v", err)
	}
	if patch.ReplacesLineItems() || patch.Date != nil || patch.PaymentMethod != nil {
		t.Fatalf("empty request should leave everything untouched: %+v", patch)
	}

	req.LineItems = []lineItemRequest{}
	patch, _ = req.toPatch()
	if !patch.ReplacesLineItems() {
		t.Fatal("explicit empty array should be kept as a replacement")
	}

	bad := "14/03/2025"
	req.Date = &bad
	if _, err := req.toPatch(); validationField(t, err) != "date" {
		t.Fatal("bad date should be rejected")
	}
}

func TestServiceRequestToService(t *testing.T) {
	name, price, dur := "Corte", int64(5000), 30
	tests := []struct {
		name      string
		req       serviceRequest
		wantField string
	}{
		{"complete", serviceRequest{Name: &name, UnitPriceCents: &price, DurationMin: &dur}, ""},
		{"no name", serviceRequest{UnitPriceCents: &price, DurationMin: &dur}, "name"},
		{"no price", serviceRequest{Name: &name, DurationMin: &dur}, "unitPriceCents"},
		{"no duration", serviceRequest{Name: &name, UnitPriceCents: &price}, "durationMin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := tt.req.toService()
			if tt.wantField == "" {
				if err != nil || svc.UnitPrice.Cents != 5000 || svc.DurationMin != 30 {
					t.Fatalf("toService = %+v, %v", svc, err)
				}
				return
			}
			if got := validationField(t, err); got != tt.wantField {
				t.Errorf("field = %q, want %q", got, tt.wantField)
			}
		})
	}
}

func TestDescribeFilter(t *testing.T) {
	from := core.NewDate(2025, 3, 1)
	id := int64(9)
	got := describeFilter(core.AppointmentFilter{DateFrom: &from, CustomerID: &id})
	if got != "from=2025-03-01 customer=9" {
		t.Fatalf("describeFilter = %q", got)
	}
	if got := describeFilter(core.AppointmentFilter{}); got != "" {
		t.Fatalf("empty filter = %q", got)
	}
}
