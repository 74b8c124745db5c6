package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"salon/internal/core"
	applog "salon/internal/log"
	"salon/internal/services"
	"salon/internal/storage"
)

type testEnv struct {
	srv    *Server
	repo   *storage.SQLiteRepository
	agenda *services.AgendaService
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "salon.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	agenda := services.NewAgendaService(repo, time.UTC)
	deps := Deps{
		Appointments: services.NewAppointmentService(repo, nil),
		Agenda:       agenda,
		Catalog:      services.NewCatalogService(repo),
		Reports:      services.NewReportService(repo, time.UTC),
		Store:        repo,
		Logger:       applog.New(applog.Config{Level: slog.LevelError, Output: io.Discard}),
	}
	srv := NewServer(":0", deps, opts)
	t.Cleanup(srv.limiter.Stop)
	return &testEnv{srv: srv, repo: repo, agenda: agenda}
}

func (e *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	e.srv.Handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %T from %q: %v", v, rr.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status = %d, want %d; body=%s", rr.Code, want, rr.Body.String())
	}
}

func expectErrorCode(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) errorDetail {
	t.Helper()
	expectStatus(t, rr, status)
	body := decode[errorResponse](t, rr)
	if body.Error.Code != code {
		t.Fatalf("error code = %q, want %q (message %q)", body.Error.Code, code, body.Error.Message)
	}
	return body.Error
}

// seedCatalog creates one customer and one service through the API.
func (e *testEnv) seedCatalog(t *testing.T) (core.Customer, core.Service) {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/api/customers", `{"name":"Ana","phone":"5511999990000"}`)
	expectStatus(t, rr, http.StatusCreated)
	c := decode[core.Customer](t, rr)

	rr = e.do(t, http.MethodPost, "/api/services", `{"name":"Corte","unitPriceCents":5000,"durationMin":30}`)
	expectStatus(t, rr, http.StatusCreated)
	s := decode[core.Service](t, rr)
	return c, s
}

func appointmentBody(customerID, serviceID int64, date string) string {
	return fmt.Sprintf(`{"customerId":%d,"date":%q,"time":"9:30","paymentMethod":"Cartão","lineItems":[
		{"serviceId":%d,"qty":1,"unitPriceCents":5000},
		{"serviceId":%d,"qty":2,"unitPriceCents":3000,"durationMin":45}]}`, customerID, date, serviceID, serviceID)
}

func TestHealthAndReady(t *testing.T) {
	env := newTestEnv(t, Options{})
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := env.do(t, http.MethodGet, path, "")
		expectStatus(t, rr, http.StatusOK)
		if rr.Header().Get("X-Request-Id") == "" {
			t.Errorf("%s: missing X-Request-Id", path)
		}
	}
	expectErrorCode(t, env.do(t, http.MethodPost, "/healthz", ""), http.StatusMethodNotAllowed, codeMethodNotAllowed)
	expectErrorCode(t, env.do(t, http.MethodGet, "/api/nothing", ""), http.StatusNotFound, codeNotFound)
}

func TestReadyFailsWhenStoreClosed(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.repo.Close()
	expectErrorCode(t, env.do(t, http.MethodGet, "/readyz", ""), http.StatusServiceUnavailable, codeUnavailable)
}

func TestAppointmentLifecycle(t *testing.T) {
	env := newTestEnv(t, Options{})
	c, s := env.seedCatalog(t)

	rr := env.do(t, http.MethodPost, "/api/appointments", appointmentBody(c.ID, s.ID, "2025-03-14"))
	expectStatus(t, rr, http.StatusCreated)
	created := decode[core.Appointment](t, rr)
	if created.Total.Cents != 11000 || created.Time != "09:30" || created.PaymentMethod != core.PaymentCard {
		t.Fatalf("created = %+v", created)
	}
	if created.CustomerName != "Ana" || len(created.LineItems) != 2 {
		t.Fatalf("created joins = %+v", created)
	}
	if created.LineItems[0].DurationMin != 30 || created.LineItems[1].DurationMin != 45 {
		t.Errorf("durations = %d, %d", created.LineItems[0].DurationMin, created.LineItems[1].DurationMin)
	}

	detail := fmt.Sprintf("/api/appointments?id=%d", created.ID)
	rr = env.do(t, http.MethodGet, detail, "")
	expectStatus(t, rr, http.StatusOK)
	if got := decode[core.Appointment](t, rr); got.ID != created.ID || got.LineItems[0].ServiceName != "Corte" {
		t.Fatalf("detail = %+v", got)
	}

	rr = env.do(t, http.MethodPut, detail, fmt.Sprintf(`{"note":"retoque","lineItems":[{"serviceId":%d,"qty":3,"unitPriceCents":2000}]}`, s.ID))
	expectStatus(t, rr, http.StatusOK)
	updated := decode[core.Appointment](t, rr)
	if updated.Total.Cents != 6000 || len(updated.LineItems) != 1 || updated.Note != "retoque" {
		t.Fatalf("updated = %+v", updated)
	}

	rr = env.do(t, http.MethodPut, detail, `{"paymentMethod":"pix"}`)
	expectStatus(t, rr, http.StatusOK)
	if got := decode[core.Appointment](t, rr); got.Total.Cents != 6000 || got.PaymentMethod != core.PaymentPix {
		t.Fatalf("scalar update = %+v", got)
	}

	expectErrorCode(t, env.do(t, http.MethodDelete, fmt.Sprintf("/api/customers?id=%d", c.ID), ""), http.StatusConflict, codeConflict)

	expectStatus(t, env.do(t, http.MethodDelete, detail, ""), http.StatusNoContent)
	expectStatus(t, env.do(t, http.MethodDelete, detail, ""), http.StatusNoContent)
	expectErrorCode(t, env.do(t, http.MethodGet, detail, ""), http.StatusNotFound, codeNotFound)

	expectStatus(t, env.do(t, http.MethodDelete, fmt.Sprintf("/api/customers?id=%d", c.ID), ""), http.StatusNoContent)
}

func TestAppointmentValidation(t *testing.T) {
	env := newTestEnv(t, Options{})
	c, s := env.seedCatalog(t)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		field  string
	}{
		{"empty line items", http.MethodPost, "/api/appointments",
			fmt.Sprintf(`{"customerId":%d,"date":"2025-03-14","time":"10:00","paymentMethod":"pix","lineItems":[]}`, c.ID), "lineItems"},
		{"missing customer", http.MethodPost, "/api/appointments",
			`{"date":"2025-03-14","time":"10:00","paymentMethod":"pix"}`, "customerId"},
		{"bad date", http.MethodPost, "/api/appointments",
			fmt.Sprintf(`{"customerId":%d,"date":"14/03/2025","time":"10:00","paymentMethod":"pix"}`, c.ID), "date"},
		{"bad payment", http.MethodPost, "/api/appointments",
			fmt.Sprintf(`{"customerId":%d,"date":"2025-03-14","time":"10:00","paymentMethod":"cheque"}`, c.ID), "paymentMethod"},
		{"missing qty", http.MethodPost, "/api/appointments",
			fmt.Sprintf(`{"customerId":%d,"date":"2025-03-14","time":"10:00","paymentMethod":"pix","lineItems":[{"serviceId":%d,"unitPriceCents":100}]}`, c.ID, s.ID), "lineItems[0].qty"},
		{"unknown customer", http.MethodPost, "/api/appointments", appointmentBody(999, s.ID, "2025-03-14"), "customerId"},
		{"unknown service", http.MethodPost, "/api/appointments", appointmentBody(c.ID, 999, "2025-03-14"), "lineItems"},
		{"wrong type", http.MethodPost, "/api/appointments", `{"customerId":"one"}`, "customerId"},
		{"malformed", http.MethodPost, "/api/appointments", `{"customerId":`, "body"},
		{"update without id", http.MethodPut, "/api/appointments", `{"note":"x"}`, "id"},
		{"update clears items", http.MethodPut, "/api/appointments?id=1", `{"lineItems":[]}`, "lineItems"},
		{"delete without id", http.MethodDelete, "/api/appointments", "", "id"},
		{"bad id", http.MethodGet, "/api/appointments?id=abc", "", "id"},
		{"bad filter", http.MethodGet, "/api/appointments?dateFrom=yesterday", "", "dateFrom"},
		{"customer without name", http.MethodPost, "/api/customers", `{"phone":"123"}`, "name"},
		{"service without price", http.MethodPost, "/api/services", `{"name":"Escova","durationMin":30}`, "unitPriceCents"},
		{"service without duration", http.MethodPost, "/api/services", `{"name":"Escova","unitPriceCents":3000}`, "durationMin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detail := expectErrorCode(t, env.do(t, tt.method, tt.target, tt.body), http.StatusBadRequest, codeValidation)
			if !strings.HasPrefix(detail.Message, tt.field) {
				t.Errorf("message = %q, want field %q", detail.Message, tt.field)
			}
		})
	}

	rr := env.do(t, http.MethodGet, "/api/appointments", "")
	expectStatus(t, rr, http.StatusOK)
	if got := decode[[]core.Appointment](t, rr); len(got) != 0 {
		t.Fatalf("rejected writes persisted %d appointments", len(got))
	}
}

func TestAppointmentFilters(t *testing.T) {
	env := newTestEnv(t, Options{})
	c, s := env.seedCatalog(t)
	rr := env.do(t, http.MethodPost, "/api/customers", `{"name":"Bia"}`)
	expectStatus(t, rr, http.StatusCreated)
	other := decode[core.Customer](t, rr)

	for _, b := range []string{
		appointmentBody(c.ID, s.ID, "2025-03-01"),
		appointmentBody(c.ID, s.ID, "2025-03-10"),
		appointmentBody(other.ID, s.ID, "2025-03-10"),
	} {
		expectStatus(t, env.do(t, http.MethodPost, "/api/appointments", b), http.StatusCreated)
	}

	count := func(target string) int {
		rr := env.do(t, http.MethodGet, target, "")
		expectStatus(t, rr, http.StatusOK)
		return len(decode[[]core.Appointment](t, rr))
	}
	if n := count("/api/appointments"); n != 3 {
		t.Errorf("no filter = %d, want 3", n)
	}
	if n := count("/api/appointments?dateFrom=2025-03-05"); n != 2 {
		t.Errorf("dateFrom = %d, want 2", n)
	}
	if n := count(fmt.Sprintf("/api/appointments?dateFrom=2025-03-05&customerId=%d", c.ID)); n != 1 {
		t.Errorf("dateFrom+customer = %d, want 1", n)
	}
	if n := count("/api/appointments?dateTo=2025-02-28"); n != 0 {
		t.Errorf("dateTo = %d, want 0", n)
	}
}

func TestAgendaViews(t *testing.T) {
	env := newTestEnv(t, Options{})
	c, s := env.seedCatalog(t)
	today := env.agenda.Today()

	for _, d := range []string{"2024-02-29", "2024-03-01", today.String(), today.AddDays(8).String()} {
		expectStatus(t, env.do(t, http.MethodPost, "/api/appointments", appointmentBody(c.ID, s.ID, d)), http.StatusCreated)
	}

	rr := env.do(t, http.MethodGet, "/api/agenda?date=2024-02-29", "")
	expectStatus(t, rr, http.StatusOK)
	if got := decode[[]core.Appointment](t, rr); len(got) != 1 {
		t.Fatalf("day list = %d, want 1", len(got))
	}

	rr = env.do(t, http.MethodGet, "/api/agenda?month=2&year=2024", "")
	expectStatus(t, rr, http.StatusOK)
	summary := decode[core.MonthSummary](t, rr)
	if summary.To.String() != "2024-02-29" || len(summary.Days) != 1 || summary.Stats.TotalAppointments != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.Stats.AverageTicket.Cents != 11000 {
		t.Errorf("average ticket = %d", summary.Stats.AverageTicket.Cents)
	}

	rr = env.do(t, http.MethodGet, "/api/agenda", "")
	expectStatus(t, rr, http.StatusOK)
	upcoming := decode[[]core.Appointment](t, rr)
	if len(upcoming) != 1 || upcoming[0].Date.String() != today.String() {
		t.Fatalf("upcoming = %+v", upcoming)
	}

	expectErrorCode(t, env.do(t, http.MethodGet, "/api/agenda?month=13&year=2024", ""), http.StatusBadRequest, codeValidation)
	expectErrorCode(t, env.do(t, http.MethodGet, "/api/agenda?year=2024", ""), http.StatusBadRequest, codeValidation)
	expectErrorCode(t, env.do(t, http.MethodPost, "/api/agenda", "{}"), http.StatusMethodNotAllowed, codeMethodNotAllowed)
}

func TestReportEndpoint(t *testing.T) {
	env := newTestEnv(t, Options{})
	c, s := env.seedCatalog(t)
	expectStatus(t, env.do(t, http.MethodPost, "/api/appointments", appointmentBody(c.ID, s.ID, "2025-03-14")), http.StatusCreated)

	rr := env.do(t, http.MethodGet, "/api/report?dateFrom=2025-03-01&dateTo=2025-03-31", "")
	expectStatus(t, rr, http.StatusOK)
	rep := decode[core.Report](t, rr)
	if rep.Totals.Appointments != 1 || rep.Totals.Revenue.Cents != 11000 || len(rep.TopServices) != 1 {
		t.Fatalf("report = %+v", rep)
	}

	rr = env.do(t, http.MethodGet, "/api/report", "")
	expectStatus(t, rr, http.StatusOK)
	if body := rr.Body.String(); !strings.Contains(body, `"byDay":[]`) && !strings.Contains(body, `"byDay":[{`) {
		t.Errorf("byDay should be an array: %s", body)
	}
}

func TestCatalogUpdateAndNotFound(t *testing.T) {
	env := newTestEnv(t, Options{})
	c, s := env.seedCatalog(t)

	rr := env.do(t, http.MethodPut, fmt.Sprintf("/api/services?id=%d", s.ID), `{"unitPriceCents":5500}`)
	expectStatus(t, rr, http.StatusOK)
	if got := decode[core.Service](t, rr); got.UnitPrice.Cents != 5500 || got.Name != "Corte" {
		t.Fatalf("service = %+v", got)
	}

	rr = env.do(t, http.MethodPut, fmt.Sprintf("/api/customers?id=%d", c.ID), `{"name":"  "}`)
	expectErrorCode(t, rr, http.StatusBadRequest, codeValidation)

	expectErrorCode(t, env.do(t, http.MethodGet, "/api/customers?id=404", ""), http.StatusNotFound, codeNotFound)
	expectErrorCode(t, env.do(t, http.MethodPut, "/api/services?id=404", `{"name":"x"}`), http.StatusNotFound, codeNotFound)

	rr = env.do(t, http.MethodGet, "/api/customers", "")
	expectStatus(t, rr, http.StatusOK)
	if got := decode[[]core.Customer](t, rr); len(got) != 1 {
		t.Fatalf("customers = %+v", got)
	}
}

func TestMethodNotAllowedAndPreflight(t *testing.T) {
	env := newTestEnv(t, Options{})

	for _, path := range []string{"/api/appointments", "/api/customers", "/api/services"} {
		rr := env.do(t, http.MethodPatch, path, "{}")
		expectErrorCode(t, rr, http.StatusMethodNotAllowed, codeMethodNotAllowed)
		if !strings.Contains(rr.Header().Get("Allow"), http.MethodPut) {
			t.Errorf("%s Allow = %q", path, rr.Header().Get("Allow"))
		}

		req := httptest.NewRequest(http.MethodOptions, path, nil)
		req.Header.Set("Origin", "https://salon.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		pre := httptest.NewRecorder()
		env.srv.Handler.ServeHTTP(pre, req)
		if pre.Code != http.StatusOK || pre.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Errorf("%s preflight: code=%d origin=%q", path, pre.Code, pre.Header().Get("Access-Control-Allow-Origin"))
		}

		expectStatus(t, env.do(t, http.MethodOptions, path, ""), http.StatusOK)
	}
}

func TestRateLimitAppliesToWritesOnly(t *testing.T) {
	env := newTestEnv(t, Options{RateLimitPerMinute: 2})

	for i := 0; i < 2; i++ {
		expectStatus(t, env.do(t, http.MethodPost, "/api/customers", `{"name":"Ana"}`), http.StatusCreated)
	}
	rr := env.do(t, http.MethodPost, "/api/customers", `{"name":"Ana"}`)
	expectErrorCode(t, rr, http.StatusTooManyRequests, codeRateLimited)
	if rr.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After")
	}
	for i := 0; i < 5; i++ {
		expectStatus(t, env.do(t, http.MethodGet, "/api/customers", ""), http.StatusOK)
	}
}

type brokenAppointments struct{ AppointmentAPI }

func (brokenAppointments) List(context.Context, core.AppointmentFilter) ([]core.Appointment, error) {
	return nil, errors.New("disk I/O error at /var/lib/salon.db")
}

func TestInternalErrorsAreGeneric(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.srv.deps.Appointments = brokenAppointments{}

	rr := env.do(t, http.MethodGet, "/api/appointments", "")
	detail := expectErrorCode(t, rr, http.StatusInternalServerError, codeInternal)
	if strings.Contains(detail.Message, "disk") || strings.Contains(rr.Body.String(), "salon.db") {
		t.Fatalf("internal detail leaked: %s", rr.Body.String())
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	env := newTestEnv(t, Options{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rr := httptest.NewRecorder()
	env.srv.Handler.ServeHTTP(rr, req)
	if got := rr.Header().Get("X-Request-Id"); got != "abc-123" {
		t.Fatalf("X-Request-Id = %q", got)
	}
}
