package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"salon/internal/core"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a single JSON object from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return core.Invalid("body", "request body is required")
		case errors.As(err, &maxErr):
			return core.Invalid("body", "request body too large")
		default:
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) && typeErr.Field != "" {
				return core.Invalid(typeErr.Field, "has the wrong type")
			}
			return core.Invalid("body", "malformed JSON")
		}
	}
	if dec.More() {
		return core.Invalid("body", "must contain a single JSON object")
	}
	return nil
}

// queryID parses a required positive ?id= parameter.
func queryID(q url.Values) (int64, error) {
	raw := strings.TrimSpace(q.Get("id"))
	if raw == "" {
		return 0, core.Invalid("id", "is required")
	}
	return parseID("id", raw)
}

func parseID(field, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, core.Invalid(field, "must be a positive integer")
	}
	return id, nil
}

// optionalDate parses an ISO date query parameter; absent means nil.
func optionalDate(q url.Values, name string) (*core.Date, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return nil, nil
	}
	d, err := core.ParseDate(raw)
	if err != nil {
		return nil, core.Invalid(name, "must be YYYY-MM-DD")
	}
	return &d, nil
}

func optionalInt(q url.Values, name string) (*int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, core.Invalid(name, "must be an integer")
	}
	return &n, nil
}

type lineItemRequest struct {
	ServiceID      int64  `json:"serviceId"`
	Qty            *int   `json:"qty"`
	UnitPriceCents *int64 `json:"unitPriceCents"`
	DurationMin    *int   `json:"durationMin"`
}

func toLineItemInputs(items []lineItemRequest) []core.LineItemInput {
	if items == nil {
		return nil
	}
	out := make([]core.LineItemInput, 0, len(items))
	for _, it := range items {
		out = append(out, core.LineItemInput{
			ServiceID:      it.ServiceID,
			Qty:            it.Qty,
			UnitPriceCents: it.UnitPriceCents,
			DurationMin:    it.DurationMin,
		})
	}
	return out
}

type createAppointmentRequest struct {
	CustomerID    int64             `json:"customerId"`
	Date          string            `json:"date"`
	Time          string            `json:"time"`
	PaymentMethod string            `json:"paymentMethod"`
	Note          string            `json:"note"`
	LineItems     []lineItemRequest `json:"lineItems"`
}

func (req createAppointmentRequest) toInput() (core.AppointmentInput, error) {
	in := core.AppointmentInput{
		CustomerID: req.CustomerID,
		Time:       strings.TrimSpace(req.Time),
		Note:       req.Note,
		LineItems:  toLineItemInputs(req.LineItems),
	}
	if strings.TrimSpace(req.Date) != "" {
		d, err := core.ParseDate(req.Date)
		if err != nil {
			return in, core.Invalid("date", "must be YYYY-MM-DD")
		}
		in.Date = d
	}
	if strings.TrimSpace(req.PaymentMethod) != "" {
		pm, err := core.ParsePaymentMethod(req.PaymentMethod)
		if err != nil {
			return in, core.Invalid("paymentMethod", "must be one of pix, cash, card")
		}
		in.PaymentMethod = pm
	}
	return in, nil
}

// updateAppointmentRequest leaves absent fields nil. An explicit
// "lineItems" array replaces the stored set.
type updateAppointmentRequest struct {
	CustomerID    *int64            `json:"customerId"`
	Date          *string           `json:"date"`
	Time          *string           `json:"time"`
	PaymentMethod *string           `json:"paymentMethod"`
	Note          *string           `json:"note"`
	LineItems     []lineItemRequest `json:"lineItems"`
}

func (req updateAppointmentRequest) toPatch() (core.AppointmentPatch, error) {
	patch := core.AppointmentPatch{
		CustomerID: req.CustomerID,
		Time:       req.Time,
		Note:       req.Note,
		LineItems:  toLineItemInputs(req.LineItems),
	}
	if req.Date != nil {
		d, err := core.ParseDate(*req.Date)
		if err != nil {
			return patch, core.Invalid("date", "must be YYYY-MM-DD")
		}
		patch.Date = &d
	}
	if req.PaymentMethod != nil {
		pm, err := core.ParsePaymentMethod(*req.PaymentMethod)
		if err != nil {
			return patch, core.Invalid("paymentMethod", "must be one of pix, cash, card")
		}
		patch.PaymentMethod = &pm
	}
	return patch, nil
}

type customerRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Note  *string `json:"note"`
}

func (req customerRequest) toCustomer() (core.Customer, error) {
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return core.Customer{}, core.Invalid("name", "is required")
	}
	c := core.Customer{Name: *req.Name}
	if req.Phone != nil {
		c.Phone = *req.Phone
	}
	if req.Note != nil {
		c.Note = *req.Note
	}
	return c, nil
}

func (req customerRequest) toPatch() core.CustomerPatch {
	return core.CustomerPatch{Name: req.Name, Phone: req.Phone, Note: req.Note}
}

type serviceRequest struct {
	Name           *string `json:"name"`
	UnitPriceCents *int64  `json:"unitPriceCents"`
	DurationMin    *int    `json:"durationMin"`
}

func (req serviceRequest) toService() (core.Service, error) {
	switch {
	case req.Name == nil || strings.TrimSpace(*req.Name) == "":
		return core.Service{}, core.Invalid("name", "is required")
	case req.UnitPriceCents == nil:
		return core.Service{}, core.Invalid("unitPriceCents", "is required")
	case req.DurationMin == nil:
		return core.Service{}, core.Invalid("durationMin", "is required")
	}
	return core.Service{
		Name:        *req.Name,
		UnitPrice:   core.Cents(*req.UnitPriceCents),
		DurationMin: *req.DurationMin,
	}, nil
}

func (req serviceRequest) toPatch() core.ServicePatch {
	return core.ServicePatch{Name: req.Name, UnitPriceCents: req.UnitPriceCents, DurationMin: req.DurationMin}
}

func describeFilter(f core.AppointmentFilter) string {
	var parts []string
	if f.DateFrom != nil {
		parts = append(parts, "from="+f.DateFrom.String())
	}
	if f.DateTo != nil {
		parts = append(parts, "to="+f.DateTo.String())
	}
	if f.CustomerID != nil {
		parts = append(parts, fmt.Sprintf("customer=%d", *f.CustomerID))
	}
	return strings.Join(parts, " ")
}
