package core

import (
	"fmt"
	"strings"
)

type (
	// LineItemInput is a requested line item before it is resolved against
	// the catalog. Qty and UnitPriceCents are mandatory; DurationMin falls
	// back to the service's catalog duration when nil.
	LineItemInput struct {
		ServiceID      int64
		Qty            *int
		UnitPriceCents *int64
		DurationMin    *int
	}

	AppointmentInput struct {
		CustomerID    int64
		Date          Date
		Time          string
		PaymentMethod PaymentMethod
		Note          string
		LineItems     []LineItemInput
	}

	// AppointmentPatch carries a partial update. A nil LineItems leaves the
	// current items and total untouched; a non-nil slice replaces them.
	AppointmentPatch struct {
		CustomerID    *int64
		Date          *Date
		Time          *string
		PaymentMethod *PaymentMethod
		Note          *string
		LineItems     []LineItemInput
	}
)

// ComputeTotal returns the sum of unit price times quantity.
func ComputeTotal(items []LineItem) Money {
	var total Money
	for _, it := range items {
		total = total.Add(it.UnitPrice.Times(it.Qty))
	}
	return total
}

func (in LineItemInput) validate(i int) error {
	field := func(name string) string { return fmt.Sprintf("lineItems[%d].%s", i, name) }
	if in.ServiceID <= 0 {
		return Invalid(field("serviceId"), "is required")
	}
	if in.Qty == nil {
		return Invalid(field("qty"), "is required")
	}
	if *in.Qty < 1 {
		return Invalid(field("qty"), "must be at least 1")
	}
	if *in.Qty > MaxLineItemQty {
		return Invalid(field("qty"), "must be at most %d", MaxLineItemQty)
	}
	if in.UnitPriceCents == nil {
		return Invalid(field("unitPriceCents"), "is required")
	}
	if *in.UnitPriceCents < 0 {
		return Invalid(field("unitPriceCents"), "must be zero or positive")
	}
	if *in.UnitPriceCents > MaxUnitPriceCents {
		return Invalid(field("unitPriceCents"), "must be at most %d", MaxUnitPriceCents)
	}
	if in.DurationMin != nil && *in.DurationMin < 0 {
		return Invalid(field("durationMin"), "must be zero or positive")
	}
	return nil
}

func validateLineItems(items []LineItemInput) error {
	if len(items) == 0 {
		return Invalid("lineItems", "at least one line item is required")
	}
	for i, it := range items {
		if err := it.validate(i); err != nil {
			return err
		}
	}
	return nil
}

func validateTime(s string) error {
	if _, err := ParseTimeOfDay(s); err != nil {
		return Invalid("time", "must be HH:MM (24-hour)")
	}
	return nil
}

func (in AppointmentInput) Validate() error {
	if in.CustomerID <= 0 {
		return Invalid("customerId", "is required")
	}
	if in.Date.IsZero() {
		return Invalid("date", "is required")
	}
	if strings.TrimSpace(in.Time) == "" {
		return Invalid("time", "is required")
	}
	if err := validateTime(in.Time); err != nil {
		return err
	}
	if in.PaymentMethod == "" {
		return Invalid("paymentMethod", "is required")
	}
	if !in.PaymentMethod.Valid() {
		return Invalid("paymentMethod", "must be one of pix, cash, card")
	}
	if len(in.Note) > maxNoteLength {
		return Invalid("note", "too long (max %d characters)", maxNoteLength)
	}
	return validateLineItems(in.LineItems)
}

func (p AppointmentPatch) Validate() error {
	if p.CustomerID != nil && *p.CustomerID <= 0 {
		return Invalid("customerId", "must be a valid id")
	}
	if p.Date != nil && p.Date.IsZero() {
		return Invalid("date", "must be a valid date")
	}
	if p.Time != nil {
		if err := validateTime(*p.Time); err != nil {
			return err
		}
	}
	if p.PaymentMethod != nil && !p.PaymentMethod.Valid() {
		return Invalid("paymentMethod", "must be one of pix, cash, card")
	}
	if p.Note != nil && len(*p.Note) > maxNoteLength {
		return Invalid("note", "too long (max %d characters)", maxNoteLength)
	}
	if p.LineItems != nil {
		return validateLineItems(p.LineItems)
	}
	return nil
}

// ReplacesLineItems reports whether the patch carries a new line-item set.
func (p AppointmentPatch) ReplacesLineItems() bool {
	return p.LineItems != nil
}

// ServiceNames joins the line items' service names in order. Quantities
// above one render as "Name x2".
func (a Appointment) ServiceNames() string {
	parts := make([]string, 0, len(a.LineItems))
	for _, it := range a.LineItems {
		name := it.ServiceName
		if name == "" {
			name = "(removed service)"
		}
		if it.Qty > 1 {
			name = fmt.Sprintf("%s x%d", name, it.Qty)
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, ", ")
}
