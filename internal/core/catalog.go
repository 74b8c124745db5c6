package core

import "strings"

// CustomerPatch is a partial customer update; nil fields are kept.
type CustomerPatch struct {
	Name  *string
	Phone *string
	Note  *string
}

func (p CustomerPatch) Apply(c *Customer) {
	if p.Name != nil {
		c.Name = strings.TrimSpace(*p.Name)
	}
	if p.Phone != nil {
		c.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.Note != nil {
		c.Note = *p.Note
	}
}

// ServicePatch is a partial catalog update. Stored line items keep their
// own price and duration snapshots.
type ServicePatch struct {
	Name           *string
	UnitPriceCents *int64
	DurationMin    *int
}

func (p ServicePatch) Apply(s *Service) {
	if p.Name != nil {
		s.Name = strings.TrimSpace(*p.Name)
	}
	if p.UnitPriceCents != nil {
		s.UnitPrice = Cents(*p.UnitPriceCents)
	}
	if p.DurationMin != nil {
		s.DurationMin = *p.DurationMin
	}
}
