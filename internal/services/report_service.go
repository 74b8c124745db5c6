package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"salon/internal/core"
)

type ReportStore interface {
	CountCustomers(ctx context.Context) (int, error)
	CountServices(ctx context.Context) (int, error)
	AppointmentTotals(ctx context.Context, from, to core.Date) (int, core.Money, error)
	RevenueByDay(ctx context.Context, from, to core.Date) ([]core.DailyRevenue, error)
	TopServices(ctx context.Context, from, to core.Date, limit int) ([]core.ServicePopularity, error)
}

type ReportService struct {
	store ReportStore
	loc   *time.Location
	now   func() time.Time
}

func NewReportService(store ReportStore, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{store: store, loc: loc, now: time.Now}
}

// Summary reports on [from, to]. With neither bound it covers the current
// month. A missing to ends the month of from; a missing from starts the
// month of to.
func (s *ReportService) Summary(ctx context.Context, from, to core.Date) (core.Report, error) {
	switch {
	case from.IsZero() && to.IsZero():
		today := core.DateOf(s.now().In(s.loc))
		from, to = core.MonthRange(today.Year(), int(today.Month()))
	case to.IsZero():
		_, to = core.MonthRange(from.Year(), int(from.Month()))
	case from.IsZero():
		from, _ = core.MonthRange(to.Year(), int(to.Month()))
	}
	if to.Before(from.Time) {
		return core.Report{}, core.Invalid("dateTo", "must not be before dateFrom")
	}

	rep := core.Report{From: from, To: to}
	var (
		count   int
		revenue core.Money
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.store.CountCustomers(gctx)
		rep.Totals.Customers = n
		return err
	})
	g.Go(func() error {
		n, err := s.store.CountServices(gctx)
		rep.Totals.Services = n
		return err
	})
	g.Go(func() error {
		var err error
		count, revenue, err = s.store.AppointmentTotals(gctx, from, to)
		return err
	})
	g.Go(func() error {
		days, err := s.store.RevenueByDay(gctx, from, to)
		rep.ByDay = days
		return err
	})
	g.Go(func() error {
		top, err := s.store.TopServices(gctx, from, to, core.TopServicesLimit)
		rep.TopServices = top
		return err
	})
	if err := g.Wait(); err != nil {
		return core.Report{}, fmt.Errorf("build report: %w", err)
	}

	rep.Totals.Appointments = count
	rep.Totals.Revenue = revenue
	rep.Totals.AverageTicket = core.AverageTicket(revenue, count)
	if rep.ByDay == nil {
		rep.ByDay = []core.DailyRevenue{}
	}
	if rep.TopServices == nil {
		rep.TopServices = []core.ServicePopularity{}
	}
	return rep, nil
}
