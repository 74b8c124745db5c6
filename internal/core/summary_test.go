package core

import "testing"

func TestMonthRange(t *testing.T) {
	cases := []struct {
		year, month int
		first, last string
	}{
		{2024, 2, "2024-02-01", "2024-02-29"},
		{2023, 2, "2023-02-01", "2023-02-28"},
		{2025, 4, "2025-04-01", "2025-04-30"},
		{2025, 12, "2025-12-01", "2025-12-31"},
		{2000, 2, "2000-02-01", "2000-02-29"},
		{1900, 2, "1900-02-01", "1900-02-28"},
	}
	for _, tc := range cases {
		first, last := MonthRange(tc.year, tc.month)
		if first.String() != tc.first || last.String() != tc.last {
			t.Fatalf("%d-%02d: got %s..%s want %s..%s", tc.year, tc.month, first, last, tc.first, tc.last)
		}
	}
}

func TestUpcomingWindow(t *testing.T) {
	from, to := UpcomingWindow(NewDate(2025, 12, 28))
	if from.String() != "2025-12-28" || to.String() != "2026-01-04" {
		t.Fatalf("got %s..%s", from, to)
	}
}

func TestAverageTicket(t *testing.T) {
	cases := []struct {
		rev   int64
		count int
		want  int64
	}{
		{0, 0, 0},
		{1000, 0, 0},
		{10000, 3, 3333},
		{10, 4, 3}, // 2.5 rounds half-up
		{5, 2, 3},  // 2.5 rounds half-up
		{7, 3, 2},  // 2.33
		{8, 3, 3},  // 2.67
		{11000, 1, 11000},
	}
	for _, tc := range cases {
		if got := AverageTicket(Cents(tc.rev), tc.count); got.Cents != tc.want {
			t.Fatalf("AverageTicket(%d, %d) = %d want %d", tc.rev, tc.count, got.Cents, tc.want)
		}
	}
}

func TestBuildMonthSummary(t *testing.T) {
	appts := []Appointment{
		{ID: 1, Date: NewDate(2024, 2, 1), Time: "09:00", Total: Cents(5000)},
		{ID: 2, Date: NewDate(2024, 2, 1), Time: "11:30", Total: Cents(3000)},
		{ID: 3, Date: NewDate(2024, 2, 29), Time: "10:00", Total: Cents(2001)},
	}
	s := BuildMonthSummary(2024, 2, appts)

	if s.From.String() != "2024-02-01" || s.To.String() != "2024-02-29" {
		t.Fatalf("range %s..%s", s.From, s.To)
	}
	if s.Stats.TotalAppointments != 3 || s.Stats.DaysWithAppointments != 2 {
		t.Fatalf("stats %+v", s.Stats)
	}
	if s.Stats.TotalRevenue.Cents != 10001 {
		t.Fatalf("revenue %d", s.Stats.TotalRevenue.Cents)
	}
	if s.Stats.AverageTicket.Cents != 3334 {
		t.Fatalf("average %d", s.Stats.AverageTicket.Cents)
	}

	sum := 0
	for _, day := range s.Days {
		sum += len(day)
	}
	if sum != s.Stats.TotalAppointments {
		t.Fatalf("per-day counts %d != total %d", sum, s.Stats.TotalAppointments)
	}
	first := s.Days["2024-02-01"]
	if len(first) != 2 || first[0].ID != 1 || first[1].ID != 2 {
		t.Fatalf("day order not preserved: %+v", first)
	}
}

func TestBuildMonthSummaryEmpty(t *testing.T) {
	s := BuildMonthSummary(2025, 1, nil)
	if s.Stats != (MonthStats{}) {
		t.Fatalf("expected zero stats, got %+v", s.Stats)
	}
	if s.Days == nil || len(s.Days) != 0 {
		t.Fatalf("expected empty non-nil days map")
	}
}
