package http

import (
	"net/http"

	"salon/internal/core"
	applog "salon/internal/log"
)

// handleAgenda serves the day list (?date=), the month summary
// (?month=&year=, year defaulting to the current one) or, with no
// parameters, the capped upcoming list.
func (s *Server) handleAgenda(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodOptions)
		return
	}

	ctx := r.Context()
	q := r.URL.Query()

	date, err := optionalDate(q, "date")
	if err != nil {
		writeServiceError(w, r, err, "agenda", applog.OpRead)
		return
	}
	if date != nil {
		appts, err := s.deps.Agenda.Day(ctx, *date)
		if err != nil {
			writeServiceError(w, r, err, "agenda", applog.OpRead)
			return
		}
		writeJSON(w, http.StatusOK, list(appts))
		return
	}

	month, err := optionalInt(q, "month")
	if err != nil {
		writeServiceError(w, r, err, "agenda", applog.OpRead)
		return
	}
	year, err := optionalInt(q, "year")
	if err != nil {
		writeServiceError(w, r, err, "agenda", applog.OpRead)
		return
	}
	if month == nil && year != nil {
		writeServiceError(w, r, core.Invalid("month", "is required with year"), "agenda", applog.OpRead)
		return
	}
	if month != nil {
		y := s.deps.Agenda.Today().Year()
		if year != nil {
			y = *year
		}
		summary, err := s.deps.Agenda.Month(ctx, y, *month)
		if err != nil {
			writeServiceError(w, r, err, "agenda", applog.OpRead)
			return
		}
		writeJSON(w, http.StatusOK, summary)
		return
	}

	appts, err := s.deps.Agenda.Upcoming(ctx)
	if err != nil {
		writeServiceError(w, r, err, "agenda", applog.OpRead)
		return
	}
	writeJSON(w, http.StatusOK, list(appts))
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodOptions)
		return
	}

	q := r.URL.Query()
	var from, to core.Date
	if d, err := optionalDate(q, "dateFrom"); err != nil {
		writeServiceError(w, r, err, "report", applog.OpRead)
		return
	} else if d != nil {
		from = *d
	}
	if d, err := optionalDate(q, "dateTo"); err != nil {
		writeServiceError(w, r, err, "report", applog.OpRead)
		return
	} else if d != nil {
		to = *d
	}

	rep, err := s.deps.Reports.Summary(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, r, err, "report", applog.OpRead)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
