package http

import (
	"net/http"

	"salon/internal/core"
	applog "salon/internal/log"
)

func (s *Server) handleAppointments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.getAppointments(w, r)
	case http.MethodPost:
		s.createAppointment(w, r)
	case http.MethodPut:
		s.updateAppointment(w, r)
	case http.MethodDelete:
		s.deleteAppointment(w, r)
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions)
	}
}

// getAppointments returns one appointment for ?id= or the filtered list.
func (s *Server) getAppointments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Has("id") {
		id, err := queryID(q)
		if err != nil {
			writeServiceError(w, r, err, "appointment", applog.OpRead)
			return
		}
		appt, err := s.deps.Appointments.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, err, "appointment", applog.OpRead)
			return
		}
		writeJSON(w, http.StatusOK, appt)
		return
	}

	var f core.AppointmentFilter
	var err error
	if f.DateFrom, err = optionalDate(q, "dateFrom"); err != nil {
		writeServiceError(w, r, err, "appointment", applog.OpList)
		return
	}
	if f.DateTo, err = optionalDate(q, "dateTo"); err != nil {
		writeServiceError(w, r, err, "appointment", applog.OpList)
		return
	}
	if raw := q.Get("customerId"); raw != "" {
		id, err := parseID("customerId", raw)
		if err != nil {
			writeServiceError(w, r, err, "appointment", applog.OpList)
			return
		}
		f.CustomerID = &id
	}

	appts, err := s.deps.Appointments.List(r.Context(), f)
	if err != nil {
		writeServiceError(w, r, err, "appointment", applog.OpList)
		return
	}
	applog.FromContext(r.Context()).DebugContext(r.Context(), "Listed appointments",
		"filter", describeFilter(f), "count", len(appts))
	writeJSON(w, http.StatusOK, list(appts))
}

func (s *Server) createAppointment(w http.ResponseWriter, r *http.Request) {
	var req createAppointmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, "appointment", applog.OpCreate)
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeServiceError(w, r, err, "appointment", applog.OpCreate)
		return
	}

	appt, err := s.deps.Appointments.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err, "appointment", applog.OpCreate)
		return
	}
	applog.NewStructuredLogger(applog.FromContext(r.Context())).
		LogAppointmentEvent(r.Context(), "Appointment created", applog.OpCreate, appt.ID, appt.Date.String(), appt.Total.Cents)
	writeJSON(w, http.StatusCreated, appt)
}

func (s *Server) updateAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r.URL.Query())
	if err != nil {
		writeServiceError(w, r, err, "appointment", applog.OpUpdate)
		return
	}
	var req updateAppointmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, "appointment", applog.OpUpdate)
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		writeServiceError(w, r, err, "appointment", applog.OpUpdate)
		return
	}

	appt, err := s.deps.Appointments.Update(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, r, err, "appointment", applog.OpUpdate)
		return
	}
	applog.NewStructuredLogger(applog.FromContext(r.Context())).
		LogAppointmentEvent(r.Context(), "Appointment updated", applog.OpUpdate, appt.ID, appt.Date.String(), appt.Total.Cents)
	writeJSON(w, http.StatusOK, appt)
}

func (s *Server) deleteAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r.URL.Query())
	if err != nil {
		writeServiceError(w, r, err, "appointment", applog.OpDelete)
		return
	}
	if err := s.deps.Appointments.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "appointment", applog.OpDelete)
		return
	}
	noContent(w)
}
