package http

import (
	"net/http"

	applog "salon/internal/log"
)

var crudMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}

func (s *Server) handleCustomers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	switch r.Method {
	case http.MethodGet:
		if q.Has("id") {
			id, err := queryID(q)
			if err != nil {
				writeServiceError(w, r, err, "customer", applog.OpRead)
				return
			}
			c, err := s.deps.Catalog.GetCustomer(ctx, id)
			if err != nil {
				writeServiceError(w, r, err, "customer", applog.OpRead)
				return
			}
			writeJSON(w, http.StatusOK, c)
			return
		}
		customers, err := s.deps.Catalog.ListCustomers(ctx)
		if err != nil {
			writeServiceError(w, r, err, "customer", applog.OpList)
			return
		}
		writeJSON(w, http.StatusOK, list(customers))

	case http.MethodPost:
		var req customerRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeServiceError(w, r, err, "customer", applog.OpCreate)
			return
		}
		in, err := req.toCustomer()
		if err != nil {
			writeServiceError(w, r, err, "customer", applog.OpCreate)
			return
		}
		c, err := s.deps.Catalog.CreateCustomer(ctx, in)
		if err != nil {
			writeServiceError(w, r, err, "customer", applog.OpCreate)
			return
		}
		writeJSON(w, http.StatusCreated, c)

	case http.MethodPut:
		id, err := queryID(q)
		if err != nil {
			writeServiceError(w, r, err, "customer", applog.OpUpdate)
			return
		}
		var req customerRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeServiceError(w, r, err, "customer", applog.OpUpdate)
			return
		}
		c, err := s.deps.Catalog.UpdateCustomer(ctx, id, req.toPatch())
		if err != nil {
			writeServiceError(w, r, err, "customer", applog.OpUpdate)
			return
		}
		writeJSON(w, http.StatusOK, c)

	case http.MethodDelete:
		id, err := queryID(q)
		if err != nil {
			writeServiceError(w, r, err, "customer", applog.OpDelete)
			return
		}
		if err := s.deps.Catalog.DeleteCustomer(ctx, id); err != nil {
			writeServiceError(w, r, err, "customer", applog.OpDelete)
			return
		}
		noContent(w)

	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)

	default:
		methodNotAllowed(w, crudMethods...)
	}
}

func (s *Server) handleServices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	switch r.Method {
	case http.MethodGet:
		if q.Has("id") {
			id, err := queryID(q)
			if err != nil {
				writeServiceError(w, r, err, "service", applog.OpRead)
				return
			}
			svc, err := s.deps.Catalog.GetService(ctx, id)
			if err != nil {
				writeServiceError(w, r, err, "service", applog.OpRead)
				return
			}
			writeJSON(w, http.StatusOK, svc)
			return
		}
		services, err := s.deps.Catalog.ListServices(ctx)
		if err != nil {
			writeServiceError(w, r, err, "service", applog.OpList)
			return
		}
		writeJSON(w, http.StatusOK, list(services))

	case http.MethodPost:
		var req serviceRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeServiceError(w, r, err, "service", applog.OpCreate)
			return
		}
		in, err := req.toService()
		if err != nil {
			writeServiceError(w, r, err, "service", applog.OpCreate)
			return
		}
		svc, err := s.deps.Catalog.CreateService(ctx, in)
		if err != nil {
			writeServiceError(w, r, err, "service", applog.OpCreate)
			return
		}
		writeJSON(w, http.StatusCreated, svc)

	case http.MethodPut:
		id, err := queryID(q)
		if err != nil {
			writeServiceError(w, r, err, "service", applog.OpUpdate)
			return
		}
		var req serviceRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeServiceError(w, r, err, "service", applog.OpUpdate)
			return
		}
		svc, err := s.deps.Catalog.UpdateService(ctx, id, req.toPatch())
		if err != nil {
			writeServiceError(w, r, err, "service", applog.OpUpdate)
			return
		}
		writeJSON(w, http.StatusOK, svc)

	case http.MethodDelete:
		id, err := queryID(q)
		if err != nil {
			writeServiceError(w, r, err, "service", applog.OpDelete)
			return
		}
		if err := s.deps.Catalog.DeleteService(ctx, id); err != nil {
			writeServiceError(w, r, err, "service", applog.OpDelete)
			return
		}
		noContent(w)

	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)

	default:
		methodNotAllowed(w, crudMethods...)
	}
}
