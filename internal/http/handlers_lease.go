package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"rentalflow/internal/core"
	"rentalflow/internal/store"
)

func (s *Server) handleLeases(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listLeases(w, r)
	case http.MethodPost:
		s.createLease(w, r)
	case http.MethodPut:
		s.updateLease(w, r)
	case http.MethodDelete:
		s.deleteLease(w, r)
	default:
		methodNotAllowed(w, "GET, POST, PUT, DELETE")
	}
}

func (s *Server) listLeases(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	leases, err := s.service.ListLeases(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list leases", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list leases")
		return
	}
	if leases == nil {
		leases = []core.Lease{}
	}
	writeJSON(w, http.StatusOK, leases)
}

func (s *Server) createLease(w http.ResponseWriter, r *http.Request) {
	p := newRequestBodyParser(r)
	if p.Err() != nil {
		respondError(w, p, http.StatusBadRequest, "invalid request body")
		return
	}

	lease, err := leaseFromBody(p)
	if err != nil {
		respondError(w, p, http.StatusUnprocessableEntity, "invalid lease data: "+err.Error())
		return
	}
	if err := lease.Validate(); err != nil {
		respondError(w, p, http.StatusUnprocessableEntity, "invalid lease data: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	id, err := s.service.CreateLease(ctx, lease)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to create lease",
			"error", err, "apartment_id", lease.ApartmentID, "tenant", lease.TenantName)
		respondError(w, p, http.StatusInternalServerError, "failed to create lease")
		return
	}
	s.invalidateSummaries()

	slog.InfoContext(ctx, "Lease created",
		"lease_id", id, "apartment_id", lease.ApartmentID, "tenant", lease.TenantName)

	if p.IsJSON() {
		writeJSON(w, http.StatusCreated, map[string]string{"id": id})
		return
	}
	year, month := parseYearMonth(r)
	NewHTMXResponse().
		Status(http.StatusCreated).
		TriggerDashboardRefresh(year, month).
		TriggerFormReset().
		TriggerSuccessNotification("Lease created").
		Write(w)
}

func (s *Server) updateLease(w http.ResponseWriter, r *http.Request) {
	p := newRequestBodyParser(r)
	if p.Err() != nil {
		respondError(w, p, http.StatusBadRequest, "invalid request body")
		return
	}

	lease, err := leaseFromBody(p)
	if err != nil {
		respondError(w, p, http.StatusUnprocessableEntity, "invalid lease data: "+err.Error())
		return
	}
	if lease.ID == "" {
		respondError(w, p, http.StatusBadRequest, "missing lease id")
		return
	}
	if err := lease.Validate(); err != nil {
		respondError(w, p, http.StatusUnprocessableEntity, "invalid lease data: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	if err := s.service.UpdateLease(ctx, lease); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, p, http.StatusNotFound, "lease not found")
			return
		}
		slog.ErrorContext(ctx, "Failed to update lease", "error", err, "lease_id", lease.ID)
		respondError(w, p, http.StatusInternalServerError, "failed to update lease")
		return
	}
	s.invalidateSummaries()

	if p.IsJSON() {
		writeJSON(w, http.StatusOK, map[string]string{"id": lease.ID})
		return
	}
	year, month := parseYearMonth(r)
	NewHTMXResponse().
		TriggerDashboardRefresh(year, month).
		TriggerSuccessNotification("Lease updated").
		Write(w)
}

func (s *Server) deleteLease(w http.ResponseWriter, r *http.Request) {
	id, p := s.mutationID(r)
	if id == "" {
		respondError(w, p, http.StatusBadRequest, "missing lease id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	if err := s.service.DeleteLease(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, p, http.StatusNotFound, "lease not found")
			return
		}
		slog.ErrorContext(ctx, "Failed to delete lease", "error", err, "lease_id", id)
		respondError(w, p, http.StatusInternalServerError, "failed to delete lease")
		return
	}
	s.invalidateSummaries()

	slog.InfoContext(ctx, "Lease deleted", "lease_id", id)
	if p.IsJSON() {
		writeJSON(w, http.StatusOK, map[string]string{"id": id})
		return
	}
	year, month := parseYearMonth(r)
	NewHTMXResponse().
		TriggerDashboardRefresh(year, month).
		TriggerSuccessNotification("Lease deleted").
		Write(w)
}
