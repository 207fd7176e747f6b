package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"rentalflow/internal/core"
	"rentalflow/internal/store"
)

func (s *Server) handleApartments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listApartments(w, r)
	case http.MethodPost:
		s.createApartment(w, r)
	case http.MethodPut:
		s.updateApartment(w, r)
	case http.MethodDelete:
		s.deleteApartment(w, r)
	default:
		methodNotAllowed(w, "GET, POST, PUT, DELETE")
	}
}

func (s *Server) listApartments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	apartments, err := s.service.ListApartments(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list apartments", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list apartments")
		return
	}
	if apartments == nil {
		apartments = []core.Apartment{}
	}
	writeJSON(w, http.StatusOK, apartments)
}

func (s *Server) createApartment(w http.ResponseWriter, r *http.Request) {
	p := newRequestBodyParser(r)
	if p.Err() != nil {
		respondError(w, p, http.StatusBadRequest, "invalid request body")
		return
	}

	apt, err := apartmentFromBody(p)
	if err != nil {
		respondError(w, p, http.StatusUnprocessableEntity, "invalid apartment data: "+err.Error())
		return
	}
	if err := apt.Validate(); err != nil {
		respondError(w, p, http.StatusUnprocessableEntity, "invalid apartment data: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	id, err := s.service.CreateApartment(ctx, apt)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to create apartment",
			"error", err, "apartment_name", apt.Name)
		respondError(w, p, http.StatusInternalServerError, "failed to create apartment")
		return
	}
	s.invalidateSummaries()

	slog.InfoContext(ctx, "Apartment created",
		"apartment_id", id, "apartment_name", apt.Name)

	if p.IsJSON() {
		writeJSON(w, http.StatusCreated, map[string]string{"id": id})
		return
	}
	year, month := parseYearMonth(r)
	NewHTMXResponse().
		Status(http.StatusCreated).
		TriggerDashboardRefresh(year, month).
		TriggerFormReset().
		TriggerSuccessNotification("Apartment created").
		Write(w)
}

func (s *Server) updateApartment(w http.ResponseWriter, r *http.Request) {
	p := newRequestBodyParser(r)
	if p.Err() != nil {
		respondError(w, p, http.StatusBadRequest, "invalid request body")
		return
	}

	apt, err := apartmentFromBody(p)
	if err != nil {
		respondError(w, p, http.StatusUnprocessableEntity, "invalid apartment data: "+err.Error())
		return
	}
	if apt.ID == "" {
		respondError(w, p, http.StatusBadRequest, "missing apartment id")
		return
	}
	if err := apt.Validate(); err != nil {
		respondError(w, p, http.StatusUnprocessableEntity, "invalid apartment data: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	if err := s.service.UpdateApartment(ctx, apt); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, p, http.StatusNotFound, "apartment not found")
			return
		}
		slog.ErrorContext(ctx, "Failed to update apartment",
			"error", err, "apartment_id", apt.ID)
		respondError(w, p, http.StatusInternalServerError, "failed to update apartment")
		return
	}
	s.invalidateSummaries()

	if p.IsJSON() {
		writeJSON(w, http.StatusOK, map[string]string{"id": apt.ID})
		return
	}
	year, month := parseYearMonth(r)
	NewHTMXResponse().
		TriggerDashboardRefresh(year, month).
		TriggerSuccessNotification("Apartment updated").
		Write(w)
}

func (s *Server) deleteApartment(w http.ResponseWriter, r *http.Request) {
	id, p := s.mutationID(r)
	if id == "" {
		respondError(w, p, http.StatusBadRequest, "missing apartment id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	if err := s.service.DeleteApartment(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, p, http.StatusNotFound, "apartment not found")
			return
		}
		slog.ErrorContext(ctx, "Failed to delete apartment",
			"error", err, "apartment_id", id)
		respondError(w, p, http.StatusInternalServerError, "failed to delete apartment")
		return
	}
	s.invalidateSummaries()

	slog.InfoContext(ctx, "Apartment deleted", "apartment_id", id)
	if p.IsJSON() {
		writeJSON(w, http.StatusOK, map[string]string{"id": id})
		return
	}
	year, month := parseYearMonth(r)
	NewHTMXResponse().
		TriggerDashboardRefresh(year, month).
		TriggerSuccessNotification("Apartment deleted").
		Write(w)
}

// mutationID resolves the target id of a delete, checking the query string
// first and the request body second.
func (s *Server) mutationID(r *http.Request) (string, *requestBodyParser) {
	p := newRequestBodyParser(r)
	if id := sanitizeInput(r.URL.Query().Get("id")); id != "" {
		return id, p
	}
	if p.Err() != nil {
		return "", p
	}
	return p.Get("id"), p
}
