package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"rentalflow/internal/core"
	"rentalflow/internal/store"
)

func (s *Server) handlePayments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listPayments(w, r)
	case http.MethodPost:
		s.createPayment(w, r)
	case http.MethodPut:
		s.updatePayment(w, r)
	case http.MethodDelete:
		s.deletePayment(w, r)
	default:
		methodNotAllowed(w, "GET, POST, PUT, DELETE")
	}
}

func (s *Server) listPayments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	payments, err := s.service.ListPayments(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list payments", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list payments")
		return
	}
	if payments == nil {
		payments = []core.Payment{}
	}
	writeJSON(w, http.StatusOK, payments)
}

func (s *Server) createPayment(w http.ResponseWriter, r *http.Request) {
	p := newRequestBodyParser(r)
	if p.Err() != nil {
		respondError(w, p, http.StatusBadRequest, "invalid request body")
		return
	}

	payment, err := paymentFromBody(p)
	if err != nil {
		respondError(w, p, http.StatusUnprocessableEntity, "invalid payment data: "+err.Error())
		return
	}
	if err := payment.Validate(); err != nil {
		respondError(w, p, http.StatusUnprocessableEntity, "invalid payment data: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	id, err := s.service.CreatePayment(ctx, payment)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to create payment",
			"error", err, "lease_id", payment.LeaseID, "amount", int64(payment.Amount))
		respondError(w, p, http.StatusInternalServerError, "failed to create payment")
		return
	}
	s.invalidateSummaries()
	s.structLog.LogPaymentCreated(ctx, id, payment.LeaseID, int64(payment.Amount))

	if p.IsJSON() {
		writeJSON(w, http.StatusCreated, map[string]string{"id": id})
		return
	}
	period := core.ResolveBillingPeriod(payment)
	NewHTMXResponse().
		Status(http.StatusCreated).
		TriggerDashboardRefresh(period.Year, period.Month).
		TriggerFormReset().
		TriggerSuccessNotification("Payment recorded").
		Write(w)
}

func (s *Server) updatePayment(w http.ResponseWriter, r *http.Request) {
	p := newRequestBodyParser(r)
	if p.Err() != nil {
		respondError(w, p, http.StatusBadRequest, "invalid request body")
		return
	}

	payment, err := paymentFromBody(p)
	if err != nil {
		respondError(w, p, http.StatusUnprocessableEntity, "invalid payment data: "+err.Error())
		return
	}
	if payment.ID == "" {
		respondError(w, p, http.StatusBadRequest, "missing payment id")
		return
	}
	if err := payment.Validate(); err != nil {
		respondError(w, p, http.StatusUnprocessableEntity, "invalid payment data: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	if err := s.service.UpdatePayment(ctx, payment); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, p, http.StatusNotFound, "payment not found")
			return
		}
		slog.ErrorContext(ctx, "Failed to update payment", "error", err, "payment_id", payment.ID)
		respondError(w, p, http.StatusInternalServerError, "failed to update payment")
		return
	}
	s.invalidateSummaries()

	if p.IsJSON() {
		writeJSON(w, http.StatusOK, map[string]string{"id": payment.ID})
		return
	}
	period := core.ResolveBillingPeriod(payment)
	NewHTMXResponse().
		TriggerDashboardRefresh(period.Year, period.Month).
		TriggerSuccessNotification("Payment updated").
		Write(w)
}

func (s *Server) deletePayment(w http.ResponseWriter, r *http.Request) {
	id, p := s.mutationID(r)
	if id == "" {
		respondError(w, p, http.StatusBadRequest, "missing payment id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	if err := s.service.DeletePayment(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, p, http.StatusNotFound, "payment not found")
			return
		}
		slog.ErrorContext(ctx, "Failed to delete payment", "error", err, "payment_id", id)
		respondError(w, p, http.StatusInternalServerError, "failed to delete payment")
		return
	}
	s.invalidateSummaries()

	year, month := parseYearMonth(r)
	s.structLog.LogPaymentRemoved(ctx, id, year, month)
	if p.IsJSON() {
		writeJSON(w, http.StatusOK, map[string]string{"id": id})
		return
	}
	NewHTMXResponse().
		TriggerDashboardRefresh(year, month).
		TriggerSuccessNotification("Payment deleted").
		Write(w)
}
