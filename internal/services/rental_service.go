// Package services orchestrates the repository, the dashboard engine and the
// async ledger mirror behind a single application-facing API.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"rentalflow/internal/amqp"
	"rentalflow/internal/core"
	"rentalflow/internal/store"
)

// EventPublisher publishes payment events for the ledger worker.
// *amqp.Client satisfies it; tests substitute a fake.
type EventPublisher interface {
	PublishPaymentEvent(ctx context.Context, paymentID, op string) error
}

// RentalService orchestrates rental operations across storage and AMQP
type RentalService struct {
	repo      store.Repository
	publisher EventPublisher
}

func NewRentalService(repo store.Repository, publisher EventPublisher) *RentalService {
	return &RentalService{
		repo:      repo,
		publisher: publisher,
	}
}

// Dashboard computes the per-apartment statuses and totals for one month.
func (s *RentalService) Dashboard(ctx context.Context, year, month int) (core.DashboardSummary, error) {
	apartments, leases, payments, err := s.loadAll(ctx)
	if err != nil {
		return core.DashboardSummary{}, err
	}
	return core.CalculateDashboardSummary(apartments, leases, payments, year, month), nil
}

// RangeSummary aggregates statuses and totals over an inclusive month range.
func (s *RentalService) RangeSummary(ctx context.Context, startYear, startMonth, endYear, endMonth int) (core.RangeSummary, error) {
	apartments, leases, payments, err := s.loadAll(ctx)
	if err != nil {
		return core.RangeSummary{}, err
	}
	return core.CalculateRangeSummary(apartments, leases, payments, startYear, startMonth, endYear, endMonth), nil
}

func (s *RentalService) loadAll(ctx context.Context) ([]core.Apartment, []core.Lease, []core.Payment, error) {
	apartments, err := s.repo.ListApartments(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list apartments: %w", err)
	}
	leases, err := s.repo.ListLeases(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list leases: %w", err)
	}
	payments, err := s.repo.ListPayments(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list payments: %w", err)
	}
	return apartments, leases, payments, nil
}

func (s *RentalService) ListApartments(ctx context.Context) ([]core.Apartment, error) {
	return s.repo.ListApartments(ctx)
}

func (s *RentalService) CreateApartment(ctx context.Context, a core.Apartment) (string, error) {
	id, err := s.repo.CreateApartment(ctx, a)
	if err != nil {
		return "", fmt.Errorf("create apartment: %w", err)
	}
	return id, nil
}

func (s *RentalService) UpdateApartment(ctx context.Context, a core.Apartment) error {
	return s.repo.UpdateApartment(ctx, a)
}

func (s *RentalService) DeleteApartment(ctx context.Context, id string) error {
	return s.repo.DeleteApartment(ctx, id)
}

func (s *RentalService) ListLeases(ctx context.Context) ([]core.Lease, error) {
	return s.repo.ListLeases(ctx)
}

// CreateLease saves the lease. Overlapping leases on the same apartment are
// accepted but logged, since the dashboard resolves them by input order.
func (s *RentalService) CreateLease(ctx context.Context, l core.Lease) (string, error) {
	existing, err := s.repo.ListLeases(ctx)
	if err != nil {
		return "", fmt.Errorf("list leases: %w", err)
	}

	id, err := s.repo.CreateLease(ctx, l)
	if err != nil {
		return "", fmt.Errorf("create lease: %w", err)
	}

	l.ID = id
	for _, overlap := range core.FindLeaseOverlaps(append(existing, l)) {
		if overlap.LeaseID == id || overlap.OtherLeaseID == id {
			slog.WarnContext(ctx, "Lease overlaps an existing lease on the same apartment",
				"lease_id", overlap.LeaseID,
				"other_lease_id", overlap.OtherLeaseID,
				"apartment_id", overlap.ApartmentID)
		}
	}

	return id, nil
}

func (s *RentalService) UpdateLease(ctx context.Context, l core.Lease) error {
	return s.repo.UpdateLease(ctx, l)
}

func (s *RentalService) DeleteLease(ctx context.Context, id string) error {
	return s.repo.DeleteLease(ctx, id)
}

func (s *RentalService) ListPayments(ctx context.Context) ([]core.Payment, error) {
	return s.repo.ListPayments(ctx)
}

// CreatePayment saves a payment locally and publishes a ledger event
func (s *RentalService) CreatePayment(ctx context.Context, p core.Payment) (string, error) {
	id, err := s.repo.CreatePayment(ctx, p)
	if err != nil {
		return "", fmt.Errorf("save payment: %w", err)
	}

	// The payment is saved either way; a failed publish only delays the mirror.
	if err := s.publishEvent(ctx, id, amqp.OpUpsert); err != nil {
		slog.ErrorContext(ctx, "Failed to publish payment event",
			"payment_id", id, "error", err)
	}

	return id, nil
}

// UpdatePayment rewrites a payment locally and republishes it so the ledger
// row is rewritten too.
func (s *RentalService) UpdatePayment(ctx context.Context, p core.Payment) error {
	if err := s.repo.UpdatePayment(ctx, p); err != nil {
		return fmt.Errorf("update payment: %w", err)
	}

	if err := s.publishEvent(ctx, p.ID, amqp.OpUpsert); err != nil {
		slog.ErrorContext(ctx, "Failed to publish payment event",
			"payment_id", p.ID, "error", err)
	}

	return nil
}

// DeletePayment removes a payment locally and publishes a delete event
func (s *RentalService) DeletePayment(ctx context.Context, id string) error {
	if err := s.repo.DeletePayment(ctx, id); err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}

	if err := s.publishEvent(ctx, id, amqp.OpDelete); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete event",
			"payment_id", id, "error", err)
	}

	return nil
}

func (s *RentalService) publishEvent(ctx context.Context, paymentID, op string) error {
	if s.publisher == nil {
		slog.DebugContext(ctx, "No event publisher configured, skipping ledger event")
		return nil
	}
	return s.publisher.PublishPaymentEvent(ctx, paymentID, op)
}

// Close closes the underlying repository
func (s *RentalService) Close() error {
	if s.repo != nil {
		if err := s.repo.Close(); err != nil {
			return fmt.Errorf("close repository: %w", err)
		}
	}
	return nil
}
