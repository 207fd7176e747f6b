// Package worker contains the background consumer that mirrors payment events
// to the external rent ledger.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"rentalflow/internal/amqp"
	"rentalflow/internal/core"
	"rentalflow/internal/ledger"
	"rentalflow/internal/store"
)

// LedgerWorker consumes payment events and mirrors them to the ledger sheet.
type LedgerWorker struct {
	repo   store.Repository
	writer ledger.Writer
}

func NewLedgerWorker(repo store.Repository, writer ledger.Writer) *LedgerWorker {
	return &LedgerWorker{
		repo:   repo,
		writer: writer,
	}
}

// HandleEvent processes a single payment event from AMQP.
func (w *LedgerWorker) HandleEvent(ctx context.Context, msg *amqp.PaymentEventMessage) error {
	slog.InfoContext(ctx, "Processing payment event",
		"payment_id", msg.PaymentID,
		"op", msg.Op)

	switch msg.Op {
	case amqp.OpUpsert:
		return w.mirrorPayment(ctx, msg.PaymentID)
	case amqp.OpDelete:
		if err := w.writer.RemovePayment(ctx, msg.PaymentID); err != nil {
			return fmt.Errorf("remove payment from ledger: %w", err)
		}
		slog.InfoContext(ctx, "Removed payment from ledger", "payment_id", msg.PaymentID)
		return nil
	default:
		// Unknown ops are dropped rather than requeued.
		slog.WarnContext(ctx, "Unknown payment event op, dropping", "op", msg.Op)
		return nil
	}
}

func (w *LedgerWorker) mirrorPayment(ctx context.Context, paymentID string) error {
	payment, err := w.repo.GetPayment(ctx, paymentID)
	if errors.Is(err, store.ErrNotFound) {
		// The payment was deleted before we got to it; nothing to mirror.
		slog.WarnContext(ctx, "Payment no longer exists, skipping", "payment_id", paymentID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get payment: %w", err)
	}

	entry, err := w.buildEntry(ctx, payment)
	if err != nil {
		return err
	}

	ref, err := w.writer.AppendPayment(ctx, entry)
	if err != nil {
		return fmt.Errorf("append to ledger: %w", err)
	}

	slog.InfoContext(ctx, "Successfully mirrored payment",
		"payment_id", paymentID,
		"ledger_ref", ref,
		"amount", payment.Amount)

	return nil
}

// buildEntry denormalizes the payment with its lease and apartment so the
// ledger row is readable on its own.
func (w *LedgerWorker) buildEntry(ctx context.Context, p core.Payment) (ledger.Entry, error) {
	period := core.ResolveBillingPeriod(p)
	entry := ledger.Entry{
		PaymentID:   p.ID,
		Amount:      p.Amount,
		Date:        p.Date,
		PeriodYear:  period.Year,
		PeriodMonth: period.Month,
	}

	leases, err := w.repo.ListLeases(ctx)
	if err != nil {
		return ledger.Entry{}, fmt.Errorf("list leases: %w", err)
	}
	var lease *core.Lease
	for i := range leases {
		if leases[i].ID == p.LeaseID {
			lease = &leases[i]
			break
		}
	}
	if lease == nil {
		// Lease was removed; mirror the payment with what we have.
		slog.WarnContext(ctx, "Lease not found for payment", "payment_id", p.ID, "lease_id", p.LeaseID)
		return entry, nil
	}
	entry.TenantName = lease.TenantName

	apartments, err := w.repo.ListApartments(ctx)
	if err != nil {
		return ledger.Entry{}, fmt.Errorf("list apartments: %w", err)
	}
	for _, a := range apartments {
		if a.ID == lease.ApartmentID {
			entry.ApartmentName = a.Name
			break
		}
	}

	return entry, nil
}
