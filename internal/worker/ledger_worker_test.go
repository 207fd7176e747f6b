package worker

import (
	"context"
	"testing"

	"rentalflow/internal/amqp"
	"rentalflow/internal/core"
	ledgermem "rentalflow/internal/ledger/memory"
	storemem "rentalflow/internal/store/memory"
)

func mustDate(t *testing.T, s string) core.Date {
	t.Helper()
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func seedWorker(t *testing.T) (*LedgerWorker, *ledgermem.Store, string) {
	t.Helper()
	ctx := context.Background()
	repo := storemem.New()

	aptID, err := repo.CreateApartment(ctx, core.Apartment{
		Name: "Villa Rose",
		PriceHistory: []core.PriceEntry{
			{Price: 1200, EffectiveDate: mustDate(t, "2024-01-01")},
		},
	})
	if err != nil {
		t.Fatalf("CreateApartment: %v", err)
	}
	leaseID, err := repo.CreateLease(ctx, core.Lease{
		ApartmentID: aptID,
		StartDate:   mustDate(t, "2024-01-01"),
		EndDate:     core.OngoingEnd(),
		TenantName:  "Rakoto",
	})
	if err != nil {
		t.Fatalf("CreateLease: %v", err)
	}
	payID, err := repo.CreatePayment(ctx, core.Payment{
		LeaseID:     leaseID,
		Amount:      1200,
		Date:        mustDate(t, "2024-04-02"),
		TargetMonth: 3,
		TargetYear:  2024,
	})
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}

	sink := ledgermem.New()
	return NewLedgerWorker(repo, sink), sink, payID
}

func TestHandleEventUpsert(t *testing.T) {
	w, sink, payID := seedWorker(t)
	ctx := context.Background()

	err := w.HandleEvent(ctx, amqp.NewPaymentEventMessage(payID, amqp.OpUpsert))
	if err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}

	entries := sink.Entries()
	if len(entries) != 1 {
		t.Fatalf("want 1 ledger entry, got %d", len(entries))
	}
	e := entries[0]
	if e.PaymentID != payID {
		t.Errorf("PaymentID = %q, want %q", e.PaymentID, payID)
	}
	if e.ApartmentName != "Villa Rose" || e.TenantName != "Rakoto" {
		t.Errorf("denormalized names wrong: %+v", e)
	}
	if e.Amount != 1200 {
		t.Errorf("Amount = %d, want 1200", e.Amount)
	}
	// Explicit target period wins over the payment date.
	if e.PeriodYear != 2024 || e.PeriodMonth != 3 {
		t.Errorf("period = %d-%d, want 2024-3", e.PeriodYear, e.PeriodMonth)
	}
}

func TestHandleEventDelete(t *testing.T) {
	w, sink, payID := seedWorker(t)
	ctx := context.Background()

	if err := w.HandleEvent(ctx, amqp.NewPaymentEventMessage(payID, amqp.OpUpsert)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := w.HandleEvent(ctx, amqp.NewPaymentEventMessage(payID, amqp.OpDelete)); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if entries := sink.Entries(); len(entries) != 0 {
		t.Errorf("ledger should be empty after delete, got %+v", entries)
	}
}

func TestHandleEventMissingPayment(t *testing.T) {
	w, sink, _ := seedWorker(t)
	ctx := context.Background()

	// Unknown payments are skipped, not requeued.
	if err := w.HandleEvent(ctx, amqp.NewPaymentEventMessage("999", amqp.OpUpsert)); err != nil {
		t.Fatalf("HandleEvent for missing payment should not error: %v", err)
	}
	if entries := sink.Entries(); len(entries) != 0 {
		t.Errorf("no entry expected for missing payment, got %+v", entries)
	}
}

func TestHandleEventUnknownOp(t *testing.T) {
	w, _, payID := seedWorker(t)

	if err := w.HandleEvent(context.Background(), amqp.NewPaymentEventMessage(payID, "rename")); err != nil {
		t.Fatalf("unknown op should be dropped without error: %v", err)
	}
}
