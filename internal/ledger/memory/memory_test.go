package memory

import (
	"context"
	"testing"

	"rentalflow/internal/ledger"
)

func TestAppendAndRemove(t *testing.T) {
	s := New()
	ctx := context.Background()

	ref, err := s.AppendPayment(ctx, ledger.Entry{
		PaymentID:     "1",
		ApartmentName: "Villa Rose",
		TenantName:    "Rakoto",
		Amount:        1200,
		PeriodYear:    2024,
		PeriodMonth:   3,
	})
	if err != nil {
		t.Fatalf("AppendPayment: %v", err)
	}
	if ref == "" {
		t.Error("AppendPayment returned empty row reference")
	}

	if _, err := s.AppendPayment(ctx, ledger.Entry{PaymentID: "2", Amount: 500}); err != nil {
		t.Fatalf("AppendPayment: %v", err)
	}

	if err := s.RemovePayment(ctx, "1"); err != nil {
		t.Fatalf("RemovePayment: %v", err)
	}
	entries := s.Entries()
	if len(entries) != 1 || entries[0].PaymentID != "2" {
		t.Errorf("unexpected entries after removal: %+v", entries)
	}

	// Removing an unknown ID is not an error.
	if err := s.RemovePayment(ctx, "nope"); err != nil {
		t.Errorf("RemovePayment unknown id: %v", err)
	}
}
