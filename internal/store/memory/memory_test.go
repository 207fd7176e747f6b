package memory

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"rentalflow/internal/core"
	"rentalflow/internal/store"
)

func mustDate(t *testing.T, s string) core.Date {
	t.Helper()
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func seedStore(t *testing.T) (*Store, string, string, string) {
	t.Helper()
	ctx := context.Background()
	s := New()

	aptID, err := s.CreateApartment(ctx, core.Apartment{
		Name: "Villa Rose",
		PriceHistory: []core.PriceEntry{
			{Price: 1200, EffectiveDate: mustDate(t, "2024-01-01")},
		},
	})
	if err != nil {
		t.Fatalf("CreateApartment: %v", err)
	}

	leaseID, err := s.CreateLease(ctx, core.Lease{
		ApartmentID: aptID,
		StartDate:   mustDate(t, "2024-01-01"),
		EndDate:     core.OngoingEnd(),
		TenantName:  "Rakoto",
	})
	if err != nil {
		t.Fatalf("CreateLease: %v", err)
	}

	payID, err := s.CreatePayment(ctx, core.Payment{
		LeaseID: leaseID,
		Amount:  1200,
		Date:    mustDate(t, "2024-03-05"),
	})
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
	return s, aptID, leaseID, payID
}

func TestCreateAssignsSequentialIDs(t *testing.T) {
	s, aptID, leaseID, payID := seedStore(t)
	_ = s
	if aptID == leaseID || leaseID == payID || aptID == payID {
		t.Fatalf("ids not unique: %q %q %q", aptID, leaseID, payID)
	}
}

func TestListApartmentsReturnsCopies(t *testing.T) {
	s, _, _, _ := seedStore(t)
	ctx := context.Background()

	first, _ := s.ListApartments(ctx)
	first[0].Name = "mutated"
	first[0].PriceHistory[0].Price = 9

	second, _ := s.ListApartments(ctx)
	if second[0].Name != "Villa Rose" {
		t.Errorf("name leaked through snapshot: %q", second[0].Name)
	}
	if second[0].PriceHistory[0].Price != 1200 {
		t.Errorf("price history leaked through snapshot: %d", second[0].PriceHistory[0].Price)
	}
}

func TestUpdateApartmentNotFound(t *testing.T) {
	s, _, _, _ := seedStore(t)
	err := s.UpdateApartment(context.Background(), core.Apartment{
		ID:   "999",
		Name: "Nope",
		PriceHistory: []core.PriceEntry{
			{Price: 100, EffectiveDate: mustDate(t, "2024-01-01")},
		},
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestCreateRejectsInvalid(t *testing.T) {
	s := New()
	ctx := context.Background()
	if _, err := s.CreateApartment(ctx, core.Apartment{Name: ""}); err == nil {
		t.Error("apartment without name accepted")
	}
	if _, err := s.CreatePayment(ctx, core.Payment{LeaseID: "1", Amount: 100, Date: mustDate(t, "2024-01-01"), TargetMonth: 3}); err == nil {
		t.Error("half-set target period accepted")
	}
}

func TestDeleteApartmentCascades(t *testing.T) {
	s, aptID, _, _ := seedStore(t)
	ctx := context.Background()

	if err := s.DeleteApartment(ctx, aptID); err != nil {
		t.Fatalf("DeleteApartment: %v", err)
	}
	leases, _ := s.ListLeases(ctx)
	if len(leases) != 0 {
		t.Errorf("leases not cascaded: %d left", len(leases))
	}
	payments, _ := s.ListPayments(ctx)
	if len(payments) != 0 {
		t.Errorf("payments not cascaded: %d left", len(payments))
	}
}

func TestDeleteLeaseCascadesPayments(t *testing.T) {
	s, _, leaseID, payID := seedStore(t)
	ctx := context.Background()

	if err := s.DeleteLease(ctx, leaseID); err != nil {
		t.Fatalf("DeleteLease: %v", err)
	}
	if _, err := s.GetPayment(ctx, payID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("payment survived lease delete: %v", err)
	}
	apartments, _ := s.ListApartments(ctx)
	if len(apartments) != 1 {
		t.Errorf("apartment should survive lease delete, got %d", len(apartments))
	}
}

func TestUpdatePayment(t *testing.T) {
	s, _, leaseID, payID := seedStore(t)
	ctx := context.Background()

	updated := core.Payment{
		ID:          payID,
		LeaseID:     leaseID,
		Amount:      900,
		Date:        mustDate(t, "2024-04-02"),
		TargetMonth: 3,
		TargetYear:  2024,
	}
	if err := s.UpdatePayment(ctx, updated); err != nil {
		t.Fatalf("UpdatePayment: %v", err)
	}

	payments, err := s.ListPayments(ctx)
	if err != nil {
		t.Fatalf("ListPayments: %v", err)
	}
	if len(payments) != 1 {
		t.Fatalf("want 1 payment, got %d", len(payments))
	}
	got := payments[0]
	if got.Amount != 900 || got.TargetMonth != 3 || got.TargetYear != 2024 {
		t.Fatalf("payment not updated: %+v", got)
	}

	updated.ID = "999"
	if err := s.UpdatePayment(ctx, updated); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestDeletePaymentNotFound(t *testing.T) {
	s, _, _, _ := seedStore(t)
	if err := s.DeletePayment(context.Background(), "999"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestNewFromFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, v any) {
		raw, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal %s: %v", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), raw, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	write("apartments.json", []core.Apartment{{
		ID:   "7",
		Name: "Studio B",
		PriceHistory: []core.PriceEntry{
			{ID: "8", Price: 950, EffectiveDate: mustDate(t, "2023-06-01")},
		},
	}})
	write("leases.json", []core.Lease{{
		ID: "9", ApartmentID: "7",
		StartDate: mustDate(t, "2023-06-01"), EndDate: core.OngoingEnd(),
		TenantName: "Rasoa",
	}})

	s := NewFromFiles(dir)
	ctx := context.Background()

	apartments, _ := s.ListApartments(ctx)
	if len(apartments) != 1 || apartments[0].Name != "Studio B" {
		t.Fatalf("unexpected seed apartments: %+v", apartments)
	}

	// New ids must not collide with seeded ones.
	id, err := s.CreatePayment(ctx, core.Payment{LeaseID: "9", Amount: 950, Date: mustDate(t, "2023-07-01")})
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
	if id == "7" || id == "8" || id == "9" {
		t.Errorf("id collides with seed data: %q", id)
	}
}

func TestNewFromFilesMissingDir(t *testing.T) {
	s := NewFromFiles(filepath.Join(t.TempDir(), "nope"))
	apartments, _ := s.ListApartments(context.Background())
	if len(apartments) != 0 {
		t.Fatalf("expected empty store, got %d apartments", len(apartments))
	}
}
